package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/todo/internal/config"
	"github.com/idilsaglam/todo/internal/coord"
	"github.com/idilsaglam/todo/internal/logging"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/server"
	"github.com/idilsaglam/todo/internal/store/jsonstore"
	"github.com/idilsaglam/todo/internal/ui"
)

// Options carry root flags. Empty fields fall back to config / env.
type Options struct {
	TodoFile   string
	ConfigPath string
	LogLevel   string

	Context context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

type runner struct {
	cfg config.Config
	ctx context.Context
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// Mutations that fail (unknown index, failed save) are reported but still
// exit 0; only an unreadable data file or config is fatal. help needs
// neither.
func Run(args []string, opt Options) int {
	r := runner{ctx: opt.Context, in: opt.Stdin, out: opt.Stdout, err: opt.Stderr}
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	if r.in == nil {
		r.in = os.Stdin
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.err == nil {
		r.err = os.Stderr
	}

	if len(args) == 0 {
		fmt.Fprintln(r.out, "Specify a command. Run `todo help` for usage.")
		return 0
	}
	cmd, a := args[0], args[1:]
	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return 0
	}

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail(r.err, "config: "+err.Error())
		return 1
	}
	if opt.TodoFile != "" {
		cfg.App.TodoFile = opt.TodoFile
	}
	if opt.LogLevel != "" {
		cfg.Log.Level = opt.LogLevel
	}
	r.cfg = cfg

	switch cmd {
	case "list", "ls":
		return r.doList()

	case "add":
		fs := newFlagSet("add", r.err)
		body := fs.String("body", model.PlaceholderBody, "entry body")
		if err := fs.Parse(a); err != nil {
			return 2
		}
		title := strings.TrimSpace(strings.Join(fs.Args(), " "))
		if title == "" {
			ui.Fail(r.err, "usage: todo add [--body <text>] <name...>")
			return 2
		}
		return r.doAdd(title, *body)

	case "remove", "rm":
		fs := newFlagSet("remove", r.err)
		byID := fs.Bool("id", false, "treat the argument as an entry id")
		if err := fs.Parse(a); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			ui.Fail(r.err, "usage: todo remove [--id] <index>")
			return 2
		}
		n, err := strconv.ParseUint(fs.Arg(0), 10, 64)
		if err != nil {
			ui.Fail(r.err, "remove: not a number: "+fs.Arg(0))
			return 2
		}
		return r.doRemove(n, *byID)

	case "serve":
		if len(a) > 1 {
			ui.Fail(r.err, "usage: todo serve [bind_addr]")
			return 2
		}
		addr := r.cfg.HTTP.BindAddr
		if len(a) == 1 {
			addr = a[0]
		}
		return r.doServe(addr)

	case "browse":
		return r.doBrowse()
	}

	ui.Fail(r.err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.err)
	PrintHelp(r.err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny todo list, on the command line and over HTTP

Usage:
  todo [-f FILE] [-config FILE] <subcommand> [args]

Subcommands:
  list                      Print all entries
  add [--body TEXT] <name>  Append an entry (name can be multiple words)
  remove [--id] <index>     Remove the entry at 0-based index (or with id)
  serve [bind_addr]         Serve the list over HTTP (default 127.0.0.1:3000)
  browse                    Interactive list (a: add, d: delete, q: quit)

Options:
  -f, --todo-file FILE      Data file (default ./todo.json, env TODO_FILE)
  -config FILE              Config file (yaml, json, toml)
  -log-level LEVEL          Server log level (debug, info, warn, error)

Examples:
  todo add "Buy milk"
  todo list
  todo remove 0
  todo serve 0.0.0.0:8080
`)
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

// -------------- subcommand impls ----------------

// load reads the data file; callers treat a failure as fatal.
func (r runner) load() (*model.TodoList, bool) {
	path := r.cfg.App.TodoFile
	l, err := model.Load(path)
	if err == nil {
		return l, true
	}
	if errors.Is(err, jsonstore.ErrCorrupt) {
		ui.Fail(r.err, fmt.Sprintf("load: %s is not a valid todo file: %v", path, err))
	} else {
		ui.Fail(r.err, "load: "+err.Error())
	}
	return nil, false
}

func (r runner) save(l *model.TodoList) bool {
	if err := l.Save(r.cfg.App.TodoFile); err != nil {
		ui.Fail(r.err, "save: "+err.Error())
		return false
	}
	return true
}

func (r runner) doList() int {
	l, ok := r.load()
	if !ok {
		return 1
	}
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", t.Title.Render("Todos"), t.Accent.Render("Total"), l.Len()),
		"",
	}
	lines = append(lines, entryLines(l.Entries())...)
	ui.Panel(r.out, lines)
	return 0
}

func (r runner) doAdd(title, body string) int {
	l, ok := r.load()
	if !ok {
		return 1
	}
	e := l.AddEntry(model.Entry{Title: title, Body: body})
	if r.save(l) {
		ui.OK(r.out, fmt.Sprintf("added #%d", e.ID))
	}
	return 0
}

func (r runner) doRemove(n uint64, byID bool) int {
	l, ok := r.load()
	if !ok {
		return 1
	}
	var err error
	if byID {
		err = l.RemoveByID(n)
	} else {
		err = l.RemoveEntry(uint(n))
	}
	if err != nil {
		ui.Fail(r.err, err.Error())
		fmt.Fprintln(r.err, ui.Current().Muted.Render("Hint: run `todo list` to see valid indexes"))
		return 0
	}
	if r.save(l) {
		ui.OK(r.out, "removed")
	}
	return 0
}

func (r runner) doServe(addr string) int {
	l, ok := r.load()
	if !ok {
		return 1
	}
	logger := logging.New(r.err, r.cfg.Log.Level, r.cfg.Log.Format)
	if !logging.IsDebug(r.cfg.Log.Level) {
		gin.SetMode(gin.ReleaseMode)
	}

	path := r.cfg.App.TodoFile
	guard := coord.New(l, func(l *model.TodoList) error {
		if err := l.Save(path); err != nil {
			logger.Error("persist failed", "path", path, "err", err)
			return err
		}
		return nil
	})
	srv := server.New(guard, logger, server.Options{
		CORSOrigins:     r.cfg.HTTP.CORSOrigins,
		ReadTimeout:     r.cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout:    r.cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:     r.cfg.HTTP.IdleTimeout.Duration(),
		ShutdownTimeout: r.cfg.HTTP.ShutdownTimeout.Duration(),
	})

	ctx, stop := signal.NotifyContext(r.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("serving", "file", path, "entries", l.Len())
	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("server stopped", "err", err)
		return 1
	}
	return 0
}

func (r runner) doBrowse() int {
	l, ok := r.load()
	if !ok {
		return 1
	}
	changed, err := runBrowser(l, r.in, r.out)
	if err != nil {
		ui.Fail(r.err, "browse: "+err.Error())
		return 1
	}
	if changed && r.save(l) {
		ui.OK(r.out, "saved")
	}
	return 0
}

// -------------- rendering helpers --------------

const maxTitleWidth = 80

func entryLines(entries []model.Entry) []string {
	t := ui.Current()
	if len(entries) == 0 {
		return []string{t.Muted.Render("no entries")}
	}
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		line := fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%2d.", i)), ansi.Truncate(e.Title, maxTitleWidth, "..."))
		if e.Body != "" {
			line += " " + t.Muted.Render("— "+e.Body)
		}
		out = append(out, line)
	}
	return out
}
