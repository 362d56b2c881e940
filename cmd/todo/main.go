package main

import (
	"flag"
	"os"

	"github.com/idilsaglam/todo/internal/cli"
	"github.com/idilsaglam/todo/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	var todoFile string
	flag.StringVar(&todoFile, "f", "", "todo data file (default ./todo.json)")
	flag.StringVar(&todoFile, "todo-file", "", "todo data file (default ./todo.json)")
	configPath := flag.String("config", "", "config file (yaml, json or toml)")
	logLevel := flag.String("log-level", "", "server log level (debug, info, warn, error)")
	theme := flag.String("theme", "classic", "output theme (classic, mono)")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	os.Exit(cli.Run(flag.Args(), cli.Options{
		TodoFile:   todoFile,
		ConfigPath: *configPath,
		LogLevel:   *logLevel,
	}))
}
