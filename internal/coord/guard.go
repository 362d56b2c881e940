// Package coord serializes access to the single in-memory todo list shared
// by concurrent HTTP handlers.
package coord

import (
	"errors"
	"fmt"
	"sync"

	"github.com/idilsaglam/todo/internal/model"
)

// ErrPoisoned is returned once an operation has panicked while holding the
// lock. The guard stays unusable afterwards.
var ErrPoisoned = errors.New("todo list lock poisoned")

// Persister is run after every successful mutation, inside the lock.
type Persister func(*model.TodoList) error

// Guard owns a TodoList and admits one reader or writer at a time.
type Guard struct {
	mu       sync.Mutex
	list     *model.TodoList
	persist  Persister
	poisoned bool
}

// New wraps list. persist may be nil to keep mutations in memory only.
func New(list *model.TodoList, persist Persister) *Guard {
	return &Guard{list: list, persist: persist}
}

// View runs fn with exclusive access to the list. fn must not retain the
// list or slices obtained from it.
func (g *Guard) View(fn func(*model.TodoList) error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrPoisoned
	}
	defer g.recoverPanic(&err, nil)
	return fn(g.list)
}

// Mutate runs fn with exclusive access and then persists the result. If fn
// or the persister fails the list is restored to its state before the call.
func (g *Guard) Mutate(fn func(*model.TodoList) error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrPoisoned
	}
	snapshot := g.list.Clone()
	defer g.recoverPanic(&err, snapshot)

	if err := fn(g.list); err != nil {
		g.list = snapshot
		return err
	}
	if g.persist != nil {
		if err := g.persist(g.list); err != nil {
			g.list = snapshot
			return fmt.Errorf("persist: %w", err)
		}
	}
	return nil
}

// Flush persists the current list.
func (g *Guard) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrPoisoned
	}
	if g.persist == nil {
		return nil
	}
	return g.persist(g.list)
}

func (g *Guard) recoverPanic(err *error, snapshot *model.TodoList) {
	r := recover()
	if r == nil {
		return
	}
	g.poisoned = true
	if snapshot != nil {
		g.list = snapshot
	}
	*err = fmt.Errorf("%w: %v", ErrPoisoned, r)
}
