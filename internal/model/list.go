package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/idilsaglam/todo/internal/store/jsonstore"
)

// ErrNoSuchEntry is returned when an index or id does not address an entry.
var ErrNoSuchEntry = errors.New("no such entry")

// TodoList is the ordered collection of entries. Insertion order defines the
// index used for removal and pagination. A TodoList is not safe for
// concurrent use; see the coord package.
type TodoList struct {
	entries []Entry
	nextID  uint64
}

// document is the on-disk shape of a TodoList.
type document struct {
	Entries []Entry `json:"entries"`
	NextID  uint64  `json:"next_id,omitempty"`
}

// New returns an empty list.
func New() *TodoList {
	return &TodoList{entries: []Entry{}, nextID: 1}
}

// Entries returns the current entries in order. The slice is shared with the
// list and must not be modified.
func (l *TodoList) Entries() []Entry {
	return l.entries
}

func (l *TodoList) Len() int { return len(l.entries) }

// AddEntry appends e, assigning it the next id, and returns the stored entry.
func (l *TodoList) AddEntry(e Entry) Entry {
	e.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

// RemoveEntry deletes the entry at index; later entries shift down by one.
func (l *TodoList) RemoveEntry(index uint) error {
	if index >= uint(len(l.entries)) {
		return fmt.Errorf("%w: %d", ErrNoSuchEntry, index)
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// RemoveByID deletes the entry carrying id.
func (l *TodoList) RemoveByID(id uint64) error {
	for i, e := range l.entries {
		if e.ID == id {
			return l.RemoveEntry(uint(i))
		}
	}
	return fmt.Errorf("%w: id %d", ErrNoSuchEntry, id)
}

// Page returns a copy of at most size entries starting at from.
// An out-of-range from yields an empty slice.
func (l *TodoList) Page(from, size uint) []Entry {
	n := uint(len(l.entries))
	if from >= n {
		return []Entry{}
	}
	if size > n-from {
		size = n - from
	}
	out := make([]Entry, size)
	copy(out, l.entries[from:from+size])
	return out
}

// Clone returns a deep copy of the list.
func (l *TodoList) Clone() *TodoList {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return &TodoList{entries: entries, nextID: l.nextID}
}

// Load reads the list stored at path. A missing file yields an empty list;
// an unreadable or malformed file yields an error, which wraps
// jsonstore.ErrCorrupt when the content itself is at fault.
func Load(path string) (*TodoList, error) {
	var doc document
	found, err := jsonstore.Load(path, &doc, jsonstore.WithSchema(documentSchema))
	if err != nil {
		return nil, err
	}
	l := New()
	if !found {
		return l, nil
	}
	if err := l.restore(doc); err != nil {
		return nil, err
	}
	return l, nil
}

// Save overwrites path with the full list.
func (l *TodoList) Save(path string) error {
	return jsonstore.Save(path, document{Entries: l.entries, NextID: l.nextID})
}

// restore adopts doc, giving ids to entries written without one.
// Ids must stay below math.MaxUint64 so the next id never wraps to 0.
func (l *TodoList) restore(doc document) error {
	var maxID uint64
	for _, e := range doc.Entries {
		if e.ID == math.MaxUint64 {
			return fmt.Errorf("%w: entry id %d out of range", jsonstore.ErrCorrupt, e.ID)
		}
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	l.nextID = maxID + 1
	if doc.NextID > l.nextID {
		l.nextID = doc.NextID
	}
	l.entries = make([]Entry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.ID == 0 {
			e.ID = l.nextID
			l.nextID++
		}
		l.entries = append(l.entries, e)
	}
	return nil
}
