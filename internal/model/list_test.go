package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idilsaglam/todo/internal/store/jsonstore"
)

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func listOf(names ...string) *TodoList {
	l := New()
	for _, n := range names {
		l.AddEntry(Entry{Title: n, Body: PlaceholderBody})
	}
	return l
}

func TestAddEntryAppendsInOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	l := listOf(names...)

	if l.Len() != len(names) {
		t.Fatalf("Len: got %d, want %d", l.Len(), len(names))
	}
	if got := titles(l.Entries()); !equalStrings(got, names) {
		t.Errorf("Entries: got %v, want %v", got, names)
	}
}

func TestAddEntryAssignsIncreasingIDs(t *testing.T) {
	l := New()
	first := l.AddEntry(Entry{Title: "a"})
	second := l.AddEntry(Entry{Title: "b", ID: 99})
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids: got %d,%d, want 1,2", first.ID, second.ID)
	}

	if err := l.RemoveEntry(1); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	third := l.AddEntry(Entry{Title: "c"})
	if third.ID != 3 {
		t.Errorf("id after removal: got %d, want 3", third.ID)
	}
}

func TestRemoveEntry(t *testing.T) {
	tests := []struct {
		name    string
		index   uint
		want    []string
		wantErr bool
	}{
		{name: "first", index: 0, want: []string{"b", "c", "d"}},
		{name: "middle", index: 2, want: []string{"a", "b", "d"}},
		{name: "last", index: 3, want: []string{"a", "b", "c"}},
		{name: "at len", index: 4, want: []string{"a", "b", "c", "d"}, wantErr: true},
		{name: "far out", index: 100, want: []string{"a", "b", "c", "d"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf("a", "b", "c", "d")
			err := l.RemoveEntry(tt.index)
			if tt.wantErr {
				if !errors.Is(err, ErrNoSuchEntry) {
					t.Errorf("err: got %v, want ErrNoSuchEntry", err)
				}
			} else if err != nil {
				t.Fatalf("RemoveEntry failed: %v", err)
			}
			if got := titles(l.Entries()); !equalStrings(got, tt.want) {
				t.Errorf("Entries: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveByID(t *testing.T) {
	l := listOf("a", "b", "c")
	if err := l.RemoveByID(2); err != nil {
		t.Fatalf("RemoveByID failed: %v", err)
	}
	if got := titles(l.Entries()); !equalStrings(got, []string{"a", "c"}) {
		t.Errorf("Entries: got %v, want [a c]", got)
	}
	if err := l.RemoveByID(2); !errors.Is(err, ErrNoSuchEntry) {
		t.Errorf("err: got %v, want ErrNoSuchEntry", err)
	}
}

func TestRemoveExample(t *testing.T) {
	l := New()
	l.AddEntry(Entry{Title: "buy milk", Body: PlaceholderBody})
	l.AddEntry(Entry{Title: "walk dog", Body: PlaceholderBody})
	if err := l.RemoveEntry(0); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}

	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("Len: got %d, want 1", len(entries))
	}
	if entries[0].Title != "walk dog" || entries[0].Body != "Some body" {
		t.Errorf("entry: got %+v", entries[0])
	}
}

func TestPage(t *testing.T) {
	names := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

	tests := []struct {
		name string
		from uint
		size uint
		want []string
	}{
		{name: "middle", from: 2, size: 3, want: []string{"2", "3", "4"}},
		{name: "default window", from: 0, size: 10, want: names},
		{name: "tail clipped", from: 8, size: 5, want: []string{"8", "9"}},
		{name: "out of range", from: 100, size: 5, want: []string{}},
		{name: "at len", from: 10, size: 1, want: []string{}},
		{name: "zero size", from: 1, size: 0, want: []string{}},
		{name: "huge size", from: 9, size: ^uint(0), want: []string{"9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf(names...)
			got := l.Page(tt.from, tt.size)
			if got == nil {
				t.Fatal("Page returned nil")
			}
			if !equalStrings(titles(got), tt.want) {
				t.Errorf("Page(%d, %d): got %v, want %v", tt.from, tt.size, titles(got), tt.want)
			}
		})
	}
}

func TestPageIsACopy(t *testing.T) {
	l := listOf("a", "b")
	page := l.Page(0, 2)
	page[0].Title = "changed"
	if l.Entries()[0].Title != "a" {
		t.Errorf("Page shares storage with the list")
	}
}

func TestClone(t *testing.T) {
	l := listOf("a", "b")
	c := l.Clone()
	l.AddEntry(Entry{Title: "c"})
	if err := l.RemoveEntry(0); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}

	if got := titles(c.Entries()); !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("clone Entries: got %v, want [a b]", got)
	}
	if e := c.AddEntry(Entry{Title: "x"}); e.ID != 3 {
		t.Errorf("clone next id: got %d, want 3", e.ID)
	}
}

func TestLoadMissingYieldsEmptyList(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "todo.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len: got %d, want 0", l.Len())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")

	l := New()
	l.AddEntry(Entry{Title: "buy milk", Body: "2 litres"})
	l.AddEntry(Entry{Title: "walk dog", Body: ""})
	l.AddEntry(Entry{Title: "ünïcode ✔", Body: "line\nbreak"})
	if err := l.RemoveEntry(1); err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}

	if err := l.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := l.Entries()
	got := loaded.Entries()
	if len(got) != len(want) {
		t.Fatalf("Len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if e := loaded.AddEntry(Entry{Title: "next"}); e.ID != 4 {
		t.Errorf("next id after load: got %d, want 4", e.ID)
	}
}

func TestLoadAssignsIDsToLegacyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	content := `{"entries":[{"title":"a","body":"x"},{"id":7,"title":"b","body":"y"},{"title":"c","body":"z"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var ids []uint64
	for _, e := range l.Entries() {
		ids = append(ids, e.ID)
	}
	if len(ids) != 3 || ids[0] != 8 || ids[1] != 7 || ids[2] != 9 {
		t.Errorf("ids: got %v, want [8 7 9]", ids)
	}
	if got := titles(l.Entries()); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Errorf("Entries: got %v, want [a b c]", got)
	}
}

func TestLoadCorruptDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed", content: `{"entries": [`},
		{name: "missing entries", content: `{}`},
		{name: "entry without body", content: `{"entries":[{"title":"a"}]}`},
		{name: "title not a string", content: `{"entries":[{"title":1,"body":"b"}]}`},
		{name: "bare array", content: `[{"title":"a","body":"b"}]`},
		{name: "id at uint64 max", content: `{"entries":[{"id":18446744073709551615,"title":"a","body":"b"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todo.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := Load(path); !errors.Is(err, jsonstore.ErrCorrupt) {
				t.Errorf("err: got %v, want ErrCorrupt", err)
			}
		})
	}
}
