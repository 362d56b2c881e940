package model

// PlaceholderBody is the body given to entries added from the CLI without one.
const PlaceholderBody = "Some body"

// Entry is a single todo item.
// ID is assigned when the entry is added to a TodoList and never reused.
type Entry struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
