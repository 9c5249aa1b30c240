package catalog

import (
	"fmt"
	"strings"
)

// Catalog is an immutable, ordered set of entries keyed by name.
// It is built once at startup and injected into the graph model and the
// editor; nothing mutates it afterwards.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// Group is one sidebar section
type Group struct {
	Category Category `json:"category"`
	Entries  []Entry  `json:"entries"`
}

// New validates entries and builds a catalog preserving their order
func New(entries ...Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i := range entries {
		e := entries[i]
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[e.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
		}
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e.clone())
	}
	return c, nil
}

// MustNew is New for static tables; it panics on invalid input
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Lookup returns a copy of the entry called name
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i].clone(), true
}

// Has reports whether name is registered
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// HasHandle reports whether component name declares handle id for role
// without copying the entry.
func (c *Catalog) HasHandle(name string, role Role, id string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	return c.entries[i].HasHandle(role, id)
}

// Handles returns a copy of the handles component name declares for role
func (c *Catalog) Handles(name string, role Role) []Handle {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return append([]Handle{}, c.entries[i].Handles(role)...)
}

// HandleSlot returns the index of handle id among the role's handles and the
// number of handles declared for that role.
func (c *Catalog) HandleSlot(name string, role Role, id string) (index, count int, ok bool) {
	i, found := c.index[name]
	if !found {
		return -1, 0, false
	}
	e := &c.entries[i]
	index = e.HandleIndex(role, id)
	return index, len(e.Handles(role)), index >= 0
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns copies of all entries in registration order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Names returns entry names in registration order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Search returns entries whose name or description contains term,
// ignoring case. An empty term matches everything.
func (c *Catalog) Search(term string) []Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.Entries()
	}
	var out []Entry
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Description), term) {
			out = append(out, e.clone())
		}
	}
	return out
}

// ByCategory groups entries by category in sidebar order. Empty groups are
// omitted.
func (c *Catalog) ByCategory() []Group {
	return Grouped(c.entries)
}

// Grouped groups an arbitrary entry list, e.g. a search result
func Grouped(entries []Entry) []Group {
	var groups []Group
	for _, cat := range Categories() {
		var members []Entry
		for _, e := range entries {
			if e.Category == cat {
				members = append(members, e.clone())
			}
		}
		if len(members) > 0 {
			groups = append(groups, Group{Category: cat, Entries: members})
		}
	}
	return groups
}
