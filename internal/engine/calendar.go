package engine

import (
	"sort"
	"time"
)

// Calendar is the set of BirthdayEntry values keyed by ContactID.
// It has a single owner per process and is not safe for concurrent use.
type Calendar struct {
	entries map[string]BirthdayEntry
}

// NewCalendar returns a Calendar holding entries. Later duplicates win.
func NewCalendar(entries ...BirthdayEntry) *Calendar {
	c := &Calendar{entries: make(map[string]BirthdayEntry, len(entries))}
	for _, e := range entries {
		c.Put(e)
	}
	return c
}

// FreshCalendar builds one entry per directory contact with a known birthday,
// dated on its next occurrence relative to now and without a message.
func FreshCalendar(dir *Directory, now time.Time) *Calendar {
	cal := NewCalendar()
	for _, c := range dir.Contacts() {
		if !c.HasBirthday() {
			continue
		}
		cal.Put(BirthdayEntry{
			ContactID:  c.ID,
			Name:       c.Name,
			Occurrence: NextOccurrence(now, c.BirthMonth, c.BirthDay),
		})
	}
	return cal
}

// Len returns the number of entries. A nil Calendar is empty.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Get returns the entry for id.
func (c *Calendar) Get(id string) (BirthdayEntry, bool) {
	if c == nil {
		return BirthdayEntry{}, false
	}
	e, ok := c.entries[id]
	return e, ok
}

// Has reports whether an entry exists for id.
func (c *Calendar) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// Put inserts or replaces the entry for e.ContactID.
// The occurrence is truncated to its calendar date.
func (c *Calendar) Put(e BirthdayEntry) {
	e.Occurrence = DateOf(e.Occurrence)
	c.entries[e.ContactID] = e
}

// Delete removes the entry for id, if any.
func (c *Calendar) Delete(id string) {
	delete(c.entries, id)
}

// IDs returns the contact ids in lexical order.
func (c *Calendar) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Entries returns the entries ordered by occurrence, then name, then id.
func (c *Calendar) Entries() []BirthdayEntry {
	if c == nil {
		return nil
	}
	out := make([]BirthdayEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Occurrence.Equal(b.Occurrence) {
			return a.Occurrence.Before(b.Occurrence)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ContactID < b.ContactID
	})
	return out
}

// Clone returns an independent copy. Cloning nil yields an empty Calendar.
func (c *Calendar) Clone() *Calendar {
	out := NewCalendar()
	if c == nil {
		return out
	}
	for id, e := range c.entries {
		out.entries[id] = e
	}
	return out
}
