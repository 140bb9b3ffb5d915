package engine

import "time"

// Contact is one identity of a Directory snapshot.
type Contact struct {
	ID         string
	Name       string
	ProfileURL string
	PhotoURL   string

	// BirthMonth and BirthDay are zero when the birthday is unknown.
	BirthMonth time.Month
	BirthDay   int
}

// HasBirthday reports whether the contact carries a usable month/day.
func (c Contact) HasBirthday() bool {
	return ValidMonthDay(c.BirthMonth, c.BirthDay)
}

// Directory is an ordered snapshot of contact_id -> Contact, refreshed from
// the contact source on each run and never persisted.
type Directory struct {
	contacts []Contact
	index    map[string]int
}

// NewDirectory builds a Directory keeping the given order.
// A repeated ID replaces the earlier contact in place.
func NewDirectory(contacts ...Contact) *Directory {
	d := &Directory{index: make(map[string]int, len(contacts))}
	for _, c := range contacts {
		d.Add(c)
	}
	return d
}

// Add appends c, or replaces the contact already holding c.ID.
func (d *Directory) Add(c Contact) {
	if i, ok := d.index[c.ID]; ok {
		d.contacts[i] = c
		return
	}
	d.index[c.ID] = len(d.contacts)
	d.contacts = append(d.contacts, c)
}

// Len returns the number of contacts. A nil Directory is empty.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.contacts)
}

// Lookup returns the contact with the given id.
func (d *Directory) Lookup(id string) (Contact, bool) {
	if d == nil {
		return Contact{}, false
	}
	i, ok := d.index[id]
	if !ok {
		return Contact{}, false
	}
	return d.contacts[i], true
}

// Has reports whether id is present.
func (d *Directory) Has(id string) bool {
	_, ok := d.Lookup(id)
	return ok
}

// Contacts returns a copy of the contacts in directory order.
func (d *Directory) Contacts() []Contact {
	if d == nil {
		return nil
	}
	out := make([]Contact, len(d.contacts))
	copy(out, d.contacts)
	return out
}
