package engine

import "time"

// BirthdayEntry is the scheduling record kept for one contact.
type BirthdayEntry struct {
	// ContactID is the stable identifier of the contact.
	// At most one entry per ContactID exists in a Calendar.
	ContactID string

	// Name is the display label taken from the Directory when the entry was
	// created or last merged. It is not unique.
	Name string

	// Occurrence is the next local calendar date on which the entry is due.
	// Only year, month and day are significant.
	Occurrence time.Time

	// Message is the text to send on Occurrence. Empty means nothing to send.
	Message string
}

// HasMessage reports whether a message is scheduled.
func (e BirthdayEntry) HasMessage() bool {
	return e.Message != ""
}

// DueOn reports whether the entry must be delivered on day: a message is
// scheduled and the occurrence falls exactly on that calendar date.
func (e BirthdayEntry) DueOn(day time.Time) bool {
	return e.HasMessage() && SameDate(e.Occurrence, day)
}

// Advanced returns a copy of the entry shifted forward by exactly one year.
// The message is kept so that it recurs next year.
func (e BirthdayEntry) Advanced() BirthdayEntry {
	e.Occurrence = e.Occurrence.AddDate(1, 0, 0)
	return e
}
