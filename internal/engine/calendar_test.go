package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-genie/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_PutReplacesByContactID(t *testing.T) {
	cal := engine.NewCalendar(
		engine.BirthdayEntry{ContactID: "1", Name: "Ada", Occurrence: date(2025, 3, 1)},
		engine.BirthdayEntry{ContactID: "1", Name: "Ada L.", Occurrence: date(2025, 4, 1)},
	)

	require.Equal(t, 1, cal.Len(), "uniqueness key is the contact id")
	e, ok := cal.Get("1")
	require.True(t, ok)
	assert.Equal(t, "Ada L.", e.Name)
}

func TestCalendar_PutTruncatesToDate(t *testing.T) {
	cal := engine.NewCalendar()
	cal.Put(engine.BirthdayEntry{ContactID: "1", Occurrence: time.Date(2025, 3, 1, 17, 45, 0, 0, time.UTC)})

	e, _ := cal.Get("1")
	assert.Equal(t, date(2025, 3, 1), e.Occurrence)
}

func TestCalendar_EntriesOrder(t *testing.T) {
	cal := engine.NewCalendar(
		engine.BirthdayEntry{ContactID: "c", Name: "Zoe", Occurrence: date(2025, 5, 1)},
		engine.BirthdayEntry{ContactID: "b", Name: "Bob", Occurrence: date(2025, 2, 1)},
		engine.BirthdayEntry{ContactID: "a", Name: "Amy", Occurrence: date(2025, 5, 1)},
	)

	var ids []string
	for _, e := range cal.Entries() {
		ids = append(ids, e.ContactID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, []string{"a", "b", "c"}, cal.IDs())
}

func TestCalendar_CloneIsIndependent(t *testing.T) {
	cal := engine.NewCalendar(engine.BirthdayEntry{ContactID: "1", Occurrence: date(2025, 1, 1)})
	clone := cal.Clone()
	clone.Delete("1")

	assert.True(t, cal.Has("1"))
	assert.False(t, clone.Has("1"))

	var nilCal *engine.Calendar
	assert.Equal(t, 0, nilCal.Len())
	assert.Equal(t, 0, nilCal.Clone().Len())
}

func TestFreshCalendar(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	dir := engine.NewDirectory(
		engine.Contact{ID: "1", Name: "Ada", BirthMonth: time.January, BirthDay: 21},
		engine.Contact{ID: "2", Name: "Bob"},
		engine.Contact{ID: "3", Name: "Cy", BirthMonth: time.July, BirthDay: 4},
	)

	cal := engine.FreshCalendar(dir, now)

	require.Equal(t, 2, cal.Len(), "contacts without a birthday get no entry")
	ada, _ := cal.Get("1")
	assert.Equal(t, date(2026, 1, 21), ada.Occurrence)
	assert.Equal(t, "Ada", ada.Name)
	assert.False(t, ada.HasMessage())
	cy, _ := cal.Get("3")
	assert.Equal(t, date(2025, 7, 4), cy.Occurrence)
}

func TestDirectory_OrderAndReplace(t *testing.T) {
	dir := engine.NewDirectory(
		engine.Contact{ID: "b", Name: "Bob"},
		engine.Contact{ID: "a", Name: "Amy"},
		engine.Contact{ID: "b", Name: "Bobby"},
	)

	require.Equal(t, 2, dir.Len())
	contacts := dir.Contacts()
	assert.Equal(t, "Bobby", contacts[0].Name)
	assert.Equal(t, "Amy", contacts[1].Name)
	assert.True(t, dir.Has("a"))
	assert.False(t, dir.Has("z"))

	var nilDir *engine.Directory
	assert.Equal(t, 0, nilDir.Len())
	assert.False(t, nilDir.Has("a"))
}

func TestBirthdayEntry_Advanced(t *testing.T) {
	e := engine.BirthdayEntry{ContactID: "1", Occurrence: date(2020, 1, 21), Message: "happy bday"}

	next := e.Advanced()

	assert.Equal(t, date(2021, 1, 21), next.Occurrence)
	assert.Equal(t, "happy bday", next.Message, "the message recurs next year")
	assert.Equal(t, date(2020, 1, 21), e.Occurrence, "receiver is not modified")
}

func TestBirthdayEntry_AdvancedLeapDay(t *testing.T) {
	e := engine.BirthdayEntry{Occurrence: date(2024, 2, 29)}

	assert.Equal(t, date(2025, 3, 1), e.Advanced().Occurrence, "a straight year increment normalizes Feb 29")
}
