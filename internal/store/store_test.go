package store_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/store"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// crlf converts a readable fixture into wire format.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestCalendarFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "birthdays.ics")
	repo := store.NewCalendarFile(path, MockClock{CurrentTime: time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)})

	original := engine.NewCalendar(
		engine.BirthdayEntry{ContactID: "123456789", Name: "Jane Doe", Occurrence: date(2026, 1, 21), Message: "Happy birthday, Jane!\nSee you soon; take care."},
		engine.BirthdayEntry{ContactID: "987654321", Name: "John Roe", Occurrence: date(2025, 7, 4)},
	)

	require.NoError(t, repo.Save(original))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, original.Entries(), loaded.Entries())

	jane, _ := loaded.Get("123456789")
	assert.True(t, jane.HasMessage())
	john, _ := loaded.Get("987654321")
	assert.False(t, john.HasMessage(), "an entry without a message stays without one")
}

func TestCalendarFile_EmptyCalendarRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "birthdays.ics")
	repo := store.NewCalendarFile(path, MockClock{CurrentTime: date(2025, 6, 15)})

	require.NoError(t, repo.Save(engine.NewCalendar()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestCalendarFile_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing file is not found", func(t *testing.T) {
		repo := store.NewCalendarFile(filepath.Join(dir, "none.ics"), MockClock{})
		_, err := repo.Load()
		assert.ErrorIs(t, err, engine.ErrNotFound)
	})

	t.Run("Empty file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ics")
		require.NoError(t, os.WriteFile(path, nil, 0600))

		_, err := store.NewCalendarFile(path, MockClock{}).Load()
		assert.ErrorIs(t, err, store.ErrEmptyFile)
		assert.NotErrorIs(t, err, engine.ErrNotFound)
	})

	t.Run("Garbage is an error", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.ics")
		require.NoError(t, os.WriteFile(path, []byte("this is not a calendar"), 0600))

		_, err := store.NewCalendarFile(path, MockClock{}).Load()
		require.Error(t, err)
		assert.NotErrorIs(t, err, engine.ErrNotFound)
	})
}

func TestEncode_Layout(t *testing.T) {
	cal := engine.NewCalendar(engine.BirthdayEntry{ContactID: "42", Name: "Ada", Occurrence: date(2025, 12, 10)})

	var buf bytes.Buffer
	require.NoError(t, store.Encode(&buf, cal, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)))
	out := buf.String()

	assert.Contains(t, out, "UID:42")
	assert.Contains(t, out, "SUMMARY:Birthday: Ada")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20251210")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20251211")
	assert.Contains(t, out, "RRULE:FREQ=YEARLY")
	assert.Contains(t, out, "\r\nX-WR-CALNAME:"+config.ICalCalName+"\r\n")
	assert.NotContains(t, out, "VALUE=TEXT")
	assert.NotContains(t, out, "DESCRIPTION", "no message, no description")
}

func TestDecode_SkipsAndDuplicates(t *testing.T) {
	fixture := crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//EN
BEGIN:VEVENT
UID:1
DTSTAMP:20250101T000000Z
SUMMARY:Birthday: Ada
DTSTART;VALUE=DATE:20250121
RRULE:FREQ=YEARLY
END:VEVENT
BEGIN:VEVENT
DTSTAMP:20250101T000000Z
SUMMARY:Birthday: Nobody
DTSTART;VALUE=DATE:20250301
END:VEVENT
BEGIN:VEVENT
UID:2
DTSTAMP:20250101T000000Z
SUMMARY:Birthday: No Start
END:VEVENT
BEGIN:VEVENT
UID:1
DTSTAMP:20250101T000000Z
SUMMARY:Birthday: Ada Lovelace
DTSTART;VALUE=DATE:20250122
DESCRIPTION:hello
END:VEVENT
END:VCALENDAR
`)

	cal, err := store.Decode(strings.NewReader(fixture), time.UTC)
	require.NoError(t, err)

	require.Equal(t, []string{"1"}, cal.IDs())
	e, _ := cal.Get("1")
	assert.Equal(t, "Ada Lovelace", e.Name, "last duplicate wins")
	assert.Equal(t, date(2025, 1, 22), e.Occurrence)
	assert.Equal(t, "hello", e.Message)
}

func TestDecode_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	fixture := crlf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//EN
BEGIN:VEVENT
UID:1
DTSTAMP:20250101T000000Z
SUMMARY:Birthday: Ada
DTSTART;VALUE=DATE:20250615
END:VEVENT
END:VCALENDAR
`)

	cal, err := store.Decode(strings.NewReader(fixture), loc)
	require.NoError(t, err)

	e, _ := cal.Get("1")
	assert.True(t, engine.SameDate(time.Date(2025, 6, 15, 0, 30, 0, 0, loc), e.Occurrence))
}

func TestFetchGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_fetch.txt")
	guard := store.NewFetchGuard(path)
	today := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	_, err := guard.Due(today)
	assert.ErrorIs(t, err, store.ErrGuardMissing)

	created, err := guard.Init()
	require.NoError(t, err)
	assert.True(t, created)

	due, err := guard.Due(today)
	require.NoError(t, err)
	assert.True(t, due, "empty guard means never fetched")

	require.NoError(t, guard.Mark(today))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", string(data))

	due, err = guard.Due(today.Add(10 * time.Hour))
	require.NoError(t, err)
	assert.False(t, due, "same day is not due")

	due, err = guard.Due(today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, due)

	created, err = guard.Init()
	require.NoError(t, err)
	assert.False(t, created, "init keeps an existing guard")
	data, _ = os.ReadFile(path)
	assert.Equal(t, "2025-06-15", string(data))
}

func TestFetchGuard_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_fetch.txt")
	require.NoError(t, os.WriteFile(path, []byte("yesterday\n"), 0600))

	_, err := store.NewFetchGuard(path).Due(time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrGuardMissing)
}
