// Package store persists the birthday calendar as an iCalendar file and keeps
// the once-a-day fetch guard next to it.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/natefinch/atomic"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/teambition/rrule-go"
)

// ErrEmptyFile is returned when the calendar file exists but holds no calendar.
var ErrEmptyFile = errors.New(config.ErrCalendarEmptyFile)

// CalendarFile is the iCalendar-backed engine.Repository.
type CalendarFile struct {
	Path  string
	Clock engine.Clock
}

// NewCalendarFile returns a repository reading and writing path.
func NewCalendarFile(path string, clock engine.Clock) *CalendarFile {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &CalendarFile{Path: path, Clock: clock}
}

// Load reads the calendar. A missing file is reported as engine.ErrNotFound so
// that callers can bootstrap; an empty or unreadable file is an error.
func (f *CalendarFile) Load() (*engine.Calendar, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", engine.ErrNotFound, f.Path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cal, err := Decode(file, f.Clock.Now().Location())
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgCalendarLoaded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyFile, f.Path,
		config.LogKeyEntries, cal.Len())
	return cal, nil
}

// Save replaces the calendar file atomically. Readers see either the old or
// the new content, never a partial write.
func (f *CalendarFile) Save(cal *engine.Calendar) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cal, f.Clock.Now()); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), config.DirPermUserRWX); err != nil {
		return err
	}
	if err := atomic.WriteFile(f.Path, &buf); err != nil {
		return err
	}
	return os.Chmod(f.Path, config.FilePermUserRW)
}

// Encode writes cal as an iCalendar object with one yearly all-day event per
// entry. stamp is used as DTSTAMP.
func Encode(w io.Writer, cal *engine.Calendar, stamp time.Time) error {
	entries := cal.Entries()
	if len(entries) == 0 {
		// Use the stub so that an empty calendar still loads as a calendar.
		_, err := io.WriteString(w, config.StubVCalendar)
		return err
	}

	ic := ical.NewCalendar()
	ic.Props.SetText(ical.PropVersion, config.ICalVersion)
	ic.Props.SetText(ical.PropProductID, config.ICalProdid)
	calName := ical.NewProp(config.PropXWRCalName)
	calName.Value = config.ICalCalName // plain value, SetText would add VALUE=TEXT
	ic.Props.Set(calName)
	ic.Props.SetText(ical.PropCalendarScale, config.ICalScale)

	dtStamp := ical.NewProp(ical.PropDateTimeStamp)
	dtStamp.SetDateTime(stamp.UTC())

	for _, e := range entries {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, e.ContactID)
		event.Props.SetText(ical.PropSummary, config.SummaryPrefix+e.Name)
		event.Props.Set(dtStamp)

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(e.Occurrence)
		event.Props.Set(start)

		end := ical.NewProp(ical.PropDateTimeEnd)
		end.SetDate(e.Occurrence.AddDate(0, 0, 1))
		event.Props.Set(end)

		event.Props.SetRecurrenceRule(&rrule.ROption{Freq: rrule.YEARLY})

		if e.HasMessage() {
			event.Props.SetText(ical.PropDescription, e.Message)
		}

		ic.Children = append(ic.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(ic); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCalendarEncode, err)
	}
	return nil
}

// Decode parses an iCalendar stream written by Encode. Dates are interpreted
// in loc. Events without a UID or a start date are skipped; when a UID
// repeats, the last event wins.
func Decode(r io.Reader, loc *time.Location) (*engine.Calendar, error) {
	ic, err := ical.NewDecoder(r).Decode()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCalendarDecode, err)
	}

	log := slog.With(config.LogKeyComponent, config.CompStore)
	cal := engine.NewCalendar()

	for _, event := range ic.Events() {
		uid, _ := event.Props.Text(ical.PropUID)
		start, err := event.DateTimeStart(loc)
		if uid == "" || err != nil || start.IsZero() {
			log.Warn(config.MsgSkippedEvent, config.LogKeyContact, uid)
			continue
		}

		if rule, err := event.Props.RecurrenceRule(); err != nil || rule == nil || rule.Freq != rrule.YEARLY {
			log.Warn(config.MsgNotYearly, config.LogKeyContact, uid)
		}

		if cal.Has(uid) {
			log.Warn(config.MsgDuplicateEvent, config.LogKeyContact, uid)
		}

		summary, _ := event.Props.Text(ical.PropSummary)
		message, _ := event.Props.Text(ical.PropDescription)

		cal.Put(engine.BirthdayEntry{
			ContactID:  uid,
			Name:       strings.TrimPrefix(summary, config.SummaryPrefix),
			Occurrence: start,
			Message:    message,
		})
	}
	return cal, nil
}
