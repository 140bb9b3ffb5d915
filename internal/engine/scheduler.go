package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-genie/internal/config"
)

// Clock abstracts time.Now() to allow deterministic testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the local wall clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ContactSource returns a fresh Directory snapshot.
type ContactSource interface {
	FetchContacts(ctx context.Context) (*Directory, error)
}

// Repository is the durable home of the Calendar.
// Load fails with ErrNotFound when nothing has been saved yet.
type Repository interface {
	Load() (*Calendar, error)
	Save(cal *Calendar) error
}

// FetchGuard limits contact reconciliation to once per calendar day.
type FetchGuard interface {
	Due(today time.Time) (bool, error)
	Mark(today time.Time) error
}

// Scheduler owns the Calendar for one invocation and sequences the core
// operations: load, reconcile, dispatch, operator edits, save.
//
// It is single-threaded. Two processes sharing one Repository are not
// supported.
type Scheduler struct {
	Clock    Clock
	Source   ContactSource
	Sender   Sender
	Repo     Repository
	Guard    FetchGuard
	Recorder DeliveryRecorder // optional

	runID string
	cal   *Calendar
	dir   *Directory
}

// Open loads the calendar and reconciles it with the contact source when
// today's fetch has not happened yet. With no saved calendar, the calendar
// is bootstrapped from the contact source.
func (s *Scheduler) Open(ctx context.Context) error {
	s.runID = uuid.NewString()
	log := s.logger()
	today := s.Clock.Now()

	due, err := s.Guard.Due(today)
	if err != nil {
		return err
	}

	cal, err := s.Repo.Load()
	switch {
	case errors.Is(err, ErrNotFound):
		log.InfoContext(ctx, config.MsgBootstrap)
		return s.bootstrap(ctx, today)
	case err != nil:
		return fmt.Errorf("%s: %w", config.ErrCalendarLoad, err)
	}

	s.cal = cal
	log.InfoContext(ctx, config.MsgRunOpened, config.LogKeyEntries, cal.Len())

	if !due {
		log.InfoContext(ctx, config.MsgFetchSkipped)
		return nil
	}
	return s.Refresh(ctx)
}

func (s *Scheduler) bootstrap(ctx context.Context, today time.Time) error {
	dir, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.cal = FreshCalendar(dir, today)
	return s.Guard.Mark(today)
}

// Refresh fetches the directory, reconciles the calendar with it and marks
// the guard for today.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if s.cal == nil {
		return ErrNotOpen
	}
	today := s.Clock.Now()

	dir, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	merged, stats := Reconcile(s.cal, FreshCalendar(dir, today), dir)
	s.cal = merged

	log := s.logger()
	if stats.PruneSkipped {
		log.WarnContext(ctx, config.MsgPruneSkipped)
	}
	log.InfoContext(ctx, config.MsgReconciled,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyAdded, stats.Added),
			slog.Int(config.LogKeyUpdated, stats.Updated),
			slog.Int(config.LogKeyPruned, stats.Pruned),
			slog.Int(config.LogKeyRetained, stats.Retained),
		),
		config.LogKeyEntries, merged.Len())

	return s.Guard.Mark(today)
}

// Directory returns the contact directory of this run, fetching it once.
func (s *Scheduler) Directory(ctx context.Context) (*Directory, error) {
	if s.dir != nil {
		return s.dir, nil
	}
	return s.fetch(ctx)
}

func (s *Scheduler) fetch(ctx context.Context) (*Directory, error) {
	start := time.Now()
	dir, err := s.Source.FetchContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchContacts, err)
	}
	s.dir = dir
	s.logger().DebugContext(ctx, config.MsgDirectoryLoaded,
		config.LogKeyContacts, dir.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return dir, nil
}

// DispatchDue sends every message due today.
func (s *Scheduler) DispatchDue(ctx context.Context) (DispatchReport, error) {
	if s.cal == nil {
		return DispatchReport{}, ErrNotOpen
	}
	d := &Dispatcher{Sender: s.Sender, Recorder: s.Recorder, Clock: s.Clock}
	return d.Dispatch(ctx, s.cal, s.Clock.Now()), nil
}

// Resolve maps a typed name to its candidate contacts.
func (s *Scheduler) Resolve(ctx context.Context, name string) (Match, error) {
	if strings.TrimSpace(name) == "" {
		return Match{}, ErrEmptyName
	}
	dir, err := s.Directory(ctx)
	if err != nil {
		return Match{}, err
	}
	return Resolve(name, dir)
}

// SetBirthday creates or replaces the entry of contactID so that it falls on
// the next occurrence of month/day. The name comes from the directory and an
// already scheduled message is kept.
func (s *Scheduler) SetBirthday(ctx context.Context, contactID string, month time.Month, day int) (BirthdayEntry, error) {
	if s.cal == nil {
		return BirthdayEntry{}, ErrNotOpen
	}
	if !ValidMonthDay(month, day) {
		return BirthdayEntry{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidDate, int(month), day)
	}
	dir, err := s.Directory(ctx)
	if err != nil {
		return BirthdayEntry{}, err
	}
	contact, ok := dir.Lookup(contactID)
	if !ok {
		return BirthdayEntry{}, fmt.Errorf("%w: %s", ErrUnknownContact, contactID)
	}

	entry, _ := s.cal.Get(contactID)
	entry.ContactID = contactID
	entry.Name = contact.Name
	entry.Occurrence = NextOccurrence(s.Clock.Now(), month, day)
	s.cal.Put(entry)

	s.logger().InfoContext(ctx, config.MsgBirthdaySet,
		config.LogKeyContact, contactID,
		config.LogKeyDate, entry.Occurrence.Format(config.DateFormatDisplay))
	return entry, nil
}

// ScheduleMessage sets or replaces the message of an existing entry.
func (s *Scheduler) ScheduleMessage(contactID, text string) (BirthdayEntry, error) {
	if s.cal == nil {
		return BirthdayEntry{}, ErrNotOpen
	}
	if strings.TrimSpace(text) == "" {
		return BirthdayEntry{}, ErrEmptyMessage
	}
	entry, ok := s.cal.Get(contactID)
	if !ok {
		return BirthdayEntry{}, fmt.Errorf("%w: %s", ErrNoEntry, contactID)
	}
	entry.Message = text
	s.cal.Put(entry)

	s.logger().Info(config.MsgMessageSet, config.LogKeyContact, contactID)
	return entry, nil
}

// Calendar exposes the in-memory calendar. Nil before Open.
func (s *Scheduler) Calendar() *Calendar {
	return s.cal
}

// Close persists the calendar.
func (s *Scheduler) Close() error {
	if s.cal == nil {
		return ErrNotOpen
	}
	if err := s.Repo.Save(s.cal); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCalendarSave, err)
	}
	s.logger().Info(config.MsgCalendarSaved, config.LogKeyEntries, s.cal.Len())
	return nil
}

func (s *Scheduler) logger() *slog.Logger {
	return slog.With(
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyRun, s.runID,
	)
}
