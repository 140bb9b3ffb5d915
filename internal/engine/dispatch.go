package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-genie/internal/config"
)

// Sender delivers one message to one contact.
type Sender interface {
	Send(ctx context.Context, contactID, text string) error
}

// Delivery describes one send attempt.
type Delivery struct {
	ContactID  string
	Name       string
	Occurrence time.Time
	Message    string
	At         time.Time
	Err        error
}

// Failed reports whether the attempt did not reach the contact.
func (d Delivery) Failed() bool { return d.Err != nil }

// DeliveryRecorder persists delivery attempts. Recording is best effort.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, d Delivery) error
}

// DispatchReport lists the outcome of one dispatch pass.
type DispatchReport struct {
	// Delivered holds the advanced entries that were sent.
	Delivered []BirthdayEntry
	// Failed holds the attempts whose entry was left untouched.
	Failed []Delivery
}

// DueToday returns the entries with a message whose occurrence is exactly
// today's calendar date, in Calendar.Entries order.
func DueToday(cal *Calendar, today time.Time) []BirthdayEntry {
	var due []BirthdayEntry
	for _, e := range cal.Entries() {
		if e.DueOn(today) {
			due = append(due, e)
		}
	}
	return due
}

// Deliver sends the entry's message and returns the entry advanced by one
// year. On failure the entry is returned unchanged with the send error.
func Deliver(ctx context.Context, sender Sender, e BirthdayEntry) (BirthdayEntry, error) {
	if err := sender.Send(ctx, e.ContactID, e.Message); err != nil {
		return e, err
	}
	return e.Advanced(), nil
}

// Dispatcher sends every due entry once and writes the advanced entries back.
type Dispatcher struct {
	Sender   Sender
	Recorder DeliveryRecorder // optional
	Clock    Clock
}

// Dispatch processes the entries of cal due on today. A failed send is
// reported and skipped; the remaining entries are still processed.
func (d *Dispatcher) Dispatch(ctx context.Context, cal *Calendar, today time.Time) DispatchReport {
	log := slog.With(config.LogKeyComponent, config.CompDispatch)
	var report DispatchReport

	due := DueToday(cal, today)
	for _, e := range due {
		updated, err := Deliver(ctx, d.Sender, e)
		attempt := Delivery{
			ContactID:  e.ContactID,
			Name:       e.Name,
			Occurrence: e.Occurrence,
			Message:    e.Message,
			At:         d.now(),
			Err:        err,
		}

		if err != nil {
			log.WarnContext(ctx, config.MsgDeliveryFailed,
				config.LogKeyContact, e.ContactID,
				config.LogKeyName, e.Name,
				config.LogKeyError, err)
			report.Failed = append(report.Failed, attempt)
		} else {
			cal.Put(updated)
			log.InfoContext(ctx, config.MsgDelivered,
				config.LogKeyContact, e.ContactID,
				config.LogKeyName, e.Name,
				config.LogKeyDate, updated.Occurrence.Format(config.DateFormatDisplay))
			report.Delivered = append(report.Delivered, updated)
		}

		d.record(ctx, attempt)
	}

	log.InfoContext(ctx, config.MsgDispatchDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyDue, len(due)),
			slog.Int(config.LogKeySent, len(report.Delivered)),
			slog.Int(config.LogKeyFailed, len(report.Failed)),
		))
	return report
}

func (d *Dispatcher) record(ctx context.Context, attempt Delivery) {
	if d.Recorder == nil {
		return
	}
	if err := d.Recorder.RecordDelivery(ctx, attempt); err != nil {
		slog.Warn(config.MsgJournalFailed,
			config.LogKeyComponent, config.CompDispatch,
			config.LogKeyContact, attempt.ContactID,
			config.LogKeyError, err)
	}
}

func (d *Dispatcher) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}
