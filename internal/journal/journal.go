// Package journal keeps an append-only SQLite log of delivery attempts.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Delivery outcomes stored in the status column.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Record is one journaled delivery attempt.
type Record struct {
	ID         string
	ContactID  string
	Name       string
	Occurrence time.Time
	Message    string
	Status     string
	Error      string
	At         time.Time
}

// Journal is the SQLite-backed engine.DeliveryRecorder.
type Journal struct {
	db *sql.DB
}

// Open opens (and creates) the journal database at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s: %s", config.ErrJournalOpen, config.ErrJournalPath)
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJournalOpen, err)
	}

	db, err := sql.Open(config.JournalDriver, cleanPath+config.JournalDSNOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJournalOpen, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrJournalOpen, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrJournalOpen, err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RecordDelivery appends one attempt.
func (j *Journal) RecordDelivery(ctx context.Context, d engine.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j == nil || j.db == nil {
		return errors.New(config.ErrJournalWrite)
	}

	status, errText := StatusSent, ""
	if d.Failed() {
		status, errText = StatusFailed, d.Err.Error()
	}
	at := d.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
INSERT INTO deliveries (
	id,
	contact_id,
	name,
	occurrence,
	message,
	status,
	error,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		uuid.NewString(),
		d.ContactID,
		d.Name,
		d.Occurrence.Format(config.DateFormatDisplay),
		d.Message,
		status,
		errText,
		at.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJournalWrite, err)
	}

	slog.Debug(config.MsgJournaled,
		config.LogKeyComponent, config.CompJournal,
		config.LogKeyContact, d.ContactID,
		config.LogKeyOutcome, status)
	return nil
}

// Recent lists up to limit attempts, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errors.New(config.ErrJournalLimit)
	}

	rows, err := j.db.QueryContext(ctx, `
SELECT
	id,
	contact_id,
	name,
	occurrence,
	message,
	status,
	error,
	created_at
FROM deliveries
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJournalRead, err)
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var (
			r          Record
			occurrence string
			createdAt  int64
		)
		if err := rows.Scan(&r.ID, &r.ContactID, &r.Name, &occurrence, &r.Message, &r.Status, &r.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrJournalRead, err)
		}
		r.Occurrence, _ = time.Parse(config.DateFormatDisplay, occurrence)
		r.At = time.UnixMilli(createdAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJournalRead, err)
	}
	return records, nil
}
