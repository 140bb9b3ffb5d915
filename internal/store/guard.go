package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
)

// ErrGuardMissing is returned when the guard file has not been created.
var ErrGuardMissing = errors.New(config.ErrGuardMissing)

// FetchGuard records the last day contacts were fetched in a one-line text
// file holding an ISO date. An empty file means "never fetched".
type FetchGuard struct {
	Path string
}

// NewFetchGuard returns a guard backed by path.
func NewFetchGuard(path string) *FetchGuard {
	return &FetchGuard{Path: path}
}

// Last returns the recorded fetch day, interpreted in loc. ok is false when
// the file is empty.
func (g *FetchGuard) Last(loc *time.Location) (last time.Time, ok bool, err error) {
	data, err := os.ReadFile(g.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, fmt.Errorf("%w: %s", ErrGuardMissing, g.Path)
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", config.ErrGuardRead, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return time.Time{}, false, nil
	}

	last, err = time.ParseInLocation(config.DateFormatGuard, value, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", config.ErrGuardParse, err)
	}
	return last, true, nil
}

// Due reports whether contacts have not been fetched yet on today's date.
func (g *FetchGuard) Due(today time.Time) (bool, error) {
	last, ok, err := g.Last(today.Location())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return last.Before(engine.DateOf(today)), nil
}

// Mark records today as the last fetch day.
func (g *FetchGuard) Mark(today time.Time) error {
	if err := atomic.WriteFile(g.Path, strings.NewReader(today.Format(config.DateFormatGuard))); err != nil {
		return fmt.Errorf("%s: %w", config.ErrGuardWrite, err)
	}
	return os.Chmod(g.Path, config.FilePermUserRW)
}

// Init creates an empty guard file unless one already exists. It reports
// whether a file was created.
func (g *FetchGuard) Init() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(g.Path), config.DirPermUserRWX); err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrGuardWrite, err)
	}

	f, err := os.OpenFile(g.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, config.FilePermUserRW)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", config.ErrGuardWrite, err)
	}
	if err := f.Close(); err != nil {
		return false, err
	}

	slog.Info(config.MsgGuardCreated,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyFile, g.Path)
	return true, nil
}
