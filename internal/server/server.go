// Package server publishes the birthday calendar as a read-only iCalendar
// feed on localhost.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/store"
)

// feed is one rendered calendar with its HTTP cache validators.
type feed struct {
	data         []byte
	etag         string
	lastModified string // http.TimeFormat
}

// FeedServer serves the latest published calendar.
type FeedServer struct {
	Port  string
	Clock engine.Clock

	// Readers only load the pointer; Update swaps it whole.
	current atomic.Pointer[feed]
}

// NewFeedServer creates a server for port.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port, Clock: engine.RealClock{}}
}

// Start listens on localhost and blocks until ctx is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleFeed)

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish renders cal and serves it from now on.
func (s *FeedServer) Publish(cal *engine.Calendar) error {
	var buf bytes.Buffer
	if err := store.Encode(&buf, cal, s.now()); err != nil {
		return err
	}
	s.Update(buf.Bytes())
	return nil
}

// Follow publishes the calendar of repo, then reloads it every interval
// until ctx is cancelled. Only the first load can fail; later reload errors
// keep the previous feed.
func (s *FeedServer) Follow(ctx context.Context, repo engine.Repository, every time.Duration) error {
	cal, err := repo.Load()
	if err != nil {
		return err
	}
	if err := s.Publish(cal); err != nil {
		return err
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cal, err := repo.Load()
			if err == nil {
				err = s.Publish(cal)
			}
			if err != nil {
				slog.Warn(config.MsgFeedReloadFail,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err)
			}
		}
	}
}

// Update replaces the served content. Identical content keeps its
// Last-Modified date.
func (s *FeedServer) Update(data []byte) {
	hash := sha256.Sum256(stableBytes(data))
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	if cur := s.current.Load(); cur != nil && cur.etag == etag {
		return
	}

	s.current.Store(&feed{
		data:         data,
		etag:         etag,
		lastModified: s.now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// stableBytes drops DTSTAMP lines, which change on every render, so that the
// ETag only follows calendar content.
func stableBytes(data []byte) []byte {
	var out []byte
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("DTSTAMP")) {
			continue
		}
		out = append(out, line...)
	}
	return out
}

func (s *FeedServer) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// handleFeed serves the calendar with conditional GET support.
func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	item := s.current.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, item.etag)
	h.Set(config.HeaderLastModified, item.lastModified)

	if notModified(r, item) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

func notModified(r *http.Request, item *feed) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
