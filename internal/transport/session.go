package transport

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
)

// ErrSessionClosed is returned by a Session after Logout.
var ErrSessionClosed = errors.New(config.ErrSessionClosed)

// Session is the authenticated collaborator of one run. It fetches the
// contact directory and sends messages with the same credentials.
type Session struct {
	Source *VCardSource
	Sender *WebhookSender

	closed bool
}

// Login reads the credentials and prepares the contact source and message
// sender described by s.
func Login(s *config.Settings) (*Session, error) {
	creds, err := LoadCredentials(s.CredentialsFile)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Source: &VCardSource{
			Mode:      s.Contacts.Mode,
			LocalPath: s.Contacts.LocalPath,
			URL:       s.Contacts.URL,
			Creds:     creds,
			Fetcher:   NewHTTPFetcher(),
		},
		Sender: NewWebhookSender(s.Delivery.WebhookURL, creds, s.Delivery.Timeout),
	}

	slog.Info(config.MsgSessionOpened,
		config.LogKeyComponent, config.CompSession,
		config.LogKeyUser, creds.Login,
		config.LogKeyMode, s.Contacts.Mode)
	return session, nil
}

// FetchContacts implements engine.ContactSource.
func (s *Session) FetchContacts(ctx context.Context) (*engine.Directory, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.Source.FetchContacts(ctx)
}

// Send implements engine.Sender.
func (s *Session) Send(ctx context.Context, contactID, text string) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.Sender.Send(ctx, contactID, text)
}

// Logout ends the session. Further calls fail with ErrSessionClosed.
func (s *Session) Logout() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.Source.Creds = Credentials{}
	s.Sender.Creds = Credentials{}

	slog.Info(config.MsgSessionClosed, config.LogKeyComponent, config.CompSession)
	return nil
}
