package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-genie/internal/config"
)

// outgoing is the JSON body posted for one message.
type outgoing struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

// WebhookSender posts each message to an HTTP endpoint that relays it to the
// contact's messaging account.
type WebhookSender struct {
	URL    string
	Creds  Credentials
	Client *http.Client
}

// NewWebhookSender creates a sender with the given request timeout.
func NewWebhookSender(endpoint string, creds Credentials, timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = config.DefaultSendTimeout
	}
	return &WebhookSender{
		URL:    endpoint,
		Creds:  creds,
		Client: &http.Client{Timeout: timeout},
	}
}

// Send implements engine.Sender. Any non-2xx response is a failure.
func (w *WebhookSender) Send(ctx context.Context, contactID, text string) error {
	safeURL, err := checkURL(w.URL)
	if err != nil {
		return err
	}

	body, err := json.Marshal(outgoing{Recipient: contactID, Text: text})
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRequest, err)
	}
	req.Header.Set(config.HeaderContentType, config.MimeJSON)
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if w.Creds.Login != "" || w.Creds.Password != "" {
		req.SetBasicAuth(w.Creds.Login, w.Creds.Password)
	}

	slog.Debug(config.MsgSending,
		config.LogKeyComponent, config.CompSender,
		config.LogKeyURL, safeURL,
		config.LogKeyContact, contactID)

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSendFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, config.MaxHTTPResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %d %s", config.ErrSendStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}
