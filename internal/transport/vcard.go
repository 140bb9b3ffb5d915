package transport

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
)

// VCardSource reads the contact directory from an address book, either a
// local .vcf file or an HTTP(S) URL.
type VCardSource struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string
	URL       string
	Creds     Credentials
	Fetcher   Fetcher
}

// FetchContacts implements engine.ContactSource.
func (s *VCardSource) FetchContacts(ctx context.Context) (*engine.Directory, error) {
	start := time.Now()

	r, err := s.open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer func() { _ = r.Close() }()

	dir, err := DecodeDirectory(ctx, r)
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgCardsDecoded,
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyMode, s.Mode,
		config.LogKeyContacts, dir.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return dir, nil
}

func (s *VCardSource) open(ctx context.Context) (io.ReadCloser, error) {
	switch s.Mode {
	case config.SourceModeLocal:
		if s.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(s.LocalPath)
	case config.SourceModeWeb:
		if s.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if s.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return s.Fetcher.Fetch(ctx, s.URL, s.Creds.Login, s.Creds.Password)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, s.Mode)
	}
}

// DecodeDirectory parses every card of r into a Directory, in stream order.
// A malformed stream fails as a whole: a partial directory would prune live
// calendar entries. Cards never replace each other: an id already taken gets
// the card's position in the stream as a suffix.
func DecodeDirectory(ctx context.Context, r io.Reader) (*engine.Directory, error) {
	dec := vcard.NewDecoder(r)
	dir := engine.NewDirectory()

	for pos := 0; ; pos++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		c := contactFromCard(card)
		if _, taken := dir.Lookup(c.ID); taken {
			slog.Warn(config.MsgDuplicateID,
				config.LogKeyComponent, config.CompFetcher,
				config.LogKeyContact, c.ID,
				config.LogKeyName, c.Name)
			c.ID = fmt.Sprintf(config.FormatIDSuffix, c.ID, pos)
		}
		dir.Add(c)
	}
	return dir, nil
}

func contactFromCard(card vcard.Card) engine.Contact {
	c := engine.Contact{
		Name:       cardName(card),
		ProfileURL: card.PreferredValue(vcard.FieldURL),
		PhotoURL:   card.PreferredValue(vcard.FieldPhoto),
	}

	bday := card.Value(vcard.FieldBirthday)

	c.ID = strings.TrimSpace(card.Value(vcard.FieldUID))
	if c.ID == "" {
		c.ID = hashID(c.Name, c.ProfileURL, bday)
	}

	if bday != "" {
		if month, day, err := parseDate(bday); err == nil {
			c.BirthMonth, c.BirthDay = month, day
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompFetcher,
				config.LogKeyName, c.Name,
				config.LogKeyValue, bday)
		}
	}
	return c
}

// cardName prefers FN, then the structured N, then a fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		if name := strings.TrimSpace(n.GivenName + " " + n.FamilyName); name != "" {
			return name
		}
	}
	return config.FallbackName
}

// hashID derives a stable contact id for cards without a UID.
func hashID(name, profileURL, bday string) string {
	input := fmt.Sprintf(config.FormatHashInput, name, profileURL, strings.TrimSpace(bday), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// parseDate reads the month and day of a vCard BDAY value, with or without a
// year.
func parseDate(value string) (time.Month, int, error) {
	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
		config.DateFormatNoYearD,
		config.DateFormatNoYearB,
	}

	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Month(), t.Day(), nil
		}
	}

	return 0, 0, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
