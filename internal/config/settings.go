package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Settings is the explicit configuration of one process.
// It is built once at startup and passed by pointer to every component.
type Settings struct {
	// DataDir anchors every relative path below.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	CalendarFile    string `yaml:"calendar_file" env:"CALENDAR_FILE"`
	GuardFile       string `yaml:"guard_file" env:"GUARD_FILE"`
	JournalFile     string `yaml:"journal_file" env:"JOURNAL_FILE"`
	CredentialsFile string `yaml:"credentials_file" env:"CREDENTIALS_FILE"`

	// Language selects the operator prompt translations (ISO 639-1).
	Language string `yaml:"language" env:"LANGUAGE"`

	Contacts ContactSettings  `yaml:"contacts" envPrefix:"CONTACTS_"`
	Delivery DeliverySettings `yaml:"delivery" envPrefix:"DELIVERY_"`
	Server   ServerSettings   `yaml:"server" envPrefix:"SERVER_"`
}

// ContactSettings describes where the address book is read from.
type ContactSettings struct {
	Mode      string `yaml:"mode" env:"MODE"` // SourceModeLocal or SourceModeWeb
	LocalPath string `yaml:"local_path" env:"LOCAL_PATH"`
	URL       string `yaml:"url" env:"URL"`
}

// DeliverySettings describes the outgoing message endpoint.
type DeliverySettings struct {
	WebhookURL string        `yaml:"webhook_url" env:"WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// ServerSettings configures the read-only calendar feed.
type ServerSettings struct {
	Port string `yaml:"port" env:"PORT"`
}

// DefaultSettings returns the in-memory defaults rooted at dataDir.
func DefaultSettings(dataDir string) *Settings {
	return &Settings{
		DataDir:         dataDir,
		CalendarFile:    DefaultCalendarFile,
		GuardFile:       DefaultGuardFile,
		JournalFile:     DefaultJournalFile,
		CredentialsFile: DefaultCredentialsFile,
		Language:        DefaultLanguage,
		Contacts: ContactSettings{
			Mode:      SourceModeLocal,
			LocalPath: DefaultAddressBook,
		},
		Delivery: DeliverySettings{
			Timeout: DefaultSendTimeout,
		},
		Server: ServerSettings{
			Port: DefaultPort,
		},
	}
}

// DefaultDataDir returns the per-user configuration directory of the application.
func DefaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppDirName), nil
}

// LoadSettings builds the settings from defaults, the YAML file at path (if it
// exists) and GENIE_* environment variables, in that order of precedence.
func LoadSettings(path, dataDir string) (*Settings, error) {
	s := DefaultSettings(dataDir)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults and environment only.
	default:
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsEnv, err)
	}

	s.Normalize()
	return s, nil
}

// Normalize fills zero values with defaults and anchors relative paths in DataDir.
func (s *Settings) Normalize() {
	def := DefaultSettings(s.DataDir)
	if s.CalendarFile == "" {
		s.CalendarFile = def.CalendarFile
	}
	if s.GuardFile == "" {
		s.GuardFile = def.GuardFile
	}
	if s.JournalFile == "" {
		s.JournalFile = def.JournalFile
	}
	if s.CredentialsFile == "" {
		s.CredentialsFile = def.CredentialsFile
	}
	if s.Language == "" {
		s.Language = def.Language
	}
	if s.Contacts.Mode == "" {
		s.Contacts.Mode = def.Contacts.Mode
	}
	if s.Delivery.Timeout <= 0 {
		s.Delivery.Timeout = def.Delivery.Timeout
	}
	if s.Server.Port == "" {
		s.Server.Port = def.Server.Port
	}

	s.CalendarFile = s.resolve(s.CalendarFile)
	s.GuardFile = s.resolve(s.GuardFile)
	s.JournalFile = s.resolve(s.JournalFile)
	s.CredentialsFile = s.resolve(s.CredentialsFile)
	if s.Contacts.LocalPath != "" {
		s.Contacts.LocalPath = s.resolve(s.Contacts.LocalPath)
	}
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) || s.DataDir == "" {
		return p
	}
	return filepath.Join(s.DataDir, p)
}

// Validate reports configuration errors that must abort a run before any
// calendar mutation happens.
func (s *Settings) Validate() error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	switch s.Contacts.Mode {
	case SourceModeLocal:
		if s.Contacts.LocalPath == "" {
			return errors.New(ErrLocalPathEmpty)
		}
	case SourceModeWeb:
		if s.Contacts.URL == "" {
			return errors.New(ErrWebURLEmpty)
		}
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.Contacts.Mode)
	}
	if s.Delivery.WebhookURL == "" {
		return errors.New(ErrWebhookEmpty)
	}
	return nil
}

// SaveSettings writes s as YAML to path atomically with 0600 permissions.
func SaveSettings(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return os.Chmod(path, FilePermUserRW)
}
