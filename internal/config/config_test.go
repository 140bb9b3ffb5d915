package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-genie/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"SummaryPrefix", config.SummaryPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Genie/"))
	assert.Contains(t, config.StubVCalendar, config.ICalProdid)
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second)
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute)
	assert.Greater(t, config.DefaultSendTimeout, 0*time.Second)
	assert.Greater(t, config.MaxHTTPResponseSize, 0)
}

func TestLoadSettings_DefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()

	s, err := config.LoadSettings(filepath.Join(dir, "missing.yaml"), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, config.DefaultCalendarFile), s.CalendarFile)
	assert.Equal(t, filepath.Join(dir, config.DefaultGuardFile), s.GuardFile)
	assert.Equal(t, filepath.Join(dir, config.DefaultAddressBook), s.Contacts.LocalPath)
	assert.Equal(t, config.SourceModeLocal, s.Contacts.Mode)
	assert.Equal(t, config.DefaultSendTimeout, s.Delivery.Timeout)
	assert.Equal(t, config.DefaultPort, s.Server.Port)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	yamlDoc := `
language: fr
calendar_file: /var/lib/genie/cal.ics
contacts:
  mode: web
  url: https://dav.example.com/contacts.vcf
delivery:
  webhook_url: https://hooks.example.com/send
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0600))

	t.Setenv("GENIE_DELIVERY_WEBHOOK_URL", "https://override.example.com/send")
	t.Setenv("GENIE_SERVER_PORT", "9999")

	s, err := config.LoadSettings(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, "/var/lib/genie/cal.ics", s.CalendarFile, "absolute paths are kept")
	assert.Equal(t, config.SourceModeWeb, s.Contacts.Mode)
	assert.Equal(t, "https://dav.example.com/contacts.vcf", s.Contacts.URL)
	assert.Equal(t, "https://override.example.com/send", s.Delivery.WebhookURL, "environment wins over file")
	assert.Equal(t, 5*time.Second, s.Delivery.Timeout)
	assert.Equal(t, "9999", s.Server.Port)
	require.NoError(t, s.Validate())
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: [unterminated"), 0600))

	_, err := config.LoadSettings(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSettingsParse)
}

func TestSettings_Validate(t *testing.T) {
	base := func() *config.Settings {
		s := config.DefaultSettings("/data")
		s.Delivery.WebhookURL = "https://hooks.example.com"
		s.Normalize()
		return s
	}

	tests := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr string
	}{
		{"Valid", func(s *config.Settings) {}, ""},
		{"Language", func(s *config.Settings) { s.Language = "de" }, config.ErrLanguage},
		{"Mode", func(s *config.Settings) { s.Contacts.Mode = "ftp" }, config.ErrModeUnsupport},
		{"LocalPath", func(s *config.Settings) { s.Contacts.LocalPath = "" }, config.ErrLocalPathEmpty},
		{"WebURL", func(s *config.Settings) { s.Contacts.Mode = config.SourceModeWeb }, config.ErrWebURLEmpty},
		{"Webhook", func(s *config.Settings) { s.Delivery.WebhookURL = "" }, config.ErrWebhookEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.yaml")

	s := config.DefaultSettings(dir)
	s.Delivery.WebhookURL = "https://hooks.example.com"
	require.NoError(t, config.SaveSettings(path, s))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	loaded, err := config.LoadSettings(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com", loaded.Delivery.WebhookURL)
	assert.Equal(t, config.DefaultSendTimeout, loaded.Delivery.Timeout)
}
