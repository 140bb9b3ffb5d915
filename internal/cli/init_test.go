package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-genie/internal/config"
	"github.com/zalando/go-keyring"
)

func TestInit_WritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "genie")
	settingsPath := filepath.Join(dir, config.DefaultSettingsFile)

	out, err := execute(t, &RootOptions{}, "", "init", "--config", settingsPath)
	require.NoError(t, err)
	assert.Contains(t, out, settingsPath)

	s, err := config.LoadSettings(settingsPath, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.DataDir)
	assert.Equal(t, filepath.Join(dir, config.DefaultCalendarFile), s.CalendarFile)

	guard, err := os.ReadFile(filepath.Join(dir, config.DefaultGuardFile))
	require.NoError(t, err)
	assert.Empty(t, guard, "a fresh guard makes the first run fetch")

	info, err := os.Stat(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	assert.NoFileExists(t, filepath.Join(dir, config.DefaultCredentialsFile))
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, config.DefaultSettingsFile)
	require.NoError(t, os.WriteFile(settingsPath, []byte("language: fr\n"), 0600))

	_, err := execute(t, &RootOptions{}, "", "init", "--config", settingsPath)
	require.Error(t, err)
	assert.Equal(t, config.ExitCodeConfig, GetExitCode(err))

	data, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Equal(t, "language: fr\n", string(data))

	_, err = execute(t, &RootOptions{}, "", "init", "--force", "--config", settingsPath)
	require.NoError(t, err)

	s, err := config.LoadSettings(settingsPath, dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLanguage, s.Language)
}

func TestInit_Credentials(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, config.DefaultSettingsFile)

	_, err := execute(t, &RootOptions{}, "", "init",
		"--config", settingsPath, "--login", "genie", "--password", "s3cret")
	require.NoError(t, err)

	creds, err := os.ReadFile(filepath.Join(dir, config.DefaultCredentialsFile))
	require.NoError(t, err)
	assert.Equal(t, "genie\n", string(creds))

	pass, err := keyring.Get(config.KeyringService, "genie")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)
}

func TestInit_PasswordNeedsLogin(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), config.DefaultSettingsFile)

	_, err := execute(t, &RootOptions{}, "", "init", "--config", settingsPath, "--password", "x")

	require.Error(t, err)
	assert.Equal(t, config.ExitCodeConfig, GetExitCode(err))
	assert.NoFileExists(t, settingsPath)
}
