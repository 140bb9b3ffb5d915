// Package transport implements the session collaborator: credentials, the
// vCard contact source and the webhook message sender.
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tartampluch/go-genie/internal/config"
	"github.com/zalando/go-keyring"
)

var (
	ErrCredentialsMissing = errors.New(config.ErrCredentialsMissing)
	ErrPasswordMissing    = errors.New(config.ErrPasswordMissing)
)

// Credentials authenticate against the contact source and the sender.
type Credentials struct {
	Login    string
	Password string
}

// LoadCredentials reads path: the login on the first line and the password
// on the second. A blank or absent password line is looked up in the OS
// keyring under the login.
func LoadCredentials(path string) (Credentials, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrCredentialsMissing, path)
	}
	if err != nil {
		return Credentials{}, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return Credentials{}, err
	}

	if len(lines) == 0 || lines[0] == "" {
		return Credentials{}, errors.New(config.ErrCredentialsLogin)
	}
	creds := Credentials{Login: lines[0]}
	if len(lines) > 1 {
		creds.Password = lines[1]
	}
	if creds.Password != "" {
		return creds, nil
	}

	pass, err := keyring.Get(config.KeyringService, creds.Login)
	if errors.Is(err, keyring.ErrNotFound) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrPasswordMissing, creds.Login)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("%s: %w", config.ErrPasswordMissing, err)
	}
	creds.Password = pass
	return creds, nil
}

// WriteCredentials creates path holding only the login, so that the password
// is taken from the keyring. An existing file is left alone unless force is set.
func WriteCredentials(path, login string, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, config.FilePermUserRW)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, login); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// StorePassword saves the password of login in the OS keyring.
func StorePassword(login, password string) error {
	if err := keyring.Set(config.KeyringService, login, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringWrite, err)
	}
	return nil
}
