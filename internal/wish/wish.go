// Package wish picks ready-made birthday messages from embedded lists.
package wish

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tartampluch/go-genie/internal/config"
)

// Kind selects a wish list.
type Kind string

const (
	Serious Kind = "serious"
	Funny   Kind = "funny"
)

// Kinds lists the available wish lists in menu order.
var Kinds = []Kind{Serious, Funny}

//go:embed wishes/*.txt
var wishFS embed.FS

// List returns every wish of kind, one per non-blank line of its file.
func List(kind Kind) ([]string, error) {
	data, err := wishFS.ReadFile("wishes/" + string(kind) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("%s: %q", config.ErrWishKind, kind)
	}

	var wishes []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			wishes = append(wishes, line)
		}
	}
	if len(wishes) == 0 {
		return nil, fmt.Errorf("%s: %q", config.ErrWishEmpty, kind)
	}
	return wishes, nil
}

// Pick returns a random wish of kind.
func Pick(kind Kind) (string, error) {
	wishes, err := List(kind)
	if err != nil {
		return "", err
	}
	return wishes[rand.IntN(len(wishes))], nil
}
