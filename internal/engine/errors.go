package engine

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-genie/internal/config"
)

// ErrNotFound is the root of every "nothing matches" condition: an absent
// calendar file, an unmatched name, an unknown contact or entry.
var ErrNotFound = errors.New(config.ErrNotFound)

var (
	// ErrEmptyName is a validation failure raised before any lookup.
	ErrEmptyName = errors.New(config.ErrEmptyName)

	ErrUnknownContact = fmt.Errorf("%w: %s", ErrNotFound, config.ErrUnknownContact)
	ErrNoEntry        = fmt.Errorf("%w: %s", ErrNotFound, config.ErrNoEntry)

	ErrEmptyMessage = errors.New(config.ErrEmptyMessage)
	ErrInvalidDate  = errors.New(config.ErrInvalidDate)
	ErrNotOpen      = errors.New(config.ErrNotOpen)
)
