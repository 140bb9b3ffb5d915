package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/tartampluch/go-genie/internal/config"
)

// ParseMonthDay reads an mm-dd birthday. 02-29 is accepted.
func ParseMonthDay(s string) (time.Month, int, error) {
	// Year 0 is a leap year, so 02-29 parses.
	t, err := time.Parse(config.DateFormatMonthDay, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Month(), t.Day(), nil
}

func (tr *Translator) validMonthDay(s string) error {
	if _, _, err := ParseMonthDay(s); err != nil {
		return errors.New(tr.T(config.TKeyErrDate))
	}
	return nil
}

func (tr *Translator) nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(tr.T(config.TKeyErrEmpty))
	}
	return nil
}
