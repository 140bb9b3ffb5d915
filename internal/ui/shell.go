// Package ui drives the interactive operator menu of a run.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-genie/internal/config"
	"github.com/tartampluch/go-genie/internal/engine"
	"github.com/tartampluch/go-genie/internal/wish"
)

// Planner is the part of engine.Scheduler the menu edits through.
type Planner interface {
	Resolve(ctx context.Context, name string) (engine.Match, error)
	SetBirthday(ctx context.Context, contactID string, month time.Month, day int) (engine.BirthdayEntry, error)
	ScheduleMessage(contactID, text string) (engine.BirthdayEntry, error)
}

// Shell is the interactive menu: edit a birthday, schedule a message, exit.
type Shell struct {
	Planner Planner
	Prompt  Prompter
	T       *Translator

	// PickWish returns a ready-made message. Defaults to wish.Pick.
	PickWish func(kind wish.Kind) (string, error)
}

// Welcome greets the operator with the outcome of today's dispatch.
func (s *Shell) Welcome(report engine.DispatchReport) {
	s.Prompt.Say(s.T.T(config.TKeyWelcome))
	s.Prompt.Say(s.T.T(config.TKeyDispatchReport, map[string]any{
		"Sent":   len(report.Delivered),
		"Failed": len(report.Failed),
	}))
}

// Run loops over the main menu until the operator exits or closes the input.
// Only errors that end the session are returned.
func (s *Shell) Run(ctx context.Context) error {
	log := slog.With(config.LogKeyComponent, config.CompUI)
	choices := []string{
		s.T.T(config.TKeyMenuEdit),
		s.T.T(config.TKeyMenuSchedule),
		s.T.T(config.TKeyMenuExit),
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := s.Prompt.Choose(s.T.T(config.TKeyMenuPrompt), choices)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			err = s.editBirthday(ctx)
		case 1:
			err = s.scheduleMessage(ctx)
		default:
			s.Prompt.Say(s.T.T(config.TKeyGoodbye))
			return nil
		}

		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			log.Error(config.ErrAppFailed, config.LogKeyError, err)
			return err
		}
	}
}

func (s *Shell) editBirthday(ctx context.Context) error {
	contact, err := s.pickContact(ctx)
	if err != nil {
		return err
	}

	answer, err := s.Prompt.Ask(s.T.T(config.TKeyAskBirthday), s.T.validMonthDay)
	if err != nil {
		return err
	}
	month, day, err := ParseMonthDay(answer)
	if err != nil {
		return err
	}

	entry, err := s.Planner.SetBirthday(ctx, contact.ID, month, day)
	if err != nil {
		return err
	}
	s.Prompt.Say(s.T.T(config.TKeyBirthdaySaved, map[string]any{
		"Name": entry.Name,
		"Date": entry.Occurrence.Format(config.DateFormatDisplay),
	}))
	return nil
}

func (s *Shell) scheduleMessage(ctx context.Context) error {
	contact, err := s.pickContact(ctx)
	if err != nil {
		return err
	}

	text, err := s.composeMessage()
	if err != nil {
		return err
	}

	entry, err := s.Planner.ScheduleMessage(contact.ID, text)
	if errors.Is(err, engine.ErrNoEntry) {
		s.Prompt.Say(s.T.T(config.TKeyErrNoEntry, map[string]any{"Name": contact.Name}))
		return nil
	}
	if err != nil {
		return err
	}
	s.Prompt.Say(s.T.T(config.TKeyMessageSaved, map[string]any{
		"Name": entry.Name,
		"Date": entry.Occurrence.Format(config.DateFormatDisplay),
	}))
	return nil
}

// pickContact asks for a name until it matches, then disambiguates
// homonyms.
func (s *Shell) pickContact(ctx context.Context) (engine.Contact, error) {
	for {
		name, err := s.Prompt.Ask(s.T.T(config.TKeyAskName), s.T.nonEmpty)
		if err != nil {
			return engine.Contact{}, err
		}

		match, err := s.Planner.Resolve(ctx, name)
		if errors.Is(err, engine.ErrNotFound) {
			s.Prompt.Say(s.T.T(config.TKeyErrNotFound, map[string]any{"Name": name}))
			continue
		}
		if err != nil {
			return engine.Contact{}, err
		}

		if match.Unique() {
			return match.Candidates[0], nil
		}

		options := make([]string, len(match.Candidates))
		for i, c := range match.Candidates {
			options[i] = s.T.T(config.TKeyContactOption, map[string]any{
				"Name":  c.Name,
				"URL":   c.ProfileURL,
				"Photo": c.PhotoURL,
			})
		}
		i, err := s.Prompt.Choose(s.T.T(config.TKeyChooseContact), options)
		if err != nil {
			return engine.Contact{}, err
		}
		return match.Candidates[i], nil
	}
}

func (s *Shell) composeMessage() (string, error) {
	kind, err := s.Prompt.Choose(s.T.T(config.TKeyMessageType), []string{
		s.T.T(config.TKeyMessageRandom),
		s.T.T(config.TKeyMessageDraft),
	})
	if err != nil {
		return "", err
	}
	if kind == 1 {
		return s.Prompt.Ask(s.T.T(config.TKeyAskMessage), s.T.nonEmpty)
	}

	tone, err := s.Prompt.Choose(s.T.T(config.TKeyWishKind), []string{
		s.T.T(config.TKeyWishSerious),
		s.T.T(config.TKeyWishFunny),
	})
	if err != nil {
		return "", err
	}
	pick := s.PickWish
	if pick == nil {
		pick = wish.Pick
	}
	return pick(wish.Kinds[tone])
}
