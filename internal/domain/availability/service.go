package availability

import (
	"context"
	"fmt"
	"sort"

	"studiobook/internal/domain/scheduling"
	"studiobook/internal/pkg/validator"

	"github.com/sirupsen/logrus"
)

type Service struct {
	repo    *Repository
	studios studioReader
	slots   slotInvalidator
	log     logrus.FieldLogger
}

func NewService(repo *Repository, studios studioReader, slots slotInvalidator, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, studios: studios, slots: slots, log: log}
}

func (s *Service) List(ctx context.Context, studioID int64) ([]Rule, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, studioID)
}

// Replace validates every input before touching storage, then swaps the
// whole weekly pattern.
func (s *Service) Replace(ctx context.Context, studioID int64, inputs []RuleInput) ([]Rule, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	rules := make([]Rule, 0, len(inputs))
	for i, in := range inputs {
		if errs := validator.Validate(in); errs != nil {
			return nil, ErrInvalidRule.WithMessage("Rule %d is invalid: %v", i, errs)
		}
		w, err := scheduling.NewWindow(in.StartTime, in.EndTime)
		if err != nil {
			return nil, ErrInvalidRule.WithMessage("Rule %d: %v", i, err)
		}
		available := true
		if in.IsAvailable != nil {
			available = *in.IsAvailable
		}
		rules = append(rules, Rule{
			StudioID:    studioID,
			DayOfWeek:   *in.DayOfWeek,
			StartTime:   formatClock(w.StartMinute),
			EndTime:     formatClock(w.EndMinute),
			IsAvailable: available,
		})
	}

	if err := s.repo.ReplaceAll(ctx, studioID, rules); err != nil {
		return nil, err
	}

	if s.slots != nil {
		if err := s.slots.InvalidateStudio(ctx, studioID); err != nil {
			s.log.WithError(err).WithField("studio_id", studioID).Warn("slot cache invalidation failed")
		}
	}
	s.log.WithFields(logrus.Fields{"studio_id": studioID, "rules": len(rules)}).Info("availability replaced")
	return s.repo.List(ctx, studioID)
}

// Windows returns the open windows of a weekday, ready for slot generation.
func (s *Service) Windows(ctx context.Context, studioID int64, dayOfWeek int) ([]scheduling.Window, error) {
	rules, err := s.repo.RulesFor(ctx, studioID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	windows := make([]scheduling.Window, 0, len(rules))
	for _, r := range rules {
		w, err := scheduling.NewWindow(r.StartTime, r.EndTime)
		if err != nil {
			s.log.WithError(err).WithField("rule_id", r.ID).Warn("skipping malformed availability rule")
			continue
		}
		windows = append(windows, w)
	}
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].StartMinute < windows[j].StartMinute })
	return windows, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
