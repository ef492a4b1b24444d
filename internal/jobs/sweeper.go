package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type staleSweeper interface {
	SweepStale(ctx context.Context, olderThan, expireAfter time.Duration) (int, error)
}

// Sweeper periodically reconciles payments that are still unsettled.
type Sweeper struct {
	cron        *cron.Cron
	svc         staleSweeper
	olderThan   time.Duration
	expireAfter time.Duration
	timeout     time.Duration
	log         logrus.FieldLogger
}

// NewSweeper visits payments older than olderThan and expires those pending
// longer than expireAfter.
func NewSweeper(svc staleSweeper, olderThan, expireAfter time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{
		cron:        cron.New(cron.WithSeconds()),
		svc:         svc,
		olderThan:   olderThan,
		expireAfter: expireAfter,
		timeout:     2 * time.Minute,
		log:         log,
	}
}

// Start registers the sweep on schedule (six-field cron or @every) and starts
// the scheduler.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return fmt.Errorf("schedule payment sweep %q: %w", schedule, err)
	}
	s.cron.Start()
	s.log.WithField("schedule", schedule).Info("payment sweep scheduled")
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	n, err := s.svc.SweepStale(ctx, s.olderThan, s.expireAfter)
	if err != nil {
		s.log.WithError(err).Error("payment sweep failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"visited":  n,
		"duration": time.Since(started).String(),
	}).Info("payment sweep done")
}

// Entries reports how many jobs are registered.
func (s *Sweeper) Entries() int {
	return len(s.cron.Entries())
}
