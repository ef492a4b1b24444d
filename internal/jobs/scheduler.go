package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues delayed reconcile tasks. It satisfies
// payment.ReconcileScheduler.
type Scheduler struct {
	client enqueuer
	log    logrus.FieldLogger
}

func NewScheduler(client enqueuer, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{client: client, log: log}
}

func (s *Scheduler) ScheduleReconcile(ctx context.Context, paymentID int64, delay time.Duration) error {
	task, opts, err := NewReconcileTask(paymentID, delay)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"task_id":    info.ID,
		"queue":      info.Queue,
		"process_at": info.NextProcessAt,
	}).Debug("reconcile scheduled")
	return nil
}

// NoopScheduler drops every request. It is used when no redis is configured
// and the periodic sweep is the only reconciliation path.
type NoopScheduler struct{}

func (NoopScheduler) ScheduleReconcile(context.Context, int64, time.Duration) error { return nil }
