package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"studiobook/internal/domain/payment"
)

type reconciler interface {
	Reconcile(ctx context.Context, paymentID int64) (*payment.Payment, error)
}

// HandleReconcile re-verifies one payment. Malformed payloads and payments
// that no longer exist are not retried.
func HandleReconcile(svc reconciler, log logrus.FieldLogger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := decodeReconcile(task)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		p, err := svc.Reconcile(ctx, payload.PaymentID)
		if errors.Is(err, payment.ErrPaymentNotFound) {
			log.WithField("payment_id", payload.PaymentID).Warn("reconcile: payment gone")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"payment_id": p.ID,
			"status":     p.Status,
		}).Info("payment reconciled")
		return nil
	}
}

// NewMux routes every task type the worker understands.
func NewMux(svc reconciler, log logrus.FieldLogger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcilePayment, HandleReconcile(svc, log))
	return mux
}

// NewServer builds the asynq worker server for the given redis connection.
func NewServer(redis asynq.RedisClientOpt, concurrency int, log logrus.FieldLogger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}
	return asynq.NewServer(redis, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueuePayment: 6,
			QueueDefault: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.WithError(err).WithField("task", task.Type()).Error("task failed")
		}),
	})
}
