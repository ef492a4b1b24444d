package jobs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeReconcilePayment = "payment:reconcile"

	QueueDefault = "default"
	QueuePayment = "payments"

	reconcileMaxRetry = 5
)

// ReconcilePayload is the body of a payment:reconcile task.
type ReconcilePayload struct {
	PaymentID int64 `json:"payment_id"`
}

// NewReconcileTask builds a task that re-checks a payment with the gateway
// after delay. The task id is derived from the payment so a second schedule
// for the same payment is rejected by the queue.
func NewReconcileTask(paymentID int64, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ReconcilePayload{PaymentID: paymentID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReconcilePayment, b)
	opts := []asynq.Option{
		asynq.ProcessIn(delay),
		asynq.Queue(QueuePayment),
		asynq.MaxRetry(reconcileMaxRetry),
		asynq.TaskID(reconcileTaskID(paymentID)),
	}
	return task, opts, nil
}

func reconcileTaskID(paymentID int64) string {
	return "reconcile:" + strconv.FormatInt(paymentID, 10)
}

func decodeReconcile(task *asynq.Task) (ReconcilePayload, error) {
	var p ReconcilePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	if p.PaymentID <= 0 {
		return p, fmt.Errorf("%s payload: invalid payment id %d", task.Type(), p.PaymentID)
	}
	return p, nil
}
