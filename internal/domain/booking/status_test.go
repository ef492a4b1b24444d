package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusInProgress, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusNoShow, StatusCompleted, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatus_Predicates(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, s.Terminal(), s)
		assert.False(t, s.Active(), s)
	}
	for _, s := range ActiveStatuses {
		assert.False(t, s.Terminal(), s)
		assert.True(t, s.Active(), s)
	}
	assert.False(t, Status("ARCHIVED").Valid())
}

func TestCancellationNote(t *testing.T) {
	assert.Equal(t, "Cancelled: Band split up. Cancellation fee applies (50%)", cancellationNote("Band split up", true, 50))
	assert.Equal(t, "Cancelled: No reason provided. Cancellation fee applies (12.5%)", cancellationNote("  ", true, 12.5))
	assert.Equal(t, "Cancelled: Rescheduling. No cancellation fee", cancellationNote("Rescheduling", false, 50))
	assert.Equal(t, "note", appendNote("", "note"))
	assert.Equal(t, "first\nnote", appendNote("first", "note"))
}
