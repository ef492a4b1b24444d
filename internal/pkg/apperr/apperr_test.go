package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKindAndCode(t *testing.T) {
	sentinel := Conflict("BOOKING_CONFLICT", "slot taken")
	specific := sentinel.WithMessage("slot %s taken", "10:00")

	assert.True(t, errors.Is(specific, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("create: %w", specific), sentinel))
	assert.False(t, errors.Is(specific, Conflict("OTHER", "slot taken")))
	assert.False(t, errors.Is(specific, Validation("BOOKING_CONFLICT", "slot taken")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", NotFound("X", "missing"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("gateway timeout")
	err := Unavailable("PAYMENT_GATEWAY_ERROR", "gateway failed").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gateway timeout")
}
