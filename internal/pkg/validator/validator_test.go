package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type window struct {
	DayOfWeek int    `validate:"gte=0,lte=6"`
	StartTime string `validate:"required,clock"`
	Timezone  string `validate:"omitempty,timezone"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(window{DayOfWeek: 1, StartTime: "09:00", Timezone: "America/New_York"}))

	errs := Validate(window{DayOfWeek: 7, StartTime: "24:00", Timezone: "Mars/Olympus"})
	assert.Equal(t, "lte", errs["window.DayOfWeek"])
	assert.Equal(t, "clock", errs["window.StartTime"])
	assert.Equal(t, "timezone", errs["window.Timezone"])
}

func TestIsClock(t *testing.T) {
	for _, ok := range []string{"0:00", "09:30", "9:05", "23:59"} {
		assert.True(t, IsClock(ok), ok)
	}
	for _, bad := range []string{"24:00", "12:60", "1200", "", "12:5"} {
		assert.False(t, IsClock(bad), bad)
	}
}
