package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starts(slots []Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}

func mustWindow(t *testing.T, from, to string) Window {
	t.Helper()
	w, err := NewWindow(from, to)
	require.NoError(t, err)
	return w
}

func TestGenerate_ExcludesBufferedReservation(t *testing.T) {
	slots := Generate(Request{
		Day:          at("00:00"),
		Windows:      []Window{mustWindow(t, "09:00", "17:00")},
		Duration:     time.Hour,
		Now:          at("00:00").AddDate(0, 0, -1),
		Reservations: []Interval{span("10:00", "11:00")},
		Buffer:       15 * time.Minute,
	})

	assert.Equal(t, []string{
		"11:30", "12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, starts(slots))
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.Duration())
	}
}

func TestGenerate_SlotsMustFitWindow(t *testing.T) {
	slots := Generate(Request{
		Day:      at("00:00"),
		Windows:  []Window{mustWindow(t, "09:00", "11:00")},
		Duration: 90 * time.Minute,
		Now:      at("00:00"),
	})

	assert.Equal(t, []string{"09:00", "09:30"}, starts(slots))
	assert.Equal(t, at("11:00"), slots[1].End)
}

func TestGenerate_SkipsPastSlots(t *testing.T) {
	slots := Generate(Request{
		Day:      at("00:00"),
		Windows:  []Window{mustWindow(t, "09:00", "12:00")},
		Duration: time.Hour,
		Now:      at("10:00"),
	})

	// 09:00-10:00 ends exactly now and is gone; 09:30-10:30 is still running.
	assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00"}, starts(slots))
	for _, s := range slots {
		assert.True(t, s.End.After(at("10:00")))
	}
}

func TestGenerate_SplitWindowsChronological(t *testing.T) {
	slots := Generate(Request{
		Day:      at("00:00"),
		Windows:  []Window{mustWindow(t, "18:00", "19:00"), mustWindow(t, "09:00", "10:00")},
		Duration: 30 * time.Minute,
		Now:      at("00:00"),
	})

	assert.Equal(t, []string{"09:00", "09:30", "18:00", "18:30"}, starts(slots))
}

func TestGenerate_OverlappingWindowsNotDeduplicated(t *testing.T) {
	slots := Generate(Request{
		Day:      at("00:00"),
		Windows:  []Window{mustWindow(t, "09:00", "10:00"), mustWindow(t, "09:00", "10:00")},
		Duration: time.Hour,
		Now:      at("00:00"),
	})

	assert.Equal(t, []string{"09:00", "09:00"}, starts(slots))
}

func TestGenerate_EmptyWhenClosed(t *testing.T) {
	slots := Generate(Request{Day: at("00:00"), Duration: time.Hour, Now: at("00:00")})
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerate_StudioLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	day, err := ParseDate("2026-01-05", loc)
	require.NoError(t, err)

	slots := Generate(Request{
		Day:      day,
		Windows:  []Window{mustWindow(t, "09:00", "10:00")},
		Duration: time.Hour,
		Now:      day.AddDate(0, 0, -1),
	})

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC), slots[0].Start.UTC())
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, 545, m)

	for _, bad := range []string{"24:00", "10:60", "10", "ab:cd", "10:5"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}

	_, err = NewWindow("17:00", "09:00")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	b := DayBounds(at("13:37"))
	assert.Equal(t, at("00:00"), b.Start)
	assert.Equal(t, at("00:00").AddDate(0, 0, 1), b.End)
}
