package scheduling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SlotStep is the fixed granularity of candidate start times.
const SlotStep = 30 * time.Minute

// MinDurationMinutes is the shortest duration a slot can be requested for.
const MinDurationMinutes = 30

const dateLayout = "2006-01-02"

// Window is one open-hours range of a day, in minutes after local midnight.
type Window struct {
	StartMinute int
	EndMinute   int
}

// ParseClock converts "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// NewWindow parses a pair of "HH:MM" strings. start must be before end.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("window start %s must be before end %s", start, end)
	}
	return Window{StartMinute: s, EndMinute: e}, nil
}

// ParseDate parses a YYYY-MM-DD calendar date as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
}

func FormatDate(t time.Time) string { return t.Format(dateLayout) }

// DayBounds returns the instants of local midnight at the start and end of
// the day containing day.
func DayBounds(day time.Time) Interval {
	y, m, d := day.Date()
	loc := day.Location()
	return Interval{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// Request describes one slot query.
type Request struct {
	// Day is any instant on the target calendar day, in the studio location.
	Day          time.Time
	Windows      []Window
	Duration     time.Duration
	Now          time.Time
	Reservations []Interval
	Buffer       time.Duration
}

// Generate walks every window from its start in SlotStep increments and
// returns the candidates that fit inside the window, end after Now and do not
// conflict with a reservation. Results are chronological; overlapping windows
// may yield duplicates.
func Generate(req Request) []Interval {
	if req.Duration <= 0 {
		return []Interval{}
	}
	y, m, d := req.Day.Date()
	loc := req.Day.Location()

	slots := []Interval{}
	for _, w := range req.Windows {
		cur := time.Date(y, m, d, 0, w.StartMinute, 0, 0, loc)
		windowEnd := time.Date(y, m, d, 0, w.EndMinute, 0, 0, loc)

		for cur.Before(windowEnd) {
			candidate := Interval{Start: cur, End: cur.Add(req.Duration)}
			if !candidate.End.After(windowEnd) &&
				candidate.End.After(req.Now) &&
				!Conflicts(candidate, req.Reservations, req.Buffer) {
				slots = append(slots, candidate)
			}
			cur = cur.Add(SlotStep)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}
