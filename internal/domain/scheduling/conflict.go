// Package scheduling turns weekly open hours into bookable slots and decides
// whether a time range collides with existing reservations. Both slot queries
// and booking creation go through Conflicts.
package scheduling

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Dilate widens iv by buffer on both ends.
func Dilate(iv Interval, buffer time.Duration) Interval {
	if buffer <= 0 {
		return iv
	}
	return Interval{Start: iv.Start.Add(-buffer), End: iv.End.Add(buffer)}
}

// Collides reports whether candidate overlaps the reservation once the
// reservation is dilated by buffer. The candidate collides when its start or
// end falls strictly inside the dilated range, or when it covers the whole
// range. Touching a dilated boundary is allowed.
func Collides(candidate, reservation Interval, buffer time.Duration) bool {
	d := Dilate(reservation, buffer)
	startInside := candidate.Start.After(d.Start) && candidate.Start.Before(d.End)
	endInside := candidate.End.After(d.Start) && candidate.End.Before(d.End)
	covers := !candidate.Start.After(d.Start) && !candidate.End.Before(d.End)
	return startInside || endInside || covers
}

// Conflicts reports whether candidate collides with any reservation.
func Conflicts(candidate Interval, reservations []Interval, buffer time.Duration) bool {
	for _, r := range reservations {
		if Collides(candidate, r, buffer) {
			return true
		}
	}
	return false
}

// SearchWindow is the range that must be loaded from storage to evaluate
// Conflicts for candidate: any reservation outside it cannot collide.
func SearchWindow(candidate Interval, buffer time.Duration) Interval {
	return Dilate(candidate, buffer)
}
