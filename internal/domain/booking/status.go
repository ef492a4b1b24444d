package booking

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// ActiveStatuses hold their time range against other reservations.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal statuses accept no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s Status) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
