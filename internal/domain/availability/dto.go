package availability

type RuleInput struct {
	DayOfWeek   *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	IsAvailable *bool  `json:"is_available"`
}

type SetAvailabilityRequest struct {
	Rules []RuleInput `json:"rules"`
}
