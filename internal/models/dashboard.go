package models

// DashboardSummary aggregates the student's current standing.
type DashboardSummary struct {
	ProfileCompletion int          `json:"profileCompletion"`
	MatchCount        int          `json:"matchCount"`
	NextStep          string       `json:"nextStep"`
	NextAppointment   *Appointment `json:"nextAppointment"`
	UpcomingActions   []string     `json:"upcomingActions"`
}
