package models

// MilestoneStatus marks progress along the placement journey.
type MilestoneStatus string

const (
	MilestoneDone     MilestoneStatus = "done"
	MilestoneCurrent  MilestoneStatus = "current"
	MilestoneUpcoming MilestoneStatus = "upcoming"
)

// JourneyMilestone is one step on the student's placement timeline.
type JourneyMilestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Date        string          `json:"date"`
	Status      MilestoneStatus `json:"status"`
	Description string          `json:"description"`
}

// Journey is the full milestone timeline.
type Journey struct {
	Milestones []JourneyMilestone `json:"milestones"`
}
