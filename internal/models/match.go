package models

// MatchStatus tracks review progress on a company match.
type MatchStatus string

const (
	MatchStatusNew      MatchStatus = "new"
	MatchStatusReviewed MatchStatus = "reviewed"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// CompanyMatch is a company suggested to the student by the agency.
type CompanyMatch struct {
	ID          string      `json:"id"`
	CompanyName string      `json:"companyName"`
	Industry    string      `json:"industry"`
	Location    string      `json:"location"`
	Score       int         `json:"score"`
	Status      MatchStatus `json:"status"`
	Description string      `json:"description"`
}

// MatchesQuery filters and paginates the match list.
type MatchesQuery struct {
	Page     int
	PageSize int
	Industry string
	MinScore *int
	Search   string
}
