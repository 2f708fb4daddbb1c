package models

// StudentStatus tracks where a student sits in the placement pipeline.
type StudentStatus string

const (
	StudentStatusPending StudentStatus = "pending"
	StudentStatusActive  StudentStatus = "active"
	StudentStatusPlaced  StudentStatus = "placed"
)

// StudentUser is the authenticated identity attached to a session.
type StudentUser struct {
	ID                string        `json:"id"`
	FirstName         string        `json:"firstName"`
	LastName          string        `json:"lastName"`
	Email             string        `json:"email"`
	AvatarURL         string        `json:"avatarUrl,omitempty"`
	ProfileCompletion int           `json:"profileCompletion"`
	Status            StudentStatus `json:"status"`
}

// UserPatch carries partial user updates; nil fields are left untouched.
type UserPatch struct {
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	Email             *string `json:"email,omitempty"`
	AvatarURL         *string `json:"avatarUrl,omitempty"`
	ProfileCompletion *int    `json:"profileCompletion,omitempty"`
}
