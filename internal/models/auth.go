package models

// AuthTokens is the access/refresh token pair issued by the backend.
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthSession is the full login/register result.
type AuthSession struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         StudentUser `json:"user"`
}

// LoginPayload authenticates by email and password.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterPayload creates a new student account.
type RegisterPayload struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RefreshPayload exchanges a refresh token for a new token pair.
type RefreshPayload struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
