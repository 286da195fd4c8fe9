package models

// Error codes returned in failed API responses
const (
	ErrCodeAlreadyVoted  = 1
	ErrCodeUnknownTeam   = 2
	ErrCodeUnableToSend  = 3
	ErrCodeAlreadySent   = 4
	ErrCodeInvalidEmail  = 5
	ErrCodeInvalidToken  = 6
	ErrCodeInternalError = 7
)

// Token status values returned by /validate
const (
	StatusValid       = 0
	StatusAlreadyUsed = 1
	StatusInvalid     = 2
)

// Request types

type RequestTokenRequest struct {
	Email string `json:"email"`
}

type VoteRequest struct {
	Token string `json:"token"`
	Team  string `json:"team"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

// Response types

// ResultResponse is the body of requestToken and vote. Error is only set
// when Success is false.
type ResultResponse struct {
	Success bool `json:"success"`
	Error   int  `json:"error,omitempty"`
}

type ValidateResponse struct {
	Status int `json:"status"`
}

type Team struct {
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

type TeamsResponse struct {
	Teams []Team `json:"teams"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
