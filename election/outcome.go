// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// IssueOutcome is the result of a token request
type IssueOutcome int

const (
	Issued IssueOutcome = iota
	AlreadyIssued
	IssueFailed
)

func (o IssueOutcome) String() string {
	switch o {
	case Issued:
		return "issued"
	case AlreadyIssued:
		return "already_issued"
	default:
		return "failed"
	}
}

// TokenStatus is the result of validating a token. The first three values
// match the status codes clients already understand.
type TokenStatus int

const (
	TokenValid TokenStatus = iota
	TokenAlreadyUsed
	TokenInvalid
	TokenCheckFailed
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenAlreadyUsed:
		return "already_used"
	case TokenInvalid:
		return "invalid"
	default:
		return "failed"
	}
}

// VoteOutcome is the result of recording a vote
type VoteOutcome int

const (
	VoteOK VoteOutcome = iota
	VoteAlreadyVoted
	VoteUnknownTeam
	VoteInvalidToken
	VoteFailed
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteOK:
		return "ok"
	case VoteAlreadyVoted:
		return "already_voted"
	case VoteUnknownTeam:
		return "unknown_team"
	case VoteInvalidToken:
		return "invalid_token"
	default:
		return "failed"
	}
}
