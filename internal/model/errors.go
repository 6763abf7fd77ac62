package model

import "errors"

// Common errors used across the application
var (
	// Auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenMalformed     = errors.New("token is malformed or untrusted")
	ErrSessionNotFound    = errors.New("no live session for user")
	ErrForbidden          = errors.New("insufficient role")

	// Team errors
	ErrTeamNotFound   = errors.New("team not found")
	ErrTeamNameTaken  = errors.New("team name already taken")
	ErrTeamFull       = errors.New("team is at member capacity")
	ErrAlreadyOnTeam  = errors.New("player is already on a team")
	ErrNotOnTeam      = errors.New("player is not on a team")
	ErrNotTeamMember  = errors.New("player is not a member of this team")
	ErrAlreadyInvited = errors.New("player has already been invited")
	ErrNoSuchInvite   = errors.New("no such invitation")
	ErrTargetOnTeam   = errors.New("invited player is already on a team")
	ErrNotPlayer      = errors.New("only players can join teams")

	// Challenge errors
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeNameTaken = errors.New("challenge name already taken")
	ErrAttemptNotFound    = errors.New("attempt not found")

	// Infrastructure errors
	ErrBackendUnavailable = errors.New("backend unavailable")

	// Programmer errors
	ErrInvalidArgument = errors.New("invalid argument")
)
