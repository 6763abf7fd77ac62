package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ctfe/ctfe/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenMalformed     = "TOKEN_MALFORMED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeTeamNotFound       = "TEAM_NOT_FOUND"
	CodeTeamNameTaken      = "TEAM_NAME_TAKEN"
	CodeTeamFull           = "TEAM_FULL"
	CodeAlreadyOnTeam      = "ALREADY_ON_TEAM"
	CodeNotOnTeam          = "NOT_ON_TEAM"
	CodeNotTeamMember      = "NOT_TEAM_MEMBER"
	CodeAlreadyInvited     = "ALREADY_INVITED"
	CodeNoSuchInvite       = "NO_SUCH_INVITE"
	CodeTargetOnTeam       = "TARGET_ON_TEAM"
	CodeNotPlayer          = "NOT_PLAYER"
	CodeChallengeNotFound  = "CHALLENGE_NOT_FOUND"
	CodeChallengeNameTaken = "CHALLENGE_NAME_TAKEN"
	CodeAttemptNotFound    = "ATTEMPT_NOT_FOUND"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Each sentinel maps to
// its own code so clients can tell "wrong password" from "not found"
// from "session expired".
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Auth errors
	case errors.Is(err, model.ErrNotAuthenticated):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrTokenExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeTokenExpired, "Token has expired"}}
	case errors.Is(err, model.ErrTokenMalformed):
		return &httpError{http.StatusUnauthorized, APIError{CodeTokenMalformed, "Token is malformed or untrusted"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeSessionNotFound, "No live session; log in again"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Insufficient role for this action"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already taken"}}

	// Team errors
	case errors.Is(err, model.ErrTeamNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTeamNotFound, "Team not found"}}
	case errors.Is(err, model.ErrTeamNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeTeamNameTaken, "Team name already taken"}}
	case errors.Is(err, model.ErrTeamFull):
		return &httpError{http.StatusConflict, APIError{CodeTeamFull, "Team is at member capacity"}}
	case errors.Is(err, model.ErrAlreadyOnTeam):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyOnTeam, "Already on a team"}}
	case errors.Is(err, model.ErrNotOnTeam):
		return &httpError{http.StatusConflict, APIError{CodeNotOnTeam, "Not on a team"}}
	case errors.Is(err, model.ErrNotTeamMember):
		return &httpError{http.StatusForbidden, APIError{CodeNotTeamMember, "Only team members can perform this action"}}
	case errors.Is(err, model.ErrAlreadyInvited):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInvited, "Player has already been invited"}}
	case errors.Is(err, model.ErrNoSuchInvite):
		return &httpError{http.StatusNotFound, APIError{CodeNoSuchInvite, "No such invitation"}}
	case errors.Is(err, model.ErrTargetOnTeam):
		return &httpError{http.StatusConflict, APIError{CodeTargetOnTeam, "Player is already on a team"}}
	case errors.Is(err, model.ErrNotPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeNotPlayer, "Only players can be on teams"}}

	// Challenge errors
	case errors.Is(err, model.ErrChallengeNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeChallengeNotFound, "Challenge not found"}}
	case errors.Is(err, model.ErrChallengeNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeChallengeNameTaken, "Challenge name already taken"}}
	case errors.Is(err, model.ErrAttemptNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAttemptNotFound, "Attempt not found"}}

	// Infrastructure errors
	case errors.Is(err, model.ErrBackendUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeBackendUnavailable, "Backend temporarily unavailable"}}
	case errors.Is(err, model.ErrInvalidArgument):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
