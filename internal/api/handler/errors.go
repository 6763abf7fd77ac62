package handler

import (
	"net/http"

	"github.com/ctfe/ctfe/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeTokenExpired       = apierr.CodeTokenExpired
	CodeTokenMalformed     = apierr.CodeTokenMalformed
	CodeSessionNotFound    = apierr.CodeSessionNotFound
	CodeForbidden          = apierr.CodeForbidden
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodeUsernameTaken      = apierr.CodeUsernameTaken
	CodeTeamNotFound       = apierr.CodeTeamNotFound
	CodeTeamNameTaken      = apierr.CodeTeamNameTaken
	CodeTeamFull           = apierr.CodeTeamFull
	CodeAlreadyOnTeam      = apierr.CodeAlreadyOnTeam
	CodeNotOnTeam          = apierr.CodeNotOnTeam
	CodeNotTeamMember      = apierr.CodeNotTeamMember
	CodeAlreadyInvited     = apierr.CodeAlreadyInvited
	CodeNoSuchInvite       = apierr.CodeNoSuchInvite
	CodeTargetOnTeam       = apierr.CodeTargetOnTeam
	CodeNotPlayer          = apierr.CodeNotPlayer
	CodeChallengeNotFound  = apierr.CodeChallengeNotFound
	CodeChallengeNameTaken = apierr.CodeChallengeNameTaken
	CodeAttemptNotFound    = apierr.CodeAttemptNotFound
	CodeBackendUnavailable = apierr.CodeBackendUnavailable
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
