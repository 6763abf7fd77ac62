package request

// RegisterRequest is the body for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateTeamRequest is the body for POST /teams
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// InviteRequest is the body for POST /teams/{id}/invites
type InviteRequest struct {
	Username string `json:"username"`
}

// CreateChallengeRequest is the body for POST /challenges
type CreateChallengeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Flag        string `json:"flag"`
}

// SubmitAttemptRequest is the body for POST /challenges/{id}/attempts
type SubmitAttemptRequest struct {
	Flag string `json:"flag"`
}

// UpdateRoleRequest is the body for PATCH /users/{id}/role
type UpdateRoleRequest struct {
	Role string `json:"role"`
}
