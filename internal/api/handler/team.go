package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ctfe/ctfe/internal/api/middleware"
	"github.com/ctfe/ctfe/internal/api/request"
	"github.com/ctfe/ctfe/internal/api/response"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/challenge"
	"github.com/ctfe/ctfe/internal/services/team"
	"github.com/ctfe/ctfe/internal/services/user"
)

// TeamHandler handles team-related endpoints
type TeamHandler struct {
	teamController   *team.Controller
	challengeService *challenge.Service
	userService      *user.Service
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamController *team.Controller, challengeService *challenge.Service, userService *user.Service) *TeamHandler {
	return &TeamHandler{
		teamController:   teamController,
		challengeService: challengeService,
		userService:      userService,
	}
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())

	var req request.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	created, err := h.teamController.Create(r.Context(), actor.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TeamFromModel(created))
}

// Get handles GET /api/v1/teams/{id}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.TeamID(mux.Vars(r)["id"])

	t, err := h.teamController.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.TeamFromModel(t)
	// Pending invites are visible to members and admins only
	if t.GetMember(actor.ID) == nil && actor.Role != model.RoleAdmin {
		resp.Invites = nil
	}

	response.JSON(w, http.StatusOK, resp)
}

// Invite handles POST /api/v1/teams/{id}/invites
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.TeamID(mux.Vars(r)["id"])

	var req request.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}

	target, err := h.userService.GetByUsername(r.Context(), req.Username)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.teamController.Invite(r.Context(), actor.ID, id, target.ID); err != nil {
		WriteError(w, err)
		return
	}

	t, err := h.teamController.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamFromModel(t))
}

// Join handles POST /api/v1/teams/{id}/join
func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.TeamID(mux.Vars(r)["id"])

	t, err := h.teamController.AcceptInvite(r.Context(), actor.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TeamFromModel(t))
}

// RescindInvite handles DELETE /api/v1/teams/{id}/invites/{user_id}
func (h *TeamHandler) RescindInvite(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	id := model.TeamID(vars["id"])
	targetID := model.UserID(vars["user_id"])

	if err := h.teamController.RescindInvite(r.Context(), actor.ID, id, targetID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ListInvites handles GET /api/v1/teams/invites
// It lists the teams that have invited the calling player.
func (h *TeamHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())

	teams, err := h.teamController.ListInvitesFor(r.Context(), actor.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Team, len(teams))
	for i, t := range teams {
		resp[i] = response.TeamFromModel(t)
		resp[i].Invites = nil
	}

	response.JSON(w, http.StatusOK, resp)
}

// Quit handles POST /api/v1/teams/quit
func (h *TeamHandler) Quit(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())

	if err := h.teamController.Quit(r.Context(), actor.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ListAttempts handles GET /api/v1/teams/{id}/attempts
func (h *TeamHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.TeamID(mux.Vars(r)["id"])

	t, err := h.teamController.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if t.GetMember(actor.ID) == nil && actor.Role != model.RoleAdmin {
		WriteError(w, model.ErrNotTeamMember)
		return
	}

	attempts, err := h.challengeService.ListAttemptsForTeam(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Attempt, len(attempts))
	for i, a := range attempts {
		resp[i] = response.AttemptFromModel(a)
	}

	response.JSON(w, http.StatusOK, resp)
}
