package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ctfe/ctfe/internal/api/middleware"
	"github.com/ctfe/ctfe/internal/api/request"
	"github.com/ctfe/ctfe/internal/api/response"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/auth"
	"github.com/ctfe/ctfe/internal/services/challenge"
)

// ChallengeHandler handles challenge and flag submission endpoints
type ChallengeHandler struct {
	challengeService *challenge.Service
	authService      *auth.Service
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeService *challenge.Service, authService *auth.Service) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		authService:      authService,
	}
}

// Create handles POST /api/v1/challenges
// Restricted to contributors (and admins).
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())

	if err := h.authService.RequireRole(actor, model.RoleContributor); err != nil {
		WriteError(w, err)
		return
	}

	var req request.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.Flag == "" {
		WriteError(w, NewInvalidRequestError("flag is required"))
		return
	}

	created, err := h.challengeService.Create(r.Context(), actor.ID, req.Name, req.Description, req.Flag)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ChallengeFromModel(created))
}

// List handles GET /api/v1/challenges
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Challenge, len(challenges))
	for i, c := range challenges {
		resp[i] = response.ChallengeFromModel(c)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/challenges/{id}
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ChallengeID(mux.Vars(r)["id"])

	c, err := h.challengeService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChallengeFromModel(c))
}

// Delete handles DELETE /api/v1/challenges/{id}
// Only the owning contributor or an admin may delete.
func (h *ChallengeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.ChallengeID(mux.Vars(r)["id"])

	if err := h.challengeService.Delete(r.Context(), actor, id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SubmitAttempt handles POST /api/v1/challenges/{id}/attempts
func (h *ChallengeHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id := model.ChallengeID(mux.Vars(r)["id"])

	var req request.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Flag == "" {
		WriteError(w, NewInvalidRequestError("flag is required"))
		return
	}

	attempt, err := h.challengeService.SubmitAttempt(r.Context(), actor.ID, id, req.Flag)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AttemptFromModel(attempt))
}
