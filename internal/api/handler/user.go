package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ctfe/ctfe/internal/api/request"
	"github.com/ctfe/ctfe/internal/api/response"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/user"
)

// UserHandler handles administrative user endpoints
type UserHandler struct {
	userService *user.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.User, len(users))
	for i, u := range users {
		resp[i] = response.UserFromModel(u)
	}

	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	u, err := h.userService.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// UpdateRole handles PATCH /api/v1/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	var req request.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Role == "" {
		WriteError(w, NewInvalidRequestError("role is required"))
		return
	}

	u, err := h.userService.UpdateRole(r.Context(), id, model.Role(req.Role))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(u))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.UserID(mux.Vars(r)["id"])

	if err := h.userService.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
