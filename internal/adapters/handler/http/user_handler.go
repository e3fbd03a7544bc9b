package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	IsAdmin  bool   `json:"is_admin"`
}

type setRoleRequest struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}

// GetMe godoc
// @Summary      The authenticated member
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.Principal
// @Failure      401
// @Router       /api/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PrincipalFrom(r.Context()))
}

// ListUsers godoc
// @Summary      Lists members
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Failure      403
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// CreateUser godoc
// @Summary      Registers a member
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.User
// @Failure      403
// @Failure      409
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Create(r.Context(), PrincipalFrom(r.Context()), req.Username, req.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// SetRole godoc
// @Summary      Grants or revokes the admin role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403
// @Failure      409
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, domain.NewValidationError("id", "invalid user id"))
		return
	}

	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.SetRole(r.Context(), PrincipalFrom(r.Context()), userID, *req.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
