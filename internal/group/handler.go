package group

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yzahrani/splitmate/pkg/middleware"
	"github.com/yzahrani/splitmate/pkg/response"
)

// UserDirectory resolves the display username for a uid. The creator's
// username is denormalized into the member entry at group creation.
type UserDirectory interface {
	UsernameOf(ctx context.Context, uid string) (string, error)
}

// Handler handles HTTP requests for group operations
type Handler struct {
	service  *Service
	users    UserDirectory
	validate *validator.Validate
}

// NewHandler creates a new group handler
func NewHandler(service *Service, users UserDirectory, validate *validator.Validate) *Handler {
	return &Handler{service: service, users: users, validate: validate}
}

// Routes returns the router for group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Rename)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{uid}", h.RemoveMember)
	r.Post("/{id}/leave", h.Leave)

	return r
}

// Create handles POST /groups
// @Summary      Create a group
// @Description  Create a group with the caller as its only member and sole admin
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	username, err := h.users.UsernameOf(r.Context(), uid)
	if err != nil {
		response.InternalError(w, "Failed to resolve caller profile")
		return
	}

	created, err := h.service.Create(r.Context(), uid, username, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// ListMine handles GET /groups
// @Summary      List the caller's groups
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groups, err := h.service.ListByUser(r.Context(), uid)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = g.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByID handles GET /groups/{id}
// @Summary      Get group by ID with members
// @Tags         groups
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	g, err := h.service.GetByID(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, g.ToResponse())
}

// Rename handles PATCH /groups/{id}
// @Summary      Rename a group
// @Description  Rename a group. Admin only.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body UpdateGroupRequest true "Group rename request"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id} [patch]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	renamed, err := h.service.Rename(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, renamed.ToResponse())
}

// AddMember handles POST /groups/{id}/members
// @Summary      Add a member to a group
// @Description  Add a user as a member. Admin only.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	updated, err := h.service.AddMember(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated.ToResponse())
}

// RemoveMember handles DELETE /groups/{id}/members/{uid}
// @Summary      Remove a member from a group
// @Description  Remove a member. Admin only; the sole admin cannot be removed while other members remain.
// @Tags         groups
// @Param        id path string true "Group ID"
// @Param        uid path string true "Member UID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/members/{uid} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	updated, err := h.service.RemoveMember(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "uid"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated.ToResponse())
}

// Leave handles POST /groups/{id}/leave
// @Summary      Leave a group
// @Description  Remove the caller from a group. The sole admin must hand off the role first.
// @Tags         groups
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	updated, err := h.service.Leave(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated.ToResponse())
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAdmin), errors.Is(err, ErrNotMember), errors.Is(err, ErrSoleAdmin):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrMemberAlreadyExists):
		response.Conflict(w, err.Error())
	default:
		response.InternalError(w, "Failed to process group")
	}
}
