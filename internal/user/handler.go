package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yzahrani/splitmate/pkg/middleware"
	"github.com/yzahrani/splitmate/pkg/response"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new user handler with service dependency injected
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the router for user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateProfile)
	r.Get("/me", h.Me)
	r.Put("/me", h.UpdateProfile)
	r.Get("/search", h.Search)
	r.Get("/{uid}", h.GetByUID)

	return r
}

// CreateProfile handles POST /users
// @Summary      Create the caller's profile
// @Description  Register a profile for the authenticated uid after first sign-in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateProfileRequest true "Profile creation request"
// @Success      201 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users [post]
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	user, err := h.service.CreateProfile(r.Context(), uid, &req)
	if err != nil {
		if errors.Is(err, ErrUsernameAlreadyTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create profile")
		return
	}

	response.JSON(w, http.StatusCreated, user.ToResponse())
}

// Me handles GET /users/me
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetByUID(r.Context(), uid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user.ToResponse())
}

// UpdateProfile handles PUT /users/me
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile update request"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /users/me [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), uid, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user.ToResponse())
}

// Search handles GET /users/search?q=
// @Summary      Search users by username prefix
// @Description  Find users whose username starts with the query, excluding the caller
// @Tags         users
// @Produce      json
// @Param        q query string true "Username prefix, minimum 3 characters"
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /users/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	users, err := h.service.Search(r.Context(), uid, r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, ErrQueryTooShort) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to search users")
		return
	}

	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByUID handles GET /users/{uid}
// @Summary      Get a user profile by uid
// @Tags         users
// @Produce      json
// @Param        uid path string true "User UID"
// @Success      200 {object} response.APIResponse{data=UserResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{uid} [get]
func (h *Handler) GetByUID(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByUID(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalError(w, "Failed to process user")
}
