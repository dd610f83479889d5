package settlement

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yzahrani/splitmate/pkg/middleware"
	"github.com/yzahrani/splitmate/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/direct/{friendUid}", h.ListDirectWith)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /settlements
// @Summary      Record a settlement
// @Description  Record a payment between two users that offsets an existing balance
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body CreateSettlementRequest true "Settlement creation request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Update handles PUT /settlements/{id}
// @Summary      Edit a settlement
// @Description  Edit amount, method, notes, or date. Only the recorder may edit.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Settlement ID"
// @Param        request body UpdateSettlementRequest true "Settlement update request"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated.ToResponse())
}

// Delete handles DELETE /settlements/{id}
// @Summary      Delete a settlement
// @Description  Permanently delete a settlement. Only the recorder may delete.
// @Tags         settlements
// @Param        id path string true "Settlement ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Settlement deleted"})
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements by group
// @Tags         settlements
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	settlements, err := h.service.ListGroupSettlements(r.Context(), uid, chi.URLParam(r, "groupId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(settlements))
}

// ListDirectWith handles GET /settlements/direct/{friendUid}
// @Summary      List direct settlements with one peer
// @Tags         settlements
// @Produce      json
// @Param        friendUid path string true "Peer user UID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/direct/{friendUid} [get]
func (h *Handler) ListDirectWith(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	settlements, err := h.service.ListDirectWith(r.Context(), uid, chi.URLParam(r, "friendUid"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(settlements))
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSettlementNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotRecorder), errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrSamePayerPayee):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Failed to process settlement")
	}
}

func toResponses(settlements []*Settlement) []*SettlementResponse {
	out := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		out[i] = s.ToResponse()
	}
	return out
}
