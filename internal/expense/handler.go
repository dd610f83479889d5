package expense

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yzahrani/splitmate/internal/expense/split"
	"github.com/yzahrani/splitmate/pkg/middleware"
	"github.com/yzahrani/splitmate/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new expense handler
func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/direct", h.ListDirect)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Create an expense with shares computed by the equally, exact, percentage, or shares strategy
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
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

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Update handles PUT /expenses/{id}
// @Summary      Update an expense
// @Description  Replace an expense, recomputing shares. Only the payer or creator may update.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path string true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateExpenseRequest
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

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Permanently delete an expense. Only the payer or creator may delete.
// @Tags         expenses
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
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

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Tags         expenses
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	expenses, err := h.service.ListGroupExpenses(r.Context(), uid, chi.URLParam(r, "groupId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(expenses))
}

// ListDirect handles GET /expenses/direct
// @Summary      List the caller's direct (non-group) expenses
// @Tags         expenses
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/direct [get]
func (h *Handler) ListDirect(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	expenses, err := h.service.ListDirectExpenses(r.Context(), uid)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(expenses))
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotPayerOrCreator), errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case isSplitError(err):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrPayerNotParticipant):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Failed to process expense")
	}
}

// isSplitError reports whether the error came out of the split calculator.
func isSplitError(err error) bool {
	for _, sentinel := range []error{
		split.ErrUnknownSplitType,
		split.ErrNoParticipants,
		split.ErrDuplicateParticipant,
		split.ErrNonPositiveAmount,
		split.ErrNegativeAmount,
		split.ErrMissingExactAmount,
		split.ErrMissingPercentage,
		split.ErrMissingShareUnits,
		split.ErrAmountsMismatch,
		split.ErrPercentagesMismatch,
		split.ErrPercentageOutOfRange,
		split.ErrNegativeShareUnits,
		split.ErrZeroShareUnits,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func toResponses(expenses []*Expense) []*ExpenseResponse {
	out := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToResponse()
	}
	return out
}
