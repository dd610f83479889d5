package balance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yzahrani/splitmate/pkg/middleware"
	"github.com/yzahrani/splitmate/pkg/response"
)

// Handler handles HTTP requests for balance views
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.Summary)
	r.Get("/groups/{groupId}", h.GroupBalance)
	r.Get("/friends/{friendUid}", h.PeerBalance)

	return r
}

// FriendsRoutes returns the router for the friends listing
func (h *Handler) FriendsRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Friends)

	return r
}

// Summary handles GET /balances/summary
// @Summary      Overall balance summary
// @Description  Aggregate the caller's position across all groups and direct activity
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Router       /balances/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.OverallSummary(r.Context(), uid)
	if err != nil {
		response.InternalError(w, "Failed to compute summary")
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

// GroupBalance handles GET /balances/groups/{groupId}
// @Summary      Balance within a group
// @Description  Compute the caller's owes, owed, and net within one group
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalanceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/groups/{groupId} [get]
func (h *Handler) GroupBalance(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	bal, err := h.service.GroupBalance(r.Context(), uid, chi.URLParam(r, "groupId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, bal)
}

// PeerBalance handles GET /balances/friends/{friendUid}
// @Summary      Balance with one friend
// @Description  Compute the signed net with a friend over direct expenses and settlements
// @Tags         balances
// @Produce      json
// @Param        friendUid path string true "Friend UID"
// @Success      200 {object} response.APIResponse{data=PeerBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /balances/friends/{friendUid} [get]
func (h *Handler) PeerBalance(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	bal, err := h.service.PeerBalance(r.Context(), uid, chi.URLParam(r, "friendUid"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, bal)
}

// Friends handles GET /friends
// @Summary      List friends with balances
// @Description  List every counterparty the caller shares a group, direct expense, or direct settlement with, each with the direct net balance
// @Tags         friends
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]FriendBalance}
// @Router       /friends [get]
func (h *Handler) Friends(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friends, err := h.service.FriendsWithBalances(r.Context(), uid)
	if err != nil {
		response.InternalError(w, "Failed to list friends")
		return
	}
	response.JSON(w, http.StatusOK, friends)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrSelfBalance):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Failed to compute balance")
	}
}
