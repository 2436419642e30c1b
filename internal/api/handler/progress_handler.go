package handler

import (
	"net/http"
	"strconv"

	"codecrux/internal/api/middleware"
	"codecrux/internal/app/service"
	"codecrux/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(ps *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: ps}
}

func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.Authenticator).Get("/", h.myProgress)
}

func (h *ProgressHandler) RegisterLeaderboardRoutes(r chi.Router) {
	r.Get("/", h.leaderboard)
}

type progressResponse struct {
	Points           int   `json:"points"`
	SolvedProblemIDs []int `json:"solved_problem_ids"`
}

func (h *ProgressHandler) myProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	points, err := h.progressService.UserPoints(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	solved, err := h.progressService.SolvedProblemIDs(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if solved == nil {
		solved = []int{}
	}
	common.RespondWithJSON(w, http.StatusOK, progressResponse{Points: points, SolvedProblemIDs: solved})
}

func (h *ProgressHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.progressService.Leaderboard(r.Context(), limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}
