package handler

import (
	"net/http"
	"strconv"

	"codecrux/internal/catalog"
	"codecrux/internal/common"
	"codecrux/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	catalog *catalog.Catalog
}

func NewProblemHandler(cat *catalog.Catalog) *ProblemHandler {
	return &ProblemHandler{catalog: cat}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProblems)
	r.Get("/{problemID}", h.getProblem)
}

// problemSummary is the listing view: no statement body, no starter code.
type problemSummary struct {
	ID         int                     `json:"id"`
	Title      string                  `json:"title"`
	Slug       string                  `json:"slug"`
	Difficulty model.ProblemDifficulty `json:"difficulty"`
	Points     int                     `json:"points"`
}

// problemDetail is the full public view. Hidden test cases and driver
// harnesses never appear here; callers only learn which languages are
// gradeable.
type problemDetail struct {
	model.Problem
	SupportedLanguages []model.Language `json:"supported_languages"`
	PublicTestCases    []model.TestCase `json:"public_test_cases"`
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	problems := h.catalog.All()
	summaries := make([]problemSummary, 0, len(problems))
	for _, p := range problems {
		summaries = append(summaries, problemSummary{
			ID:         p.ID,
			Title:      p.Title,
			Slug:       p.Slug,
			Difficulty: p.Difficulty,
			Points:     p.Points,
		})
	}
	common.RespondWithJSON(w, http.StatusOK, summaries)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid problem id")
		return
	}
	problem, ok := h.catalog.ByID(id)
	if !ok {
		common.RespondWithError(w, http.StatusNotFound, common.ErrNotFound.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problemDetail{
		Problem:            *problem,
		SupportedLanguages: problem.SupportedLanguages(),
		PublicTestCases:    problem.TestCases.Public,
	})
}
