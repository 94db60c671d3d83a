package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/verdanta/csrd-reporting-backend/internal/survey"
)

// ─── GET /api/reports/{reportID}/sections/{index} ─────────────────────────────

// handleGetSection returns one questionnaire section by index, with the
// report's answers for the questions in it. Out-of-range indices are not an
// error: the navigator falls back to the first section, and the response
// carries the index actually served.
func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid section index")
		return
	}

	q, raw, err := s.loadQuestionnaire(r)
	if err != nil {
		s.respondQuestionnaireErr(w, r, raw, err)
		return
	}

	stored, err := s.store.FetchAnswers(r.Context(), rep.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("fetch answers: %w", err))
		return
	}
	state := survey.Reconcile(q, stored)

	nav := survey.NewNavigator(q, nil)
	nav.JumpTo(index)
	section := nav.Section()

	answers := make(map[string]string, len(section.Questions))
	for _, question := range section.Questions {
		answers[question.ID] = state[question.ID]
	}

	respond(w, http.StatusOK, map[string]any{
		"report_id": rep.ID,
		"index":     nav.Active(),
		"total":     nav.Len(),
		"section":   section,
		"answers":   answers,
	})
}
