package api

import (
	"fmt"
	"net/http"

	"github.com/verdanta/csrd-reporting-backend/internal/session"
	"github.com/verdanta/csrd-reporting-backend/internal/survey"
)

// ─── GET /api/reports/{reportID}/responses ────────────────────────────────────

// handleGetResponses returns the report's answers reconciled against the
// current questionnaire: exactly one entry per current question id, empty
// string for unanswered, stale answers to removed questions dropped.
func (s *Server) handleGetResponses(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
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

	respond(w, http.StatusOK, map[string]any{
		"report_id": rep.ID,
		"answers":   survey.Reconcile(q, stored),
	})
}

// ─── PUT /api/reports/{reportID}/responses ────────────────────────────────────

// handleSaveResponses runs one edit/save round: reconcile the stored answers
// against the current questionnaire, apply the submitted edits (unknown
// question ids are silently dropped), and persist the full state. The JSONB
// mirror on the report row is refreshed best-effort inside the session; a
// mirror failure never fails the save.
func (s *Server) handleSaveResponses(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if !decode(w, r, &req) {
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

	sess := session.New(rep.ID, q, stored, s.store, s.logger, s.cfg.SaveAckTTL)
	for id, value := range req.Answers {
		sess.SetAnswer(id, value)
	}

	if err := sess.Save(r.Context()); err != nil {
		ack := sess.Ack()
		s.logger.Error("responses: save failed",
			"report_id", rep.ID,
			"error", err,
			logField(r),
		)
		respond(w, http.StatusInternalServerError, map[string]any{
			"error": "could not save responses",
			"ack":   map[string]string{"kind": string(ack.Kind), "message": ack.Message},
		})
		return
	}

	ack := sess.Ack()
	respond(w, http.StatusOK, map[string]any{
		"report_id": rep.ID,
		"answers":   sess.Answers(),
		"ack":       map[string]string{"kind": string(ack.Kind), "message": ack.Message},
	})
}
