package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/verdanta/csrd-reporting-backend/internal/db"
	"github.com/verdanta/csrd-reporting-backend/internal/email"
	"github.com/verdanta/csrd-reporting-backend/internal/survey"
)

// ─── POST /api/reports/{reportID}/generate ────────────────────────────────────

// handleGenerateReport assembles the report's answered questions and produces
// the narrative. mode=plain skips the model and returns the assembled text
// document directly; that same document is also the fallback when the AI call
// fails, so generation never leaves the user empty-handed. The result is
// persisted on the report row either way.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	var req struct {
		Mode string `json:"mode"`
	}
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	if req.Mode != "" && req.Mode != "ai" && req.Mode != "plain" {
		respondErr(w, http.StatusBadRequest, "mode must be ai or plain")
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

	entries := survey.Assemble(q, survey.Reconcile(q, stored))
	plain := survey.RenderText(rep.Title, entries)

	content := plain
	source := "plain"
	aiFailed := false

	if req.Mode != "plain" && s.generator != nil {
		generated, genErr := s.generator.Generate(r.Context(), survey.BuildPrompt(rep.Title, entries))
		if genErr != nil {
			s.logger.Error("generate: ai call failed, returning plain assembly",
				"report_id", rep.ID,
				"error", genErr,
				logField(r),
			)
			aiFailed = true
		} else {
			content = generated
			source = "ai"
		}
	}

	rep, err = s.q.UpdateReportGeneratedContent(r.Context(), db.UpdateReportGeneratedContentParams{
		ID:               rep.ID,
		GeneratedContent: sql.NullString{String: content, Valid: true},
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("persist generated content: %w", err))
		return
	}

	user := userFrom(r)
	mailErr := s.mailer.SendReportReady(r.Context(), email.ReportReadyParams{
		To:          user.Email,
		CompanyName: user.Name.String,
		ReportID:    rep.ID.String(),
		ReportTitle: rep.Title,
	})
	s.logAndIgnoreEmailErr(r, mailErr, "send report ready")

	respond(w, http.StatusOK, map[string]any{
		"report":    viewOf(rep),
		"content":   content,
		"source":    source,
		"ai_failed": aiFailed,
	})
}

// ─── GET /api/reports/{reportID}/download ─────────────────────────────────────

// handleDownloadText serves the generated narrative as a plain text file.
func (s *Server) handleDownloadText(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	if !rep.GeneratedContent.Valid || rep.GeneratedContent.String == "" {
		respondErr(w, http.StatusConflict, "report has not been generated yet")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Title+".txt"))
	_, _ = w.Write([]byte(rep.GeneratedContent.String))
}
