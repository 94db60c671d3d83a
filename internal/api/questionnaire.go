package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sqlc-dev/pqtype"
	"github.com/verdanta/csrd-reporting-backend/internal/db"
	"github.com/verdanta/csrd-reporting-backend/internal/survey"
)

// ─── GET /api/questionnaire ───────────────────────────────────────────────────

// handleGetQuestionnaire returns the latest questionnaire in canonical form,
// plus per-question help text where we have any. The raw stored record may be
// in any of the historical shapes; normalization happens fresh on every fetch.
func (s *Server) handleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q, raw, err := s.loadQuestionnaire(r)
	if err != nil {
		s.respondQuestionnaireErr(w, r, raw, err)
		return
	}

	help := make(map[string]string)
	for _, id := range q.QuestionIDs() {
		if text, ok := questionHelpText[id]; ok {
			help[id] = text
		}
	}

	respond(w, http.StatusOK, map[string]any{
		"questionnaire": q,
		"help_text":     help,
	})
}

// ─── POST /api/questionnaire ──────────────────────────────────────────────────

// handleCreateQuestionnaire stores a new questionnaire revision. Admin-only.
// The questions and sections blobs are stored as submitted; normalization
// happens on read, so this endpoint accepts any of the historical shapes.
func (s *Server) handleCreateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if !userFrom(r).IsAdmin {
		respondErr(w, http.StatusForbidden, "admin access required")
		return
	}

	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Questions   json.RawMessage `json:"questions"`
		Sections    json.RawMessage `json:"sections"`
	}
	if !decode(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondErr(w, http.StatusBadRequest, "title is required")
		return
	}

	params := db.CreateQuestionnaireParams{
		Title: req.Title,
	}
	if req.Description != "" {
		params.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if len(req.Questions) > 0 {
		params.Questions = pqtype.NullRawMessage{RawMessage: req.Questions, Valid: true}
	}
	if len(req.Sections) > 0 {
		params.Sections = pqtype.NullRawMessage{RawMessage: req.Sections, Valid: true}
	}

	row, err := s.q.CreateQuestionnaire(r.Context(), params)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create questionnaire: %w", err))
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"id":    row.ID,
		"title": row.Title,
	})
}

// loadQuestionnaire fetches the latest stored questionnaire row and
// normalizes it. The raw record is returned alongside the error so terminal
// normalization failures can echo it for diagnosis.
func (s *Server) loadQuestionnaire(r *http.Request) (*survey.Questionnaire, survey.RawRecord, error) {
	row, err := s.q.GetLatestQuestionnaire(r.Context())
	if err != nil {
		return nil, survey.RawRecord{}, fmt.Errorf("get latest questionnaire: %w", err)
	}

	raw := rawRecordFrom(row)
	q, err := survey.Normalize(raw)
	if err != nil {
		return nil, raw, err
	}
	return q, raw, nil
}

// rawRecordFrom adapts a stored questionnaire row to the normalizer's input.
func rawRecordFrom(row db.Questionnaire) survey.RawRecord {
	raw := survey.RawRecord{
		ID:          row.ID.String(),
		Title:       row.Title,
		Description: row.Description.String,
	}
	if row.Questions.Valid {
		raw.Questions = row.Questions.RawMessage
	}
	if row.Sections.Valid {
		raw.Sections = row.Sections.RawMessage
	}
	return raw
}

// respondQuestionnaireErr maps questionnaire load failures to HTTP responses.
// Unrecognized or empty stored structures are data defects, not client
// errors: 422 with the raw record echoed so the defect can be diagnosed from
// the response alone.
func (s *Server) respondQuestionnaireErr(w http.ResponseWriter, r *http.Request, raw survey.RawRecord, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondErr(w, http.StatusNotFound, "no questionnaire available")
	case errors.Is(err, survey.ErrUnrecognizedFormat):
		s.logger.Error("questionnaire: unrecognized format", "questionnaire_id", raw.ID, logField(r))
		respond(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "unrecognized questionnaire format",
			"raw_record": raw,
		})
	case errors.Is(err, survey.ErrEmptyStructure):
		s.logger.Error("questionnaire: empty structure", "questionnaire_id", raw.ID, logField(r))
		respond(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "questionnaire has no sections",
			"raw_record": raw,
		})
	default:
		s.respondInternalErr(w, r, err)
	}
}

// questionHelpText is presentation content keyed by canonical question id.
// Served alongside the questionnaire so the frontend has no copy of its own.
// Questions without an entry simply render no help text.
var questionHelpText = map[string]string{
	"company-name":        "The legal name of the reporting entity as registered.",
	"employee-count":      "Average headcount over the reporting period, including part-time staff on a full-time-equivalent basis.",
	"energy-consumption":  "Total energy consumed across all facilities, in kWh. Include purchased electricity, heating, and fuel.",
	"renewable-share":     "Share of consumed energy from renewable sources, as a percentage.",
	"scope1-emissions":    "Direct greenhouse gas emissions from sources you own or control, in tonnes of CO2 equivalent.",
	"scope2-emissions":    "Indirect emissions from purchased electricity, steam, heating and cooling, in tonnes of CO2 equivalent.",
	"waste-generated":     "Total waste generated during the reporting period, in tonnes, before any recycling.",
	"water-consumption":   "Total water withdrawn, in cubic metres. Municipal supply plus any direct abstraction.",
	"gender-pay-gap":      "Difference between average gross hourly earnings of male and female employees, as a percentage of male earnings.",
	"training-hours":      "Average hours of training per employee during the reporting period.",
	"work-accidents":      "Number of recordable work-related accidents during the reporting period.",
	"board-independence":  "Share of board members with no executive role or material business relationship with the company.",
	"anti-corruption":     "Describe policies and controls in place to prevent bribery and corruption.",
	"supplier-screening":  "Share of significant suppliers screened against environmental and social criteria.",
	"whistleblower-cases": "Number of reports received through the whistleblowing channel during the period.",
}
