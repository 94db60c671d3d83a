package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verdanta/csrd-reporting-backend/internal/db"
)

// reportView is the JSON shape for a report row. generated is a flag, not the
// content itself — the narrative can be large and is fetched via download.
type reportView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Generated bool      `json:"generated"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOf(rep db.Report) reportView {
	return reportView{
		ID:        rep.ID,
		Title:     rep.Title,
		Status:    rep.Status,
		Generated: rep.GeneratedContent.Valid && rep.GeneratedContent.String != "",
		CreatedAt: rep.CreatedAt,
		UpdatedAt: rep.UpdatedAt,
	}
}

// loadOwnedReport resolves {reportID} and enforces ownership. A report that
// doesn't exist and a report owned by someone else are indistinguishable to
// the caller: both are 404. Returns ok=false after writing the error response.
func (s *Server) loadOwnedReport(w http.ResponseWriter, r *http.Request) (db.Report, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid report id")
		return db.Report{}, false
	}

	rep, err := s.q.GetReportByID(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "report not found")
		return db.Report{}, false
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get report: %w", err))
		return db.Report{}, false
	}

	if rep.UserID != userFrom(r).ID {
		respondErr(w, http.StatusNotFound, "report not found")
		return db.Report{}, false
	}

	return rep, true
}

// ─── GET /api/reports ─────────────────────────────────────────────────────────

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.q.ListReportsByUser(r.Context(), userFrom(r).ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list reports: %w", err))
		return
	}

	views := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		views = append(views, viewOf(rep))
	}
	respond(w, http.StatusOK, map[string]any{"reports": views})
}

// ─── POST /api/reports ────────────────────────────────────────────────────────

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondErr(w, http.StatusBadRequest, "title is required")
		return
	}

	rep, err := s.q.CreateReport(r.Context(), db.CreateReportParams{
		UserID: userFrom(r).ID,
		Title:  req.Title,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create report: %w", err))
		return
	}

	respond(w, http.StatusCreated, viewOf(rep))
}

// ─── GET /api/reports/{reportID} ──────────────────────────────────────────────

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, viewOf(rep))
}

// ─── PATCH /api/reports/{reportID} ────────────────────────────────────────────

// handleUpdateReport renames a report and/or moves it between draft and
// submitted. Absent fields are left unchanged.
func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	var req struct {
		Title  *string `json:"title"`
		Status *string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondErr(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		var err error
		rep, err = s.q.UpdateReportTitle(r.Context(), db.UpdateReportTitleParams{
			ID:    rep.ID,
			Title: title,
		})
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("update report title: %w", err))
			return
		}
	}

	if req.Status != nil {
		status := *req.Status
		if status != "draft" && status != "submitted" {
			respondErr(w, http.StatusBadRequest, "status must be draft or submitted")
			return
		}
		var err error
		rep, err = s.q.UpdateReportStatus(r.Context(), db.UpdateReportStatusParams{
			ID:     rep.ID,
			Status: status,
		})
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("update report status: %w", err))
			return
		}
	}

	respond(w, http.StatusOK, viewOf(rep))
}

// ─── DELETE /api/reports/{reportID} ───────────────────────────────────────────

// handleDeleteReport removes a report. Responses cascade at the database
// level, so no separate cleanup is needed here.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	if err := s.q.DeleteReport(r.Context(), rep.ID); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("delete report: %w", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
