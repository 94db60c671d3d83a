package api

import (
	"fmt"
	"net/http"

	"github.com/verdanta/csrd-reporting-backend/internal/pdf"
)

// ─── GET /api/reports/{reportID}/download/pdf ─────────────────────────────────

// handleDownloadPDF renders the generated narrative to PDF server-side and
// serves it as a file attachment.
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadOwnedReport(w, r)
	if !ok {
		return
	}

	if !rep.GeneratedContent.Valid || rep.GeneratedContent.String == "" {
		respondErr(w, http.StatusConflict, "report has not been generated yet")
		return
	}

	doc, err := pdf.Render(rep.GeneratedContent.String)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("render pdf: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Title+".pdf"))
	_, _ = w.Write(doc)
}
