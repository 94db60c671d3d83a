package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/verdanta/csrd-reporting-backend/internal/db"
)

// ─── METHODS ─────────────────────────────────────────────────────────────────

// ReplaceResponses persists a full answer map for a report with full-replace
// semantics: all prior rows for the report are deleted, then one row per
// answer is inserted. Both steps run in a single serializable transaction, so
// a failed insert never leaves the report with half its old answers and half
// its new ones.
//
// Empty answers are persisted too. The reconciler seeds every question with
// "", and keeping those rows makes the stored set mirror the editor state
// exactly.
func (s *Store) ReplaceResponses(ctx context.Context, reportID uuid.UUID, answers map[string]string) error {
	// Insert in a stable order so two saves of the same map write identical
	// row sequences.
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.DeleteResponsesByReport(ctx, reportID); err != nil {
			return fmt.Errorf("ReplaceResponses: delete prior rows: %w", err)
		}
		for _, id := range ids {
			_, err := q.InsertResponse(ctx, db.InsertResponseParams{
				ReportID:      reportID,
				QuestionID:    id,
				ResponseValue: answers[id],
			})
			if err != nil {
				return fmt.Errorf("ReplaceResponses: insert %s: %w", id, err)
			}
		}
		return nil
	})
}

// FetchAnswers loads the stored answers for a report as a sparse map. A report
// with no rows yields an empty, non-nil map.
func (s *Store) FetchAnswers(ctx context.Context, reportID uuid.UUID) (map[string]string, error) {
	rows, err := s.q.ListResponsesByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("FetchAnswers: %w", err)
	}
	answers := make(map[string]string, len(rows))
	for _, r := range rows {
		answers[r.QuestionID] = r.ResponseValue
	}
	return answers, nil
}

// MirrorReportContent writes the non-empty answers into the report row's
// content column as a JSON object. The mirror exists so a report can be read
// on its own without joining the responses table; it is best-effort and the
// caller decides whether a failure matters.
func (s *Store) MirrorReportContent(ctx context.Context, reportID uuid.UUID, answers map[string]string) error {
	resolved := make(map[string]string, len(answers))
	for id, value := range answers {
		if value != "" {
			resolved[id] = value
		}
	}
	payload, err := json.Marshal(map[string]any{"responses": resolved})
	if err != nil {
		return fmt.Errorf("MirrorReportContent: marshal: %w", err)
	}

	_, err = s.q.UpdateReportContent(ctx, db.UpdateReportContentParams{
		ID:      reportID,
		Content: pqtype.NullRawMessage{RawMessage: payload, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("MirrorReportContent: update report: %w", err)
	}
	return nil
}
