// Package session orchestrates one user's pass through a questionnaire: local
// answer edits, explicit saves with full-replace persistence, and the
// transient acknowledgement state the editor surfaces.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/verdanta/csrd-reporting-backend/internal/survey"
)

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrNoQuestionnaire is returned by Save when the session holds no loaded
// questionnaire. The editor shows this instead of attempting a write.
var ErrNoQuestionnaire = errors.New("session: no questionnaire loaded")

// ErrSaveInFlight is returned when Save is called while a previous Save is
// still writing. Exactly one save runs at a time; the caller simply retries
// after the in-flight one completes.
var ErrSaveInFlight = errors.New("session: save already in flight")

// ─── PERSISTENCE SEAM ────────────────────────────────────────────────────────

// Persister is the slice of the store the session needs. *store.Store
// satisfies it; tests inject a stub.
type Persister interface {
	// ReplaceResponses persists the full answer map with delete-then-insert
	// semantics.
	ReplaceResponses(ctx context.Context, reportID uuid.UUID, answers map[string]string) error

	// MirrorReportContent copies the non-empty answers into the report row.
	MirrorReportContent(ctx context.Context, reportID uuid.UUID, answers map[string]string) error
}

// ─── ACKNOWLEDGEMENT ─────────────────────────────────────────────────────────

// AckKind distinguishes the two acknowledgement styles the editor shows.
type AckKind string

const (
	AckNone    AckKind = ""
	AckSuccess AckKind = "success"
	AckError   AckKind = "error"
)

// Ack is the session's current acknowledgement. A success ack clears itself
// after the configured delay; an error ack persists until the next operation.
type Ack struct {
	Kind    AckKind
	Message string
}

// ─── SESSION ─────────────────────────────────────────────────────────────────

// Session is one user's in-memory editing state for one report. It owns the
// ResponseState and the Navigator; the questionnaire itself is read-only.
//
// All methods are safe for concurrent use.
type Session struct {
	reportID uuid.UUID

	mu       sync.Mutex
	q        *survey.Questionnaire
	state    survey.ResponseState
	nav      *survey.Navigator
	ack      Ack
	ackTimer *time.Timer
	saving   bool

	persister Persister
	logger    *slog.Logger
	ackTTL    time.Duration
}

// New builds a session from an already-normalized questionnaire and the
// stored answers for the report. The stored answers are reconciled against
// the questionnaire immediately, so the session always starts with a complete
// ResponseState.
func New(reportID uuid.UUID, q *survey.Questionnaire, stored map[string]string, p Persister, logger *slog.Logger, ackTTL time.Duration) *Session {
	return &Session{
		reportID:  reportID,
		q:         q,
		state:     survey.Reconcile(q, stored),
		nav:       survey.NewNavigator(q, nil),
		persister: p,
		logger:    logger,
		ackTTL:    ackTTL,
	}
}

// Questionnaire returns the canonical questionnaire the session edits against.
func (s *Session) Questionnaire() *survey.Questionnaire {
	return s.q
}

// SetAnswer records a single answer locally. No validation gate, no network
// call — a keystroke must never fail. Unknown question ids are ignored so a
// stale client cannot grow the state beyond the questionnaire.
func (s *Session) SetAnswer(questionID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[questionID]; !ok {
		return
	}
	s.state[questionID] = value
	s.clearAckLocked()
}

// Answers returns a copy of the current ResponseState.
func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Ack returns the current acknowledgement.
func (s *Session) Ack() Ack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ack
}

// Save persists the full answer map, then mirrors the resolved answers into
// the report row. The mirror is best-effort: a mirror failure is logged and
// does not fail the save, because the responses table is the source of truth.
//
// Save is exposed as a capability: the section editor's own controls and the
// parent report editor both call it. Exactly one save runs at a time — a
// concurrent call returns ErrSaveInFlight instead of racing the first write.
//
// On success a transient success ack is raised and auto-clears after the
// configured delay. On failure an error ack is raised and persists until the
// next operation.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.q == nil || len(s.q.Sections) == 0 {
		s.ack = Ack{Kind: AckError, Message: "No questionnaire loaded"}
		s.mu.Unlock()
		return ErrNoQuestionnaire
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.saving = true
	snapshot := make(map[string]string, len(s.state))
	for k, v := range s.state {
		snapshot[k] = v
	}
	s.mu.Unlock()

	err := s.persister.ReplaceResponses(ctx, s.reportID, snapshot)
	if err == nil {
		if mirrorErr := s.persister.MirrorReportContent(ctx, s.reportID, snapshot); mirrorErr != nil {
			s.logger.Warn("session: mirror report content failed",
				"report_id", s.reportID,
				"error", mirrorErr,
			)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.ack = Ack{Kind: AckError, Message: fmt.Sprintf("Save failed: %v", err)}
		return err
	}
	s.setSuccessAckLocked("Responses saved")
	return nil
}

// ─── NAVIGATION ──────────────────────────────────────────────────────────────

// ActiveSection returns the navigator's current index and section.
func (s *Session) ActiveSection() (int, survey.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Active(), s.nav.Section()
}

// NextSection advances the navigator; a no-op at the last section.
func (s *Session) NextSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Next()
	s.clearAckLocked()
}

// PreviousSection moves the navigator back; a no-op at the first section.
func (s *Session) PreviousSection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Previous()
	s.clearAckLocked()
}

// JumpToSection moves the navigator directly; out-of-bounds resets to 0.
func (s *Session) JumpToSection(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.JumpTo(index)
	s.clearAckLocked()
}

// ─── INTERNAL ────────────────────────────────────────────────────────────────

// setSuccessAckLocked raises a success ack and arms the auto-clear timer.
// Caller holds s.mu.
func (s *Session) setSuccessAckLocked(msg string) {
	s.ack = Ack{Kind: AckSuccess, Message: msg}
	if s.ackTimer != nil {
		s.ackTimer.Stop()
	}
	s.ackTimer = time.AfterFunc(s.ackTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Only clear a success ack; an error raised in the meantime stays.
		if s.ack.Kind == AckSuccess {
			s.ack = Ack{}
		}
	})
}

// clearAckLocked drops the current ack. Any operation counts as "the next
// operation" after which an error ack no longer persists. Caller holds s.mu.
func (s *Session) clearAckLocked() {
	s.ack = Ack{}
	if s.ackTimer != nil {
		s.ackTimer.Stop()
		s.ackTimer = nil
	}
}
