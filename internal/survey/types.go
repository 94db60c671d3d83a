// Package survey implements the questionnaire core: normalizing raw stored
// questionnaire records of varying historical shapes into one canonical model,
// reconciling previously saved answers against that model, navigating its
// sections, and assembling the question/answer pairs a report is built from.
// It is intentionally dependency-free: it imports nothing from internal/ and
// can be tested without a database.
package survey

import "errors"

// QuestionType enumerates the supported input kinds. String values match the
// question_type values stored in the questionnaire JSONB so no mapping table
// is needed at the db boundary.
type QuestionType string

const (
	TypeText    QuestionType = "text"
	TypeNumber  QuestionType = "number"
	TypeSelect  QuestionType = "select"
	TypeBoolean QuestionType = "boolean"
)

// Question is one input item of the canonical questionnaire.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	// Options is non-empty only for select questions. A select question with
	// zero options is a data-quality defect in the stored record; the
	// normalizer preserves it rather than guessing options.
	Options []string `json:"options"`
	// Unit is a display-only annotation for number questions ("kWh", "t CO2e").
	Unit string `json:"unit,omitempty"`
}

// Section is an ordered, named grouping of questions. Order is significant and
// preserved end-to-end: it drives navigation and report ordering.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Questionnaire is the canonical normalized aggregate. It is materialized
// fresh on every fetch by running Normalize over whatever shape the store
// returned, and is never mutated by an editing session — only answers change.
type Questionnaire struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Sections    []Section `json:"sections"`
}

// QuestionIDs returns every question id in section order, question order.
func (q *Questionnaire) QuestionIDs() []string {
	var ids []string
	for _, s := range q.Sections {
		for _, question := range s.Questions {
			ids = append(ids, question.ID)
		}
	}
	return ids
}

// QuestionCount returns the total number of questions across all sections.
func (q *Questionnaire) QuestionCount() int {
	n := 0
	for _, s := range q.Sections {
		n += len(s.Questions)
	}
	return n
}

// ResponseState is the complete answer map for one questionnaire: exactly one
// entry per current question id, empty string for unanswered. Values are
// always strings; numbers and booleans are carried as their string form
// ("42", "true") exactly as entered.
type ResponseState map[string]string

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrUnrecognizedFormat is returned when the raw record carries sections- or
// questions-like fields but none of the tolerated variants can parse them.
// Terminal for the current load; callers surface the raw record for diagnosis.
var ErrUnrecognizedFormat = errors.New("survey: unrecognized questionnaire format")

// ErrEmptyStructure is returned when normalization completes structurally but
// yields zero sections (including a record with no sections or questions field
// at all). Callers must not proceed to rendering or reconciliation.
var ErrEmptyStructure = errors.New("survey: questionnaire has no sections")
