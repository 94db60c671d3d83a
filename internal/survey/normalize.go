package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RawRecord is a stored questionnaire row before normalization. The Questions
// and Sections fields are kept as raw JSON because their shape varies across
// the historical storage formats this package tolerates.
type RawRecord struct {
	ID          string
	Title       string
	Description string
	Questions   json.RawMessage
	Sections    json.RawMessage
}

// The alternate key names used by the oldest stored format, where questions
// live under a "sections" array inside the questions blob.
type altSection struct {
	ID          string        `json:"id"`
	Section     string        `json:"section"`
	Description string        `json:"description"`
	Questions   []altQuestion `json:"questions"`
}

type altQuestion struct {
	ID           string   `json:"id"`
	QuestionID   string   `json:"question_id"`
	Text         string   `json:"text"`
	QuestionText string   `json:"question_text"`
	Type         string   `json:"type"`
	QuestionType string   `json:"question_type"`
	Required     bool     `json:"required"`
	Options      []string `json:"options"`
	Unit         string   `json:"unit"`
}

// Normalize converts a raw questionnaire record into the canonical model,
// tolerating the storage formats that have accumulated over the product's
// history. The variants are attempted in fixed precedence and the first
// structural match wins — even when it yields sections with no questions.
// A lower-precedence variant is never consulted once a higher one matched.
//
//  1. questions.sections: an array of section objects using the alternate key
//     names (section / question_id / question_text / question_type).
//  2. sections stored as a JSON-encoded string (a serialization artifact);
//     a string that fails to parse falls through rather than aborting.
//  2b. the parsed sections value wrapping another sections array one level
//     down — names only, sections are created with empty question lists.
//  3. sections directly an array of plain section-name strings.
//  4. last resort: no sections-like field, but a keyed questions object whose
//     top-level keys are implicit section names.
//
// Returns ErrUnrecognizedFormat when sections/questions data is present but
// matches no variant, and ErrEmptyStructure when nothing yields any section.
func Normalize(raw RawRecord) (*Questionnaire, error) {
	q := &Questionnaire{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
	}

	// ── Variant 1: questions.sections with alternate key names ───────────────
	if nested, ok := decodeNestedSections(raw.Questions); ok {
		q.Sections = make([]Section, len(nested))
		for i, src := range nested {
			q.Sections[i] = normalizeAltSection(src, i)
		}
		return finish(q)
	}

	// ── Variants 2 / 2b / 3: the sections field in its historical shapes ─────
	if parsed, ok := parseSectionsField(raw.Sections); ok {
		if names, ok := decodeSectionNames(parsed); ok {
			q.Sections = sectionsFromNames(names)
			return finish(q)
		}
		// Parsed but in a shape no variant understands (e.g. an object with no
		// nested sections array). Precedence says we stop here, not mix in a
		// lower variant's interpretation of other fields.
		return nil, fmt.Errorf("%w: sections field parsed but matches no known shape", ErrUnrecognizedFormat)
	}

	// ── Variant 4: keyed questions object as implicit sections ───────────────
	if keyed, ok := decodeKeyedObject(raw.Questions); ok {
		sections, err := sectionsFromKeyedObject(keyed)
		if err != nil {
			return nil, err
		}
		q.Sections = sections
		return finish(q)
	}

	if hasData(raw.Questions) || hasData(raw.Sections) {
		return nil, ErrUnrecognizedFormat
	}
	return nil, ErrEmptyStructure
}

// finish applies the terminal validation shared by all variants.
func finish(q *Questionnaire) (*Questionnaire, error) {
	if len(q.Sections) == 0 {
		return nil, ErrEmptyStructure
	}
	return q, nil
}

// ─── VARIANT 1 ───────────────────────────────────────────────────────────────

// decodeNestedSections reports whether the questions blob is an object holding
// a sections array, and returns that array.
func decodeNestedSections(questions json.RawMessage) ([]altSection, bool) {
	if !isObject(questions) {
		return nil, false
	}
	var probe struct {
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(questions, &probe); err != nil || len(probe.Sections) == 0 {
		return nil, false
	}
	var sections []altSection
	if err := json.Unmarshal(probe.Sections, &sections); err != nil {
		return nil, false
	}
	return sections, true
}

func normalizeAltSection(src altSection, index int) Section {
	s := Section{
		ID:          src.ID,
		Title:       src.Section,
		Description: src.Description,
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("section-%d", index)
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Section %d", index+1)
	}
	s.Questions = make([]Question, len(src.Questions))
	for i, q := range src.Questions {
		s.Questions[i] = normalizeAltQuestion(q, i)
	}
	return s
}

// normalizeAltQuestion maps alternate key names onto the canonical Question,
// applying the defaults for fields the stored record omits.
func normalizeAltQuestion(src altQuestion, index int) Question {
	q := Question{
		ID:       firstNonEmpty(src.ID, src.QuestionID),
		Text:     firstNonEmpty(src.Text, src.QuestionText),
		Type:     QuestionType(firstNonEmpty(src.Type, src.QuestionType)),
		Required: src.Required,
		Options:  src.Options,
		Unit:     src.Unit,
	}
	if q.ID == "" {
		q.ID = fmt.Sprintf("question-%d", index)
	}
	if q.Type == "" {
		q.Type = TypeText
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	return q
}

// ─── VARIANTS 2 / 2b / 3 ─────────────────────────────────────────────────────

// parseSectionsField resolves the sections blob to a parsed JSON value,
// decoding one level of string encoding when present. ok is false when the
// field is absent, holds JSON null, or is a string-encoded value that fails
// to parse — all fall through to the next variant. A stored null is an
// absent field for variant selection, not a structural match.
func parseSectionsField(sections json.RawMessage) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(sections)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil, false
	}
	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, false
		}
		inner := json.RawMessage(encoded)
		if !json.Valid(inner) || isNull(bytes.TrimSpace(inner)) {
			return nil, false
		}
		return inner, true
	}
	return trimmed, true
}

// decodeSectionNames extracts a flat list of section names from the parsed
// sections value: either a direct array of strings (variant 3) or an object
// wrapping one more sections array (variant 2b).
func decodeSectionNames(parsed json.RawMessage) ([]string, bool) {
	var names []string
	if err := json.Unmarshal(parsed, &names); err == nil {
		return names, true
	}
	var wrapper struct {
		Sections []string `json:"sections"`
	}
	if err := json.Unmarshal(parsed, &wrapper); err == nil && wrapper.Sections != nil {
		return wrapper.Sections, true
	}
	return nil, false
}

// sectionsFromNames builds name-only sections. No question data exists at this
// level of the format, so question lists are empty by construction.
func sectionsFromNames(names []string) []Section {
	sections := make([]Section, len(names))
	for i, name := range names {
		sections[i] = Section{
			ID:        fmt.Sprintf("section-%d", i),
			Title:     name,
			Questions: []Question{},
		}
	}
	return sections
}

// ─── VARIANT 4 ───────────────────────────────────────────────────────────────

// keyedEntry preserves the document order of a JSON object's top-level keys.
// Go maps would randomize section order, which must follow the stored record.
type keyedEntry struct {
	key   string
	value json.RawMessage
}

func decodeKeyedObject(questions json.RawMessage) ([]keyedEntry, bool) {
	if !isObject(questions) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(questions))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, false
	}
	var entries []keyedEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		entries = append(entries, keyedEntry{key: key, value: value})
	}
	return entries, len(entries) > 0
}

// sectionsFromKeyedObject treats each top-level key as an implicit section
// name. An array value is a question list (alternate-key mapping applies); a
// single object value synthesizes exactly one question, falling back to the
// key name as the question text. Any other value shape is unrecognized.
func sectionsFromKeyedObject(entries []keyedEntry) ([]Section, error) {
	sections := make([]Section, 0, len(entries))
	for i, entry := range entries {
		section := Section{
			ID:    fmt.Sprintf("section-%d", i),
			Title: entry.key,
		}

		trimmed := bytes.TrimSpace(entry.value)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '[':
			var questions []altQuestion
			if err := json.Unmarshal(trimmed, &questions); err != nil {
				return nil, fmt.Errorf("%w: section %q holds a malformed question array", ErrUnrecognizedFormat, entry.key)
			}
			section.Questions = make([]Question, len(questions))
			for qi, q := range questions {
				section.Questions[qi] = normalizeAltQuestion(q, qi)
			}

		case isObject(trimmed):
			var q altQuestion
			if err := json.Unmarshal(trimmed, &q); err != nil {
				return nil, fmt.Errorf("%w: section %q holds a malformed question object", ErrUnrecognizedFormat, entry.key)
			}
			single := normalizeAltQuestion(q, 0)
			single.ID = fmt.Sprintf("question-%d-0", i)
			if strings.TrimSpace(single.Text) == "" {
				single.Text = entry.key
			}
			section.Questions = []Question{single}

		default:
			return nil, fmt.Errorf("%w: section %q holds neither an array nor an object", ErrUnrecognizedFormat, entry.key)
		}

		sections = append(sections, section)
	}
	return sections, nil
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// isNull reports whether raw is the JSON null literal. Input must already be
// space-trimmed.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(raw, []byte("null"))
}

// hasData reports whether a raw field carries anything beyond absence: a
// missing field and a stored JSON null are equally "no data".
func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !isNull(trimmed)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
