package survey

import (
	"fmt"
	"strings"
)

// Placeholder stands in for questions that were left unanswered.
const Placeholder = "N/A"

// Entry is one question/answer pair in document order, tagged with the
// section it belongs to.
type Entry struct {
	SectionTitle string
	QuestionText string
	Answer       string
}

// Assemble pairs every question with its answer in questionnaire order.
// Missing or empty answers become the placeholder.
func Assemble(q *Questionnaire, state ResponseState) []Entry {
	entries := make([]Entry, 0, q.QuestionCount())
	for _, s := range q.Sections {
		for _, question := range s.Questions {
			answer := state[question.ID]
			if answer == "" {
				answer = Placeholder
			}
			entries = append(entries, Entry{
				SectionTitle: s.Title,
				QuestionText: question.Text,
				Answer:       answer,
			})
		}
	}
	return entries
}

// RenderText produces the plain-text report document: a "# title" heading,
// a "## section" heading per section, then "Q:"/"A:" lines per question.
// Placeholder answers are kept so the document mirrors the questionnaire.
func RenderText(title string, entries []Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	current := ""
	for i, e := range entries {
		if i == 0 || e.SectionTitle != current {
			current = e.SectionTitle
			fmt.Fprintf(&b, "## %s\n\n", current)
		}
		fmt.Fprintf(&b, "Q: %s\n", e.QuestionText)
		fmt.Fprintf(&b, "A: %s\n\n", e.Answer)
	}
	return b.String()
}

const promptPreamble = `You are provided with structured data extracted from a CSRD survey for SMEs. The data is organized by sections with individual questions (prefixed with "Q:") and corresponding answers (prefixed with "A:"). Your task is to generate a comprehensive and formal Corporate Sustainability Reporting Directive (CSRD) report based solely on the provided information.

Instructions:

Use only the provided data and include only the question-answer pairs given below.
Divide the report into clear sections that follow the input data structure. Use simple headers.
Integrate the available information into a narrative format that highlights the company's sustainability performance, key metrics, and strategic initiatives.
Include additional important points such as:
The importance of sustainability reporting for improving stakeholder transparency.
How robust reporting can help in accessing green financing.
The role of continuous improvement and monitoring of sustainability performance.
Relevant trends or best practices in sustainability reporting for SMEs.
Conclude with a summary of the overall sustainability performance and recommendations for future improvements.

Input Data:
`

// BuildPrompt wraps the assembled entries in the CSRD narrative prompt.
// Unanswered pairs are dropped before rendering so the model never sees
// placeholder answers.
func BuildPrompt(title string, entries []Entry) string {
	answered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Answer == Placeholder {
			continue
		}
		answered = append(answered, e)
	}
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString(RenderText(title, answered))
	b.WriteString("\nGenerate the CSRD report using only the provided information.")
	return b.String()
}
