// Package ai defines the interface for AI narrative report generation and
// provides OpenAI- and Anthropic-backed implementations.
package ai

import "context"

// Generator is the interface the generate handler uses to turn an assembled
// questionnaire prompt into a narrative CSRD report.
// Tests inject a stub that returns canned responses.
type Generator interface {
	// Generate accepts the full prompt (instructions plus the assembled
	// question/answer document) and returns the generated report text.
	//
	// Implementations must be safe to call concurrently.
	// A non-nil error means the entire call failed; the caller falls back to
	// the plain assembled rendering.
	Generate(ctx context.Context, prompt string) (string, error)
}

// The system role shared by both providers.
const systemPrompt = "You are a professional sustainability reporting expert specializing in CSRD compliance for SMEs."
