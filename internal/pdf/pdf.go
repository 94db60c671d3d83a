// Package pdf renders a report's plain-text document as a paginated PDF.
//
// The input is the same `#` / `##` / body line format produced by the
// assembly step, so generated narratives and plain fallbacks both render.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	titleSize   = 18
	headingSize = 14
	bodySize    = 12
	lineHeight  = 7 // mm
)

// Render converts a report document into PDF bytes. Lines starting with "# "
// become the title style, "## " the section heading style, everything else
// body text. Long lines wrap; page breaks are automatic.
func Render(doc string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// The source text is UTF-8; gofpdf's core fonts are cp1252. Translate
	// what can be translated and let the rest degrade.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(doc, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Arial", "B", headingSize)
			pdf.MultiCell(0, lineHeight, tr(strings.TrimPrefix(line, "## ")), "", "L", false)
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Arial", "B", titleSize)
			pdf.MultiCell(0, lineHeight+2, tr(strings.TrimPrefix(line, "# ")), "", "L", false)
		case strings.TrimSpace(line) == "":
			pdf.Ln(lineHeight / 2)
		default:
			pdf.SetFont("Arial", "", bodySize)
			pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
