// Package reporter renders a ScanResult as text, JSON, or Markdown.
// Reporters consume plain data; nothing in the engine knows about output
// formatting.
package reporter

import "github.com/ethanolivertroy/depscan/internal/models"

// ASCII-safe status indicators, kept free of Unicode so reports render the
// same everywhere.
const (
	statusOK      = "[OK]"
	statusWarning = "[!]"
	statusError   = "[X]"
	statusInfo    = "[i]"
)

// Reporter is the interface for output formatters.
type Reporter interface {
	// Report renders the given scan result.
	Report(result *models.ScanResult) ([]byte, error)
}

// Get returns a reporter for the specified format.
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "markdown":
		return &MarkdownReporter{}
	default:
		return &TextReporter{}
	}
}
