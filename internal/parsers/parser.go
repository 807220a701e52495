// Package parsers turns dependency declaration files into structured
// Requirements. Each file format has its own Parser; all of them feed
// requirement lines through the same line-level grammar in ParseLine.
package parsers

import "github.com/ethanolivertroy/depscan/internal/models"

// Parser is the interface for dependency file parsers.
type Parser interface {
	// CanParse returns true if this parser can handle the given filename.
	CanParse(filename string) bool

	// Parse extracts requirements from the file content. Line-level
	// failures are returned alongside the requirements; the error return
	// is reserved for content that is unusable as a whole (e.g. invalid
	// TOML).
	Parse(path string, content []byte) ([]models.Requirement, []models.ParseFailure, error)
}

// All returns all available parsers in priority order.
func All() []Parser {
	return []Parser{
		&RequirementsParser{},
		&PyProjectParser{},
		&SetupPyParser{},
	}
}
