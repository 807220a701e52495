package parsers

import (
	"regexp"
	"strings"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// SetupPyParser extracts install_requires entries from setup.py files.
// This is pattern matching, not a Python parser; setup.py files that build
// the list programmatically are not fully handled.
type SetupPyParser struct{}

// CanParse returns true for setup.py files.
func (p *SetupPyParser) CanParse(filename string) bool {
	return filename == "setup.py"
}

var installRequiresPattern = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
var quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)

// Parse extracts requirements from setup.py content. Each quoted entry in
// install_requires is an ordinary requirement line.
func (p *SetupPyParser) Parse(path string, content []byte) ([]models.Requirement, []models.ParseFailure, error) {
	m := installRequiresPattern.FindSubmatch(content)
	if m == nil {
		return nil, nil, nil
	}

	var reqs []models.Requirement
	var failures []models.ParseFailure

	for _, match := range quotedPattern.FindAllStringSubmatch(string(m[1]), -1) {
		entry := strings.TrimSpace(match[1])
		req, skip, err := ParseLine(entry, 0)
		if err != nil {
			failures = append(failures, models.ParseFailure{
				File:   path,
				Raw:    entry,
				Reason: "invalid install_requires entry",
			})
			continue
		}
		if !skip {
			reqs = append(reqs, req)
		}
	}

	return reqs, failures, nil
}
