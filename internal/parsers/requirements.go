package parsers

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// LineError reports a requirement line that matched no recognizable shape.
// It is recorded on the owning component and never aborts the scan.
type LineError struct {
	Raw    string
	Line   int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Raw)
}

// namePattern matches the leading package identity with optional extras:
// the longest run of identifier characters, then an optional bracketed
// comma-separated extras list, then the remainder (constraints).
var namePattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[([^\]]*)\])?\s*(.*)$`)

// vcsSchemes are URI prefixes that mark a version-control reference.
var vcsSchemes = []string{"git+", "git://", "hg+", "svn+", "bzr+"}

// opTokens is the ordered operator vocabulary. Two-character tokens come
// first so ">=" is never read as ">" followed by "=1.0".
var opTokens = []string{"==", "!=", ">=", "<=", "~=", ">", "<"}

// ParseLine parses one raw declaration line. It returns the requirement,
// a skip flag for blank/comment/option lines, or a *LineError for lines
// that match no recognizable shape. The source-form checks run as an
// ordered chain: comments, environment markers, editable/local, VCS,
// then ordinary name[extras]constraints.
func ParseLine(raw string, line int) (models.Requirement, bool, error) {
	text := stripComment(raw)
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Requirement{}, true, nil
	}

	// Environment marker: everything after ";" is kept verbatim but
	// never evaluated, and must not leak into constraint parsing.
	var marker string
	if idx := strings.Index(text, ";"); idx >= 0 {
		marker = strings.TrimSpace(text[idx+1:])
		text = strings.TrimSpace(text[:idx])
		if text == "" {
			return models.Requirement{}, true, nil
		}
	}

	editable := false
	for _, prefix := range []string{"-e ", "--editable "} {
		if strings.HasPrefix(text, prefix) {
			editable = true
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			break
		}
	}

	// Other pip options (-r, -c, --hash, ...) are not requirements.
	if !editable && strings.HasPrefix(text, "-") {
		return models.Requirement{}, true, nil
	}

	if req, ok := parseLocal(text, editable, marker, raw, line); ok {
		return req, false, nil
	}
	if req, ok := parseVCS(text, marker, raw, line); ok {
		return req, false, nil
	}
	if editable {
		// Editable with a bare name or any other remainder is treated
		// as a local source; there is no version to compare.
		return models.Requirement{
			Name:        models.NormalizeName(text),
			DisplayName: text,
			SourceKind:  models.SourceLocalEditable,
			Marker:      marker,
			Raw:         raw,
			Line:        line,
		}, false, nil
	}

	return parseRegistry(text, marker, raw, line)
}

// stripComment removes an unescaped "#" and everything after it. A "#"
// only starts a comment at the beginning of the line or after whitespace,
// so VCS fragments like #egg=name survive. "\#" escapes a literal hash.
func stripComment(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			continue
		}
		if i > 0 && s[i-1] == '\\' {
			continue
		}
		if i == 0 || s[i-1] == ' ' || s[i-1] == '\t' {
			s = s[:i]
			break
		}
	}
	return strings.ReplaceAll(s, `\#`, "#")
}

func parseLocal(text string, editable bool, marker, raw string, line int) (models.Requirement, bool) {
	isPath := text == "." || text == "./" || strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../")
	if !isPath {
		return models.Requirement{}, false
	}
	kind := models.SourceLocalPath
	if editable {
		kind = models.SourceLocalEditable
	}
	// The cleaned path is the identity, so distinct local paths aggregate
	// separately and the leading "." keeps them out of the registry
	// namespace (registry names start with an alphanumeric).
	name := path.Clean(text)
	if !strings.HasPrefix(name, ".") {
		name = "./" + name
	}
	return models.Requirement{
		Name:        name,
		DisplayName: text,
		SourceKind:  kind,
		Marker:      marker,
		Raw:         raw,
		Line:        line,
	}, true
}

func parseVCS(text, marker, raw string, line int) (models.Requirement, bool) {
	lower := strings.ToLower(text)
	matched := false
	for _, scheme := range vcsSchemes {
		if strings.HasPrefix(lower, scheme) {
			matched = true
			break
		}
	}
	if !matched {
		return models.Requirement{}, false
	}

	name := vcsName(text)
	display := name
	if name == "" {
		// No derivable name: keep the raw reference as the identity.
		name = text
		display = text
	}
	return models.Requirement{
		Name:        models.NormalizeName(name),
		DisplayName: display,
		SourceKind:  models.SourceVCS,
		Marker:      marker,
		Raw:         raw,
		Line:        line,
	}, true
}

// vcsName extracts a package name from a VCS URL on a best-effort basis:
// an explicit #egg= fragment wins, otherwise the last URL path segment
// with any .git suffix and @revision removed.
func vcsName(url string) string {
	if idx := strings.Index(url, "#egg="); idx >= 0 {
		name := url[idx+len("#egg="):]
		if amp := strings.IndexAny(name, "&#"); amp >= 0 {
			name = name[:amp]
		}
		return name
	}
	trimmed := url
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if idx := strings.LastIndex(trimmed, "@"); idx > strings.LastIndex(trimmed, "/") {
		trimmed = trimmed[:idx]
	}
	seg := trimmed[strings.LastIndex(trimmed, "/")+1:]
	seg = strings.TrimSuffix(seg, ".git")
	if seg == "" || strings.Contains(seg, ":") {
		return ""
	}
	return seg
}

func parseRegistry(text, marker, raw string, line int) (models.Requirement, bool, error) {
	m := namePattern.FindStringSubmatch(text)
	if m == nil {
		return models.Requirement{}, false, &LineError{Raw: raw, Line: line, Reason: "unrecognized requirement syntax"}
	}
	name, extrasText, rest := m[1], m[2], strings.TrimSpace(m[3])

	var extras []string
	for _, e := range strings.Split(extrasText, ",") {
		if e = strings.TrimSpace(e); e != "" {
			extras = append(extras, e)
		}
	}

	constraints, err := parseConstraints(rest)
	if err != nil {
		return models.Requirement{}, false, &LineError{Raw: raw, Line: line, Reason: err.Error()}
	}

	return models.Requirement{
		Name:        models.NormalizeName(name),
		DisplayName: name,
		Extras:      extras,
		Constraints: constraints,
		SourceKind:  models.SourceRegistry,
		Marker:      marker,
		Raw:         raw,
		Line:        line,
	}, false, nil
}

// parseConstraints splits a clause run like ">=1.0, <2.0,!=1.5" into ANDed
// constraints. The whole run is consumed; a comma never truncates parsing.
func parseConstraints(spec string) ([]models.Constraint, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	if strings.HasPrefix(spec, "(") && strings.HasSuffix(spec, ")") {
		spec = strings.TrimSpace(spec[1 : len(spec)-1])
	}

	var out []models.Constraint
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		c, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseClause(clause string) (models.Constraint, error) {
	for _, op := range opTokens {
		if strings.HasPrefix(clause, op) {
			version := strings.TrimSpace(clause[len(op):])
			if version == "" {
				return models.Constraint{}, fmt.Errorf("operator %q without version", op)
			}
			if !validVersionText(version) {
				return models.Constraint{}, fmt.Errorf("malformed version %q", version)
			}
			return models.Constraint{Op: op, Version: version}, nil
		}
	}
	return models.Constraint{}, fmt.Errorf("unrecognized constraint clause %q", clause)
}

// validVersionText is a loose shape check; real parsing happens in the
// reasoner, where a bad version degrades to any-version rather than
// rejecting the line.
func validVersionText(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '*' || r == '+' || r == '-' || r == '_' || r == '!':
		default:
			return false
		}
	}
	return s != ""
}

// RequirementsParser parses requirements.txt files line by line.
type RequirementsParser struct{}

// CanParse returns true for requirements.txt and its common variants.
func (p *RequirementsParser) CanParse(filename string) bool {
	return filename == "requirements.txt" ||
		strings.HasSuffix(filename, "-requirements.txt") ||
		strings.HasSuffix(filename, "_requirements.txt") ||
		(strings.HasPrefix(filename, "requirements-") && strings.HasSuffix(filename, ".txt"))
}

// Parse extracts requirements from requirements.txt content.
func (p *RequirementsParser) Parse(path string, content []byte) ([]models.Requirement, []models.ParseFailure, error) {
	var reqs []models.Requirement
	var failures []models.ParseFailure

	for i, raw := range strings.Split(string(content), "\n") {
		req, skip, err := ParseLine(raw, i+1)
		if err != nil {
			reason := err.Error()
			var le *LineError
			if errors.As(err, &le) {
				reason = le.Reason
			}
			failures = append(failures, models.ParseFailure{
				File:   path,
				Line:   i + 1,
				Raw:    strings.TrimSpace(raw),
				Reason: reason,
			})
			continue
		}
		if skip {
			continue
		}
		reqs = append(reqs, req)
	}

	return reqs, failures, nil
}
