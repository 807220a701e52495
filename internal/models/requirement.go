package models

import "strings"

// SourceKind classifies where a dependency comes from.
type SourceKind string

const (
	SourceRegistry      SourceKind = "registry"
	SourceVCS           SourceKind = "vcs"
	SourceLocalEditable SourceKind = "local-editable"
	SourceLocalPath     SourceKind = "local-path"
)

// Constraint is a single version clause such as ">=1.2" or "==1.4.*".
// Version is kept as text; constraint evaluation parses it on demand so
// that an unparsable version degrades to "any version" instead of failing
// the whole line.
type Constraint struct {
	Op      string
	Version string
}

func (c Constraint) String() string {
	return c.Op + c.Version
}

// Requirement represents one parsed dependency declaration line.
type Requirement struct {
	// Name is the normalized identity: case-folded with "_" and "."
	// replaced by "-". PyPI treats these as the same package.
	Name string

	// DisplayName preserves the spelling from the source file.
	DisplayName string

	// Extras lists requested optional features, e.g. requests[security].
	// Informational only; extras never affect conflict detection.
	Extras []string

	// Constraints are ANDed version clauses. Empty means any version.
	// Non-empty only for SourceRegistry.
	Constraints []Constraint

	SourceKind SourceKind

	// Marker holds the environment marker text after ";", unevaluated.
	Marker string

	// Raw is the original line, retained for diagnostics.
	Raw string

	// Line is the 1-based line number in the source file, 0 if unknown.
	Line int
}

// NormalizeName case-folds a package name and maps "_" and "." to "-".
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ReplaceAll(name, ".", "-")
}

// SpecText renders the canonical constraint text, e.g. ">=1.0,<2.0".
// Empty constraints render as the empty string.
func (r Requirement) SpecText() string {
	parts := make([]string, 0, len(r.Constraints))
	for _, c := range r.Constraints {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// Versioned reports whether this requirement restricts versions at all.
func (r Requirement) Versioned() bool {
	return r.SourceKind == SourceRegistry && len(r.Constraints) > 0
}

func (r Requirement) String() string {
	if spec := r.SpecText(); spec != "" {
		return r.Name + spec
	}
	return r.Name
}
