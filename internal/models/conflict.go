package models

// Severity classifies how bad a conflict is.
type Severity string

const (
	// SeverityCritical means no single version can satisfy all
	// contributors.
	SeverityCritical Severity = "CRITICAL"

	// SeverityWarning means the constraint texts differ but a satisfying
	// version may still exist.
	SeverityWarning Severity = "WARNING"
)

// ConflictRecord describes incompatible constraint sets for one package.
// Records are computed fresh on every scan and never mutated.
type ConflictRecord struct {
	Package  string
	Severity Severity

	// Contributors maps component name to the constraint text it
	// declared ("(any version)" when unconstrained). Non-registry
	// contributions appear here for transparency even though they are
	// never compared.
	Contributors map[string]string

	Description string
}
