package models

// ParseFailure records one line that could not be parsed. Failures are
// per-line and never abort scanning of the rest of the component.
type ParseFailure struct {
	File   string
	Line   int
	Raw    string
	Reason string
}

// Component is one scanned project and the requirements it declares.
type Component struct {
	Name string
	Path string

	Requirements  []Requirement
	ParseFailures []ParseFailure

	HasRequirementsTxt bool
	HasSetupPy         bool
	HasPyproject       bool
}

// RegistryCount returns the number of registry-kind requirements.
func (c Component) RegistryCount() int {
	n := 0
	for _, r := range c.Requirements {
		if r.SourceKind == SourceRegistry {
			n++
		}
	}
	return n
}

// SelfContained reports whether the component declares no registry
// dependencies at all.
func (c Component) SelfContained() bool {
	return c.RegistryCount() == 0
}
