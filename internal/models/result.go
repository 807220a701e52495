package models

import "time"

// PackageUsage pairs a package with how many components depend on it.
type PackageUsage struct {
	Package string
	Count   int
}

// FragmentedPackage is a package declared with three or more distinct
// constraint texts across the scanned components.
type FragmentedPackage struct {
	Package string
	Specs   []string
}

// Statistics summarizes dependency usage across all components.
type Statistics struct {
	TotalRequirements int
	UniquePackages    int

	// MostPopular is sorted by contributor count descending, package
	// name ascending on ties.
	MostPopular []PackageUsage

	Fragmented []FragmentedPackage

	// SelfContained lists components with zero registry requirements.
	SelfContained []string

	// LightComponents have 1-3 registry requirements, HeavyComponents
	// have 10 or more.
	LightComponents []string
	HeavyComponents []string

	// Diagnostics are non-fatal aggregation notes, e.g. a component
	// declaring the same package twice.
	Diagnostics []string
}

// ScanResult is the complete output of one analysis pass: plain data with
// no formatting logic, consumed by the reporters.
type ScanResult struct {
	ScanDate   time.Time
	Components []Component
	Conflicts  []ConflictRecord
	Stats      Statistics
}

// CriticalCount returns the number of CRITICAL conflicts.
func (r ScanResult) CriticalCount() int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
