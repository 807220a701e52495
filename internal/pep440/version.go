// Package pep440 implements the subset of Python version semantics needed
// for requirement comparison: dot-separated release segments, pre-release
// markers (a/b/rc), post-release markers, and local build tags.
//
// Versions form a strict total order. For equal release segments the order
// is: pre-releases < the plain release < post-releases, and shorter release
// tuples are zero-padded before comparison (1.0 == 1.0.0).
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// prePhase orders pre-release markers relative to the plain release.
type prePhase int

const (
	phaseAlpha prePhase = iota // aN
	phaseBeta                  // bN
	phaseRC                    // rcN
	phaseFinal                 // no pre-release marker
)

// Version is an immutable parsed version.
type Version struct {
	release []int
	phase   prePhase
	preNum  int
	post    int    // -1 when absent
	local   string // build tag after "+", empty when absent
}

// ParseError reports an unparsable version string.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q", e.Input)
}

// versionPattern matches release segments with optional pre, post, and local
// parts, e.g. 1.4, 2.0.0rc1, 1.0.0.post2, 3.1+build5.
var versionPattern = regexp.MustCompile(
	`^v?(\d+(?:\.\d+)*)` +
		`(?:[._-]?(a|alpha|b|beta|c|rc|pre|preview)[._-]?(\d*))?` +
		`(?:[._-]?(post|rev|r)[._-]?(\d*))?` +
		`(?:\+([a-z0-9]+(?:[._-][a-z0-9]+)*))?$`)

// Parse parses text into a Version. The empty string and any string whose
// leading segment is non-numeric yield a *ParseError.
func Parse(text string) (Version, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &ParseError{Input: text}
	}

	v := Version{phase: phaseFinal, post: -1}
	for _, seg := range strings.Split(m[1], ".") {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return Version{}, &ParseError{Input: text}
		}
		v.release = append(v.release, n)
	}

	if m[2] != "" {
		switch m[2] {
		case "a", "alpha":
			v.phase = phaseAlpha
		case "b", "beta":
			v.phase = phaseBeta
		default: // c, rc, pre, preview
			v.phase = phaseRC
		}
		if m[3] != "" {
			v.preNum, _ = strconv.Atoi(m[3])
		}
	}

	if m[4] != "" {
		v.post = 0
		if m[5] != "" {
			v.post, _ = strconv.Atoi(m[5])
		}
	}

	v.local = m[6]
	return v, nil
}

// MustParse is Parse that panics on error, for literals in tests and tables.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// FromRelease builds a plain release version from numeric segments.
// Used by constraint evaluation to synthesize range bounds.
func FromRelease(segments ...int) Version {
	rel := make([]int, len(segments))
	copy(rel, segments)
	return Version{release: rel, phase: phaseFinal, post: -1}
}

// Release returns a copy of the numeric release segments.
func (v Version) Release() []int {
	out := make([]int, len(v.release))
	copy(out, v.release)
	return out
}

// IsPreRelease reports whether v carries a pre-release marker.
func (v Version) IsPreRelease() bool { return v.phase != phaseFinal }

// Truncate returns a plain release version holding the first n segments of v.
// If n exceeds the segment count the full release is kept.
func (v Version) Truncate(n int) Version {
	if n > len(v.release) {
		n = len(v.release)
	}
	return FromRelease(v.release[:n]...)
}

// Bump returns a plain release version with the last release segment
// incremented, e.g. 1.4 -> 1.5. This is the upper-bound adjacency used by
// compatible-release and wildcard constraints.
func (v Version) Bump() Version {
	rel := v.Release()
	if len(rel) == 0 {
		return FromRelease(1)
	}
	rel[len(rel)-1]++
	return FromRelease(rel...)
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater
// than b.
func Compare(a, b Version) int {
	n := len(a.release)
	if len(b.release) > n {
		n = len(b.release)
	}
	for i := 0; i < n; i++ {
		as, bs := 0, 0
		if i < len(a.release) {
			as = a.release[i]
		}
		if i < len(b.release) {
			bs = b.release[i]
		}
		if as != bs {
			if as < bs {
				return -1
			}
			return 1
		}
	}

	if a.phase != b.phase {
		if a.phase < b.phase {
			return -1
		}
		return 1
	}
	if a.phase != phaseFinal && a.preNum != b.preNum {
		if a.preNum < b.preNum {
			return -1
		}
		return 1
	}

	if a.post != b.post {
		if a.post < b.post {
			return -1
		}
		return 1
	}

	// Local build tags order after the bare version and among themselves
	// lexically. Good enough for conflict detection.
	return strings.Compare(a.local, b.local)
}

// Equal reports whether a and b denote the same version, including the
// zero-padding rule (1.0 equals 1.0.0).
func Equal(a, b Version) bool { return Compare(a, b) == 0 }

// String renders a normalized form that Parse accepts.
func (v Version) String() string {
	var sb strings.Builder
	for i, seg := range v.release {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(seg))
	}
	switch v.phase {
	case phaseAlpha:
		fmt.Fprintf(&sb, "a%d", v.preNum)
	case phaseBeta:
		fmt.Fprintf(&sb, "b%d", v.preNum)
	case phaseRC:
		fmt.Fprintf(&sb, "rc%d", v.preNum)
	}
	if v.post >= 0 {
		fmt.Fprintf(&sb, ".post%d", v.post)
	}
	if v.local != "" {
		sb.WriteByte('+')
		sb.WriteString(v.local)
	}
	return sb.String()
}
