package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethanolivertroy/depscan/internal/models"
	"github.com/ethanolivertroy/depscan/internal/pep440"
)

// clause is one compiled constraint. Wildcard and compatible-release
// clauses are expanded to lower/upper bound pairs at compile time so the
// reasoner only ever deals with pins, intervals, and exclusions.
type clause struct {
	op  string
	raw models.Constraint

	exact *pep440.Version // ==v pin

	lower    *pep440.Version
	lowerInc bool
	upper    *pep440.Version
	upperInc bool

	notEqual *pep440.Version // !=v
	// notRange marks a wildcard exclusion: != x.y.* excludes [lower, upper).
	notRange bool
}

// constraintSet is a component's full compiled constraint list for one
// package, with the merged interval the clauses imply.
type constraintSet struct {
	component string
	clauses   []clause

	// Effective interval: nil bound means unbounded on that side.
	lower    *pep440.Version
	lowerInc bool
	upper    *pep440.Version
	upperInc bool

	exact *pep440.Version

	normalized string
	diags      []string
}

// compile turns a requirement's constraints into a constraintSet. A clause
// whose version text cannot be parsed is dropped with a diagnostic: that
// clause restricts nothing, the rest of the set still applies.
func compile(component, pkg string, req models.Requirement) *constraintSet {
	cs := &constraintSet{component: component}

	for _, c := range req.Constraints {
		cl, err := compileClause(c)
		if err != nil {
			cs.diags = append(cs.diags, fmt.Sprintf(
				"%s: unparsable version in %q for %s, clause treated as any version",
				component, c.String(), pkg))
			continue
		}
		cs.clauses = append(cs.clauses, cl)
		cs.merge(cl)
	}

	cs.normalized = normalizeSpec(cs.clauses)
	return cs
}

func compileClause(c models.Constraint) (clause, error) {
	cl := clause{op: c.Op, raw: c}

	if prefix, ok := wildcardPrefix(c.Version); ok {
		if c.Op != "==" && c.Op != "!=" {
			return clause{}, fmt.Errorf("wildcard with operator %q", c.Op)
		}
		if c.Op == "!=" {
			cl.notRange = true
		}
		if len(prefix) == 0 {
			// Bare "*" has nothing to bound: "==*" admits every version,
			// and "!=*" keeps an unbounded exclusion interval so it
			// admits none.
			return cl, nil
		}
		lo := pep440.FromRelease(prefix...)
		hi := lo.Bump()
		cl.lower, cl.lowerInc = &lo, true
		cl.upper, cl.upperInc = &hi, false
		return cl, nil
	}

	v, err := pep440.Parse(c.Version)
	if err != nil {
		return clause{}, err
	}

	switch c.Op {
	case "==":
		cl.exact = &v
		cl.lower, cl.lowerInc = &v, true
		cl.upper, cl.upperInc = &v, true
	case "!=":
		cl.notEqual = &v
	case ">=":
		cl.lower, cl.lowerInc = &v, true
	case ">":
		cl.lower, cl.lowerInc = &v, false
	case "<=":
		cl.upper, cl.upperInc = &v, true
	case "<":
		cl.upper, cl.upperInc = &v, false
	case "~=":
		// ~=1.4.2 means >=1.4.2, <1.5.0: the upper bound is the next
		// release of the second-most-significant segment.
		cl.lower, cl.lowerInc = &v, true
		hi := compatibleUpper(v)
		cl.upper, cl.upperInc = &hi, false
	default:
		return clause{}, fmt.Errorf("unknown operator %q", c.Op)
	}
	return cl, nil
}

func compatibleUpper(v pep440.Version) pep440.Version {
	rel := v.Release()
	if len(rel) < 2 {
		return v.Bump()
	}
	return v.Truncate(len(rel) - 1).Bump()
}

// wildcardPrefix returns the numeric segments before a trailing ".*",
// e.g. "1.4.*" -> [1 4]. A bare "*" has an empty prefix and matches all.
func wildcardPrefix(version string) ([]int, bool) {
	if !strings.Contains(version, "*") {
		return nil, false
	}
	if version == "*" {
		return nil, true
	}
	trimmed := strings.TrimSuffix(version, ".*")
	if strings.Contains(trimmed, "*") {
		return nil, false
	}
	v, err := pep440.Parse(trimmed)
	if err != nil {
		return nil, false
	}
	return v.Release(), true
}

// merge narrows the set's effective interval with one clause's bounds.
func (cs *constraintSet) merge(cl clause) {
	if cl.exact != nil {
		cs.exact = cl.exact
	}
	if cl.notEqual != nil || cl.notRange {
		return // exclusions don't move the interval
	}
	if cl.lower != nil {
		if cs.lower == nil || pep440.Compare(*cl.lower, *cs.lower) > 0 {
			cs.lower, cs.lowerInc = cl.lower, cl.lowerInc
		} else if pep440.Compare(*cl.lower, *cs.lower) == 0 && !cl.lowerInc {
			cs.lowerInc = false
		}
	}
	if cl.upper != nil {
		if cs.upper == nil || pep440.Compare(*cl.upper, *cs.upper) < 0 {
			cs.upper, cs.upperInc = cl.upper, cl.upperInc
		} else if pep440.Compare(*cl.upper, *cs.upper) == 0 && !cl.upperInc {
			cs.upperInc = false
		}
	}
}

// satisfies reports whether a version passes every clause in the set.
func (cs *constraintSet) satisfies(v pep440.Version) bool {
	for _, cl := range cs.clauses {
		if !cl.satisfies(v) {
			return false
		}
	}
	return true
}

func (cl clause) satisfies(v pep440.Version) bool {
	if cl.notEqual != nil {
		return pep440.Compare(v, *cl.notEqual) != 0
	}
	if cl.notRange {
		return !inInterval(v, cl.lower, cl.lowerInc, cl.upper, cl.upperInc)
	}
	if cl.exact != nil {
		return pep440.Compare(v, *cl.exact) == 0
	}
	return inInterval(v, cl.lower, cl.lowerInc, cl.upper, cl.upperInc)
}

func inInterval(v pep440.Version, lower *pep440.Version, lowerInc bool, upper *pep440.Version, upperInc bool) bool {
	if lower != nil {
		cmp := pep440.Compare(v, *lower)
		if cmp < 0 || (cmp == 0 && !lowerInc) {
			return false
		}
	}
	if upper != nil {
		cmp := pep440.Compare(v, *upper)
		if cmp > 0 || (cmp == 0 && !upperInc) {
			return false
		}
	}
	return true
}

// disjoint reports whether two effective intervals cannot overlap.
func disjoint(a, b *constraintSet) bool {
	lower, lowerInc := a.lower, a.lowerInc
	if b.lower != nil && (lower == nil || pep440.Compare(*b.lower, *lower) > 0) {
		lower, lowerInc = b.lower, b.lowerInc
	} else if lower != nil && b.lower != nil && pep440.Compare(*b.lower, *lower) == 0 && !b.lowerInc {
		lowerInc = false
	}

	upper, upperInc := a.upper, a.upperInc
	if b.upper != nil && (upper == nil || pep440.Compare(*b.upper, *upper) < 0) {
		upper, upperInc = b.upper, b.upperInc
	} else if upper != nil && b.upper != nil && pep440.Compare(*b.upper, *upper) == 0 && !b.upperInc {
		upperInc = false
	}

	if lower == nil || upper == nil {
		return false
	}
	cmp := pep440.Compare(*lower, *upper)
	if cmp > 0 {
		return true
	}
	return cmp == 0 && !(lowerInc && upperInc)
}

// normalizeSpec renders a canonical, order-independent form of the
// compiled clauses so textually different but equivalent specs compare
// equal (e.g. ">=1.0 ,<2.0" and ">=1.0,<2.0").
func normalizeSpec(clauses []clause) string {
	parts := make([]string, 0, len(clauses))
	for _, cl := range clauses {
		version := cl.raw.Version
		if !strings.Contains(version, "*") {
			if v, err := pep440.Parse(version); err == nil {
				version = v.String()
			}
		}
		parts = append(parts, cl.op+version)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
