// Package conflict decides whether the version constraints several
// components place on one package can be satisfied by a single installed
// version, and classifies the severity when they cannot.
package conflict

import (
	"fmt"
	"sort"

	"github.com/ethanolivertroy/depscan/internal/models"
	"github.com/ethanolivertroy/depscan/internal/pep440"
)

type pairClass int

const (
	classNone pairClass = iota
	classWarning
	classDisjoint
	classPinMismatch
)

// Evaluate inspects the requirements that the given components contribute
// for one package. It returns a ConflictRecord when the combined
// constraints conflict, nil otherwise, plus any diagnostics produced while
// compiling constraint clauses.
//
// Non-registry contributions (VCS references, editable installs, local
// paths) are carried in the record's contributor map but never compared:
// different source kinds do not conflict with each other here. Unversioned
// contributions likewise never conflict — a documented policy choice, not
// an oversight.
func Evaluate(pkg string, contribs map[string]models.Requirement) (*models.ConflictRecord, []string) {
	names := make([]string, 0, len(contribs))
	for name := range contribs {
		names = append(names, name)
	}
	sort.Strings(names)

	contributors := make(map[string]string, len(contribs))
	var sets []*constraintSet
	var diags []string

	for _, name := range names {
		req := contribs[name]
		contributors[name] = contributionText(req)
		if req.SourceKind != models.SourceRegistry || len(req.Constraints) == 0 {
			continue
		}
		cs := compile(name, pkg, req)
		diags = append(diags, cs.diags...)
		if len(cs.clauses) == 0 {
			continue // every clause degraded to any-version
		}
		sets = append(sets, cs)
	}

	worst := classNone
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if c := classifyPair(sets[i], sets[j]); c > worst {
				worst = c
			}
		}
	}

	if worst == classNone {
		return nil, diags
	}

	record := &models.ConflictRecord{
		Package:      pkg,
		Contributors: contributors,
	}
	switch worst {
	case classPinMismatch:
		record.Severity = models.SeverityCritical
		record.Description = fmt.Sprintf("multiple components pin different exact versions of %s", pkg)
	case classDisjoint:
		record.Severity = models.SeverityCritical
		record.Description = fmt.Sprintf("no single version of %s can satisfy all declared constraints", pkg)
	default:
		record.Severity = models.SeverityWarning
		record.Description = fmt.Sprintf("components declare different version requirements for %s", pkg)
	}
	return record, diags
}

func contributionText(req models.Requirement) string {
	switch req.SourceKind {
	case models.SourceRegistry:
		if spec := req.SpecText(); spec != "" {
			return spec
		}
		return "(any version)"
	case models.SourceVCS:
		return "(vcs reference)"
	case models.SourceLocalEditable:
		return "(local editable)"
	default:
		return "(local path)"
	}
}

// classifyPair applies the pairwise rules in severity order: identical
// normalized constraints never conflict, differing exact pins and pins
// outside the other side's range are critical, disjoint ranges are
// critical, and everything else that differs is a warning.
func classifyPair(a, b *constraintSet) pairClass {
	if a.normalized == b.normalized {
		return classNone
	}

	if a.exact != nil && b.exact != nil {
		if pep440.Compare(*a.exact, *b.exact) != 0 {
			return classPinMismatch
		}
		// Same version spelled differently, e.g. ==1.0 vs ==1.0.0.
		return classNone
	}

	if a.exact != nil {
		if !b.satisfies(*a.exact) {
			return classDisjoint
		}
		return classWarning
	}
	if b.exact != nil {
		if !a.satisfies(*b.exact) {
			return classDisjoint
		}
		return classWarning
	}

	if disjoint(a, b) {
		return classDisjoint
	}
	return classWarning
}
