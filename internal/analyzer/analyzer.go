// Package analyzer is the engine's aggregation layer: it parses each
// component's declaration files, groups requirements by package, runs the
// conflict reasoner over every group, and derives usage statistics.
//
// The engine is a pure function of the text it is given. Discovery hands
// in already-read file contents; reporting consumes the plain-data result.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ethanolivertroy/depscan/internal/conflict"
	"github.com/ethanolivertroy/depscan/internal/models"
	"github.com/ethanolivertroy/depscan/internal/parsers"
)

// ErrNoInput is returned when the discovery collaborator hands the engine
// nothing to analyze. This is a usage error, not a data-quality issue.
var ErrNoInput = errors.New("analyzer: no components to analyze")

// SourceFile is one already-read declaration file.
type SourceFile struct {
	Path    string
	Content []byte
}

// Input is one component's name and declaration files, as produced by the
// discovery layer.
type Input struct {
	Name  string
	Path  string
	Files []SourceFile
}

// Analyze runs the full pass: parse, group, reason, tally. Components are
// parsed in parallel (each worker touches only its own component) and
// per-package groups are reasoned about in parallel after the parse
// barrier. Output ordering is deterministic.
func Analyze(ctx context.Context, inputs []Input) (*models.ScanResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	components := make([]models.Component, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			components[i] = parseComponent(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})

	groups, diags := group(components)
	conflicts, reasonDiags, err := evaluateGroups(ctx, groups)
	if err != nil {
		return nil, err
	}
	diags = append(diags, reasonDiags...)

	stats := tally(components)
	stats.Diagnostics = diags

	return &models.ScanResult{
		ScanDate:   time.Now(),
		Components: components,
		Conflicts:  conflicts,
		Stats:      stats,
	}, nil
}

// parseComponent parses all of one component's files with whichever
// parsers recognize them. Failures stay attached to the component.
func parseComponent(in Input) models.Component {
	comp := models.Component{Name: in.Name, Path: in.Path}

	for _, file := range in.Files {
		base := filepath.Base(file.Path)
		for _, p := range parsers.All() {
			if !p.CanParse(base) {
				continue
			}
			switch base {
			case "pyproject.toml":
				comp.HasPyproject = true
			case "setup.py":
				comp.HasSetupPy = true
			default:
				comp.HasRequirementsTxt = true
			}

			reqs, failures, err := p.Parse(file.Path, file.Content)
			if err != nil {
				comp.ParseFailures = append(comp.ParseFailures, models.ParseFailure{
					File:   file.Path,
					Reason: err.Error(),
				})
				break
			}
			comp.Requirements = append(comp.Requirements, reqs...)
			comp.ParseFailures = append(comp.ParseFailures, failures...)
			break
		}
	}

	return comp
}

// group collects each package's contributions across components. A
// component declaring the same package twice keeps the first occurrence;
// the duplicate is recorded as a diagnostic.
func group(components []models.Component) (map[string]map[string]models.Requirement, []string) {
	groups := make(map[string]map[string]models.Requirement)
	var diags []string

	for _, comp := range components {
		for _, req := range comp.Requirements {
			byComponent, ok := groups[req.Name]
			if !ok {
				byComponent = make(map[string]models.Requirement)
				groups[req.Name] = byComponent
			}
			if _, dup := byComponent[comp.Name]; dup {
				diags = append(diags, fmt.Sprintf(
					"%s declares %s more than once, keeping the first occurrence",
					comp.Name, req.Name))
				continue
			}
			byComponent[comp.Name] = req
		}
	}

	return groups, diags
}

// evaluateGroups runs the reasoner over every group with at least two
// contributors. Groups are independent, so they are evaluated in parallel;
// the shared conflict list is appended under a mutex.
func evaluateGroups(ctx context.Context, groups map[string]map[string]models.Requirement) ([]models.ConflictRecord, []string, error) {
	var mu sync.Mutex
	var conflicts []models.ConflictRecord
	var diags []string

	g, ctx := errgroup.WithContext(ctx)
	for pkg, contribs := range groups {
		if len(contribs) < 2 {
			continue // a single contributor can never conflict
		}
		pkg, contribs := pkg, contribs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, recordDiags := conflict.Evaluate(pkg, contribs)
			mu.Lock()
			defer mu.Unlock()
			if record != nil {
				conflicts = append(conflicts, *record)
			}
			diags = append(diags, recordDiags...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Package < conflicts[j].Package
	})
	sort.Strings(diags)
	return conflicts, diags, nil
}
