package parsers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethanolivertroy/depscan/internal/models"
)

// PyProjectParser parses pyproject.toml files.
type PyProjectParser struct{}

// CanParse returns true for pyproject.toml files.
func (p *PyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// pyproject represents the parts of pyproject.toml we read.
type pyproject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts requirements from pyproject.toml content. PEP 621 entries
// are ordinary requirement lines and go through ParseLine; Poetry version
// strings are translated into equivalent constraint clauses first.
func (p *PyProjectParser) Parse(path string, content []byte) ([]models.Requirement, []models.ParseFailure, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var reqs []models.Requirement
	var failures []models.ParseFailure

	for _, dep := range proj.Project.Dependencies {
		req, skip, err := ParseLine(dep, 0)
		if err != nil {
			failures = append(failures, models.ParseFailure{
				File:   path,
				Raw:    dep,
				Reason: "invalid project dependency",
			})
			continue
		}
		if !skip {
			reqs = append(reqs, req)
		}
	}

	// Map iteration order is random; sort for deterministic output.
	names := make([]string, 0, len(proj.Tool.Poetry.Dependencies))
	for name := range proj.Tool.Poetry.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "python" {
			continue
		}
		spec := poetrySpec(proj.Tool.Poetry.Dependencies[name])
		constraints, err := poetryConstraints(spec)
		if err != nil {
			failures = append(failures, models.ParseFailure{
				File:   path,
				Raw:    name + " = " + spec,
				Reason: "invalid poetry version spec",
			})
			continue
		}
		reqs = append(reqs, models.Requirement{
			Name:        models.NormalizeName(name),
			DisplayName: name,
			Constraints: constraints,
			SourceKind:  models.SourceRegistry,
			Raw:         name + " = " + spec,
		})
	}

	return reqs, failures, nil
}

// poetrySpec pulls the version string out of a poetry dependency value,
// which is either a plain string or a table with a "version" key.
func poetrySpec(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case map[string]interface{}:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
	}
	return ""
}

// poetryConstraints translates a poetry version spec into constraint
// clauses: "^1.2.3" becomes >=1.2.3,<2.0.0; "~1.2.3" is the
// compatible-release form; a bare version is an exact pin.
func poetryConstraints(spec string) ([]models.Constraint, error) {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "" || spec == "*":
		return nil, nil
	case strings.HasPrefix(spec, "^"):
		version := strings.TrimPrefix(spec, "^")
		upper, err := caretUpper(version)
		if err != nil {
			return nil, err
		}
		return []models.Constraint{
			{Op: ">=", Version: version},
			{Op: "<", Version: upper},
		}, nil
	case strings.HasPrefix(spec, "~"):
		return []models.Constraint{{Op: "~=", Version: strings.TrimPrefix(spec, "~")}}, nil
	}

	if strings.IndexAny(spec, "<>=!~") >= 0 {
		return parseConstraints(spec)
	}
	if !validVersionText(spec) {
		return nil, fmt.Errorf("malformed version %q", spec)
	}
	return []models.Constraint{{Op: "==", Version: spec}}, nil
}

// caretUpper computes the exclusive upper bound of a caret requirement:
// the next release of the leftmost non-zero segment.
func caretUpper(version string) (string, error) {
	segs := strings.Split(version, ".")
	nums := make([]int, 0, len(segs))
	for _, s := range segs {
		n := 0
		for _, r := range s {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("malformed version %q", version)
			}
			n = n*10 + int(r-'0')
		}
		nums = append(nums, n)
	}
	pivot := 0
	for i, n := range nums {
		if n != 0 {
			pivot = i
			break
		}
	}
	out := make([]string, pivot+1)
	for i := 0; i < pivot; i++ {
		out[i] = "0"
	}
	out[pivot] = fmt.Sprintf("%d", nums[pivot]+1)
	return strings.Join(out, "."), nil
}
