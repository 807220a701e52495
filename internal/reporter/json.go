package reporter

import (
	"encoding/json"
	"time"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// JSONReporter outputs the scan result in JSON format.
type JSONReporter struct{}

// jsonOutput represents the JSON output structure.
type jsonOutput struct {
	Summary    jsonSummary     `json:"summary"`
	Conflicts  []jsonConflict  `json:"conflicts"`
	Components []jsonComponent `json:"components"`
	Stats      jsonStats       `json:"statistics"`
}

type jsonSummary struct {
	ScanDate          time.Time `json:"scan_date"`
	ComponentsScanned int       `json:"components_scanned"`
	TotalDependencies int       `json:"total_dependencies"`
	UniquePackages    int       `json:"unique_packages"`
	Conflicts         int       `json:"conflicts"`
	CriticalConflicts int       `json:"critical_conflicts"`
}

type jsonConflict struct {
	Package      string            `json:"package"`
	Severity     string            `json:"severity"`
	Contributors map[string]string `json:"contributors"`
	Description  string            `json:"description,omitempty"`
}

type jsonComponent struct {
	Name          string            `json:"name"`
	Path          string            `json:"path"`
	Requirements  []jsonRequirement `json:"requirements"`
	ParseFailures []jsonFailure     `json:"parse_failures,omitempty"`
	SelfContained bool              `json:"self_contained"`
}

type jsonRequirement struct {
	Name       string   `json:"name"`
	Spec       string   `json:"spec,omitempty"`
	Extras     []string `json:"extras,omitempty"`
	SourceKind string   `json:"source_kind"`
	Marker     string   `json:"marker,omitempty"`
	Line       int      `json:"line,omitempty"`
}

type jsonFailure struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

type jsonStats struct {
	MostPopular     []jsonUsage         `json:"most_popular,omitempty"`
	Fragmented      []jsonFragmented    `json:"fragmented,omitempty"`
	SelfContained   []string            `json:"self_contained,omitempty"`
	LightComponents []string            `json:"light_components,omitempty"`
	HeavyComponents []string            `json:"heavy_components,omitempty"`
	Diagnostics     []string            `json:"diagnostics,omitempty"`
}

type jsonUsage struct {
	Package string `json:"package"`
	Count   int    `json:"count"`
}

type jsonFragmented struct {
	Package string   `json:"package"`
	Specs   []string `json:"specs"`
}

// Report generates JSON output for the given scan result.
func (r *JSONReporter) Report(result *models.ScanResult) ([]byte, error) {
	out := jsonOutput{
		Summary: jsonSummary{
			ScanDate:          result.ScanDate,
			ComponentsScanned: len(result.Components),
			TotalDependencies: result.Stats.TotalRequirements,
			UniquePackages:    result.Stats.UniquePackages,
			Conflicts:         len(result.Conflicts),
			CriticalConflicts: result.CriticalCount(),
		},
		Conflicts:  make([]jsonConflict, 0, len(result.Conflicts)),
		Components: make([]jsonComponent, 0, len(result.Components)),
	}

	for _, conflict := range result.Conflicts {
		out.Conflicts = append(out.Conflicts, jsonConflict{
			Package:      conflict.Package,
			Severity:     string(conflict.Severity),
			Contributors: conflict.Contributors,
			Description:  conflict.Description,
		})
	}

	for _, comp := range result.Components {
		jc := jsonComponent{
			Name:          comp.Name,
			Path:          comp.Path,
			Requirements:  make([]jsonRequirement, 0, len(comp.Requirements)),
			SelfContained: comp.SelfContained(),
		}
		for _, req := range comp.Requirements {
			jc.Requirements = append(jc.Requirements, jsonRequirement{
				Name:       req.Name,
				Spec:       req.SpecText(),
				Extras:     req.Extras,
				SourceKind: string(req.SourceKind),
				Marker:     req.Marker,
				Line:       req.Line,
			})
		}
		for _, failure := range comp.ParseFailures {
			jc.ParseFailures = append(jc.ParseFailures, jsonFailure{
				File:   failure.File,
				Line:   failure.Line,
				Raw:    failure.Raw,
				Reason: failure.Reason,
			})
		}
		out.Components = append(out.Components, jc)
	}

	stats := result.Stats
	out.Stats = jsonStats{
		Fragmented:      make([]jsonFragmented, 0, len(stats.Fragmented)),
		SelfContained:   stats.SelfContained,
		LightComponents: stats.LightComponents,
		HeavyComponents: stats.HeavyComponents,
		Diagnostics:     stats.Diagnostics,
	}
	for _, usage := range stats.MostPopular {
		out.Stats.MostPopular = append(out.Stats.MostPopular, jsonUsage(usage))
	}
	for _, frag := range stats.Fragmented {
		out.Stats.Fragmented = append(out.Stats.Fragmented, jsonFragmented(frag))
	}

	return json.MarshalIndent(out, "", "  ")
}
