package reporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// TextReporter renders a plain-text report.
type TextReporter struct{}

// Report renders the result as human-readable text.
func (r *TextReporter) Report(result *models.ScanResult) ([]byte, error) {
	var sb strings.Builder
	rule := strings.Repeat("=", 70)

	sb.WriteString(rule + "\n")
	sb.WriteString("DEPENDENCY SCAN REPORT\n")
	sb.WriteString(rule + "\n\n")

	fmt.Fprintf(&sb, "Date: %s\n", result.ScanDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Components Scanned: %d\n", len(result.Components))
	fmt.Fprintf(&sb, "Total Dependencies: %d\n", result.Stats.TotalRequirements)
	fmt.Fprintf(&sb, "Unique Packages: %d\n", result.Stats.UniquePackages)
	fmt.Fprintf(&sb, "Conflicts Found: %d\n\n", len(result.Conflicts))

	if len(result.Conflicts) > 0 {
		sb.WriteString(rule + "\n")
		sb.WriteString("CONFLICTS\n")
		sb.WriteString(rule + "\n\n")

		for _, conflict := range result.Conflicts {
			prefix := statusWarning
			if conflict.Severity == models.SeverityCritical {
				prefix = statusError
			}
			fmt.Fprintf(&sb, "%s %s (%s)\n", prefix, conflict.Package, conflict.Severity)
			for _, name := range sortedKeys(conflict.Contributors) {
				fmt.Fprintf(&sb, "  - %s: %s\n", name, conflict.Contributors[name])
			}
			if conflict.Description != "" {
				fmt.Fprintf(&sb, "  %s\n", conflict.Description)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(rule + "\n")
	sb.WriteString("STATISTICS\n")
	sb.WriteString(rule + "\n\n")

	stats := result.Stats
	fmt.Fprintf(&sb, "Self-Contained Components: %d\n", len(stats.SelfContained))
	fmt.Fprintf(&sb, "Light Components (1-3 deps): %d\n", len(stats.LightComponents))
	fmt.Fprintf(&sb, "Heavy Components (10+ deps): %d\n\n", len(stats.HeavyComponents))

	if len(stats.MostPopular) > 0 {
		sb.WriteString("Most Popular Packages:\n")
		for _, usage := range stats.MostPopular {
			fmt.Fprintf(&sb, "  %3dx  %s\n", usage.Count, usage.Package)
		}
		sb.WriteString("\n")
	}

	if len(stats.Fragmented) > 0 {
		sb.WriteString("Fragmented Packages (3+ distinct specs):\n")
		for _, frag := range stats.Fragmented {
			fmt.Fprintf(&sb, "  %s: %s\n", frag.Package, strings.Join(frag.Specs, " | "))
		}
		sb.WriteString("\n")
	}

	writeFailures(&sb, result.Components)

	if len(stats.Diagnostics) > 0 {
		sb.WriteString("Diagnostics:\n")
		for _, d := range stats.Diagnostics {
			fmt.Fprintf(&sb, "  %s %s\n", statusInfo, d)
		}
		sb.WriteString("\n")
	}

	if len(result.Conflicts) == 0 {
		fmt.Fprintf(&sb, "%s No conflicts found\n", statusOK)
	}

	return []byte(sb.String()), nil
}

func writeFailures(sb *strings.Builder, components []models.Component) {
	any := false
	for _, comp := range components {
		for _, failure := range comp.ParseFailures {
			if !any {
				sb.WriteString("Parse Failures:\n")
				any = true
			}
			fmt.Fprintf(sb, "  %s %s: %s (%s)\n", statusError, comp.Name, failure.Raw, failure.Reason)
		}
	}
	if any {
		sb.WriteString("\n")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
