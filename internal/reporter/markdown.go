package reporter

import (
	"fmt"
	"strings"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// MarkdownReporter renders the scan result as a Markdown document.
type MarkdownReporter struct{}

// Report generates Markdown output for the given scan result.
func (r *MarkdownReporter) Report(result *models.ScanResult) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Dependency Scan Report\n\n")
	fmt.Fprintf(&sb, "**Date:** %s\n", result.ScanDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Components Scanned:** %d\n", len(result.Components))
	fmt.Fprintf(&sb, "**Total Dependencies:** %d\n", result.Stats.TotalRequirements)
	fmt.Fprintf(&sb, "**Unique Packages:** %d\n", result.Stats.UniquePackages)
	fmt.Fprintf(&sb, "**Conflicts Found:** %d\n\n", len(result.Conflicts))

	if len(result.Conflicts) > 0 {
		sb.WriteString("## Conflicts\n\n")
		for _, conflict := range result.Conflicts {
			fmt.Fprintf(&sb, "### %s (%s)\n\n", conflict.Package, conflict.Severity)
			if conflict.Description != "" {
				fmt.Fprintf(&sb, "%s\n\n", conflict.Description)
			}
			for _, name := range sortedKeys(conflict.Contributors) {
				fmt.Fprintf(&sb, "- **%s**: `%s`\n", name, conflict.Contributors[name])
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Statistics\n\n")
	stats := result.Stats
	fmt.Fprintf(&sb, "- **Self-Contained Components:** %d\n", len(stats.SelfContained))
	fmt.Fprintf(&sb, "- **Light Components (1-3 deps):** %d\n", len(stats.LightComponents))
	fmt.Fprintf(&sb, "- **Heavy Components (10+ deps):** %d\n\n", len(stats.HeavyComponents))

	if len(stats.MostPopular) > 0 {
		sb.WriteString("### Most Popular Packages\n\n")
		for _, usage := range stats.MostPopular {
			fmt.Fprintf(&sb, "- **%s**: %d components\n", usage.Package, usage.Count)
		}
		sb.WriteString("\n")
	}

	if len(stats.Fragmented) > 0 {
		sb.WriteString("### Fragmented Packages\n\n")
		for _, frag := range stats.Fragmented {
			fmt.Fprintf(&sb, "- **%s**: `%s`\n", frag.Package, strings.Join(frag.Specs, "`, `"))
		}
		sb.WriteString("\n")
	}

	failures := false
	for _, comp := range result.Components {
		for _, failure := range comp.ParseFailures {
			if !failures {
				sb.WriteString("### Parse Failures\n\n")
				failures = true
			}
			fmt.Fprintf(&sb, "- **%s**: `%s` (%s)\n", comp.Name, failure.Raw, failure.Reason)
		}
	}
	if failures {
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}
