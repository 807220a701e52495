package analyzer

import (
	"sort"

	"github.com/ethanolivertroy/depscan/internal/models"
)

// Bucket thresholds for component sizing, matching the report vocabulary:
// "light" components declare 1-3 registry dependencies, "heavy" 10+.
const (
	lightMax = 3
	heavyMin = 10
)

const topPackages = 10

// tally derives usage statistics from the parsed components. Only
// registry-kind requirements count toward totals and buckets; VCS and
// local sources have no comparable version and are reporting-only.
func tally(components []models.Component) models.Statistics {
	var stats models.Statistics

	usage := make(map[string]int)
	specs := make(map[string]map[string]struct{})

	for _, comp := range components {
		n := comp.RegistryCount()
		stats.TotalRequirements += n

		switch {
		case n == 0:
			stats.SelfContained = append(stats.SelfContained, comp.Name)
		case n <= lightMax:
			stats.LightComponents = append(stats.LightComponents, comp.Name)
		case n >= heavyMin:
			stats.HeavyComponents = append(stats.HeavyComponents, comp.Name)
		}

		seen := make(map[string]struct{})
		for _, req := range comp.Requirements {
			if req.SourceKind != models.SourceRegistry {
				continue
			}
			if _, dup := seen[req.Name]; dup {
				continue
			}
			seen[req.Name] = struct{}{}
			usage[req.Name]++

			bydist, ok := specs[req.Name]
			if !ok {
				bydist = make(map[string]struct{})
				specs[req.Name] = bydist
			}
			bydist[req.SpecText()] = struct{}{}
		}
	}

	stats.UniquePackages = len(usage)

	ranked := make([]models.PackageUsage, 0, len(usage))
	for pkg, count := range usage {
		ranked = append(ranked, models.PackageUsage{Package: pkg, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Package < ranked[j].Package
	})
	if len(ranked) > topPackages {
		ranked = ranked[:topPackages]
	}
	stats.MostPopular = ranked

	for pkg, byspec := range specs {
		if len(byspec) < 3 {
			continue
		}
		var list []string
		for spec := range byspec {
			list = append(list, spec)
		}
		sort.Strings(list)
		stats.Fragmented = append(stats.Fragmented, models.FragmentedPackage{
			Package: pkg,
			Specs:   list,
		})
	}
	sort.Slice(stats.Fragmented, func(i, j int) bool {
		return stats.Fragmented[i].Package < stats.Fragmented[j].Package
	})

	return stats
}
