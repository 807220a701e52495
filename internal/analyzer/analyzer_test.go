package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/depscan/internal/models"
)

func input(name string, requirements string) Input {
	return Input{
		Name: name,
		Path: "testdata/" + name,
		Files: []SourceFile{
			{Path: "testdata/" + name + "/requirements.txt", Content: []byte(requirements)},
		},
	}
}

func TestAnalyzeNoInput(t *testing.T) {
	_, err := Analyze(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestAnalyzeDetectsConflicts(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("tool-a", "requests==1.0.0\nflask>=2.0\n"),
		input("tool-b", "requests==2.0.0\nflask>=2.1\n"),
	})
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 2)
	// Sorted by package name: flask, then requests.
	assert.Equal(t, "flask", result.Conflicts[0].Package)
	assert.Equal(t, models.SeverityWarning, result.Conflicts[0].Severity)
	assert.Equal(t, "requests", result.Conflicts[1].Package)
	assert.Equal(t, models.SeverityCritical, result.Conflicts[1].Severity)
}

func TestAnalyzeSingleContributorNeverConflicts(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("tool-a", "requests==1.0.0\n"),
		input("tool-b", "flask==2.0.0\n"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
}

func TestAnalyzeDuplicateContribution(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("tool-a", "requests==1.0.0\nrequests==2.0.0\n"),
		input("tool-b", "requests==1.0.0\n"),
	})
	require.NoError(t, err)

	// First occurrence wins: both components agree on ==1.0.0.
	assert.Empty(t, result.Conflicts)
	require.NotEmpty(t, result.Stats.Diagnostics)
	assert.Contains(t, result.Stats.Diagnostics[0], "tool-a")
	assert.Contains(t, result.Stats.Diagnostics[0], "requests")
}

func TestAnalyzeMalformedLinesDegradeGracefully(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("tool-a", "!!!not-a-requirement\nrequests==1.0.0\n"),
		input("tool-b", "requests==2.0.0\n"),
	})
	require.NoError(t, err)

	require.Len(t, result.Components, 2)
	a := result.Components[0]
	require.Equal(t, "tool-a", a.Name)
	require.Len(t, a.ParseFailures, 1)
	require.Len(t, a.Requirements, 1)

	// The valid lines still aggregate and conflict.
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.SeverityCritical, result.Conflicts[0].Severity)
}

func TestAnalyzeStatistics(t *testing.T) {
	heavy := ""
	for _, name := range []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"} {
		heavy += name + "==1.0\n"
	}

	result, err := Analyze(context.Background(), []Input{
		input("empty", "# nothing but comments\n"),
		input("light", "requests==1.0\nflask==2.0\n"),
		input("heavy", heavy),
		input("also-light", "requests==1.0\n"),
	})
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, 13, stats.TotalRequirements)
	assert.Equal(t, 12, stats.UniquePackages)
	assert.Equal(t, []string{"empty"}, stats.SelfContained)
	assert.ElementsMatch(t, []string{"light", "also-light"}, stats.LightComponents)
	assert.Equal(t, []string{"heavy"}, stats.HeavyComponents)

	// requests has two contributors and ranks first; ties go by name.
	require.NotEmpty(t, stats.MostPopular)
	assert.Equal(t, models.PackageUsage{Package: "requests", Count: 2}, stats.MostPopular[0])
	assert.Equal(t, 1, stats.MostPopular[1].Count)
}

func TestAnalyzeFragmentedPackages(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("a", "requests==1.0\n"),
		input("b", "requests==2.0\n"),
		input("c", "requests>=1.0\n"),
	})
	require.NoError(t, err)

	require.Len(t, result.Stats.Fragmented, 1)
	frag := result.Stats.Fragmented[0]
	assert.Equal(t, "requests", frag.Package)
	assert.Len(t, frag.Specs, 3)
}

func TestAnalyzeComponentsSorted(t *testing.T) {
	result, err := Analyze(context.Background(), []Input{
		input("zebra", "requests==1.0\n"),
		input("alpha", "requests==1.0\n"),
	})
	require.NoError(t, err)

	require.Len(t, result.Components, 2)
	assert.Equal(t, "alpha", result.Components[0].Name)
	assert.Equal(t, "zebra", result.Components[1].Name)
}

func TestAnalyzeMixedFileKinds(t *testing.T) {
	in := Input{
		Name: "mixed",
		Path: "testdata/mixed",
		Files: []SourceFile{
			{Path: "testdata/mixed/requirements.txt", Content: []byte("requests>=2.0\n")},
			{Path: "testdata/mixed/setup.py", Content: []byte(`setup(install_requires=["click>=8.0"])`)},
		},
	}

	result, err := Analyze(context.Background(), []Input{in, input("other", "requests>=2.0\n")})
	require.NoError(t, err)

	var mixed models.Component
	for _, comp := range result.Components {
		if comp.Name == "mixed" {
			mixed = comp
		}
	}
	assert.True(t, mixed.HasRequirementsTxt)
	assert.True(t, mixed.HasSetupPy)
	require.Len(t, mixed.Requirements, 2)

	// Identical specs from both components produce no conflict.
	assert.Empty(t, result.Conflicts)
}
