package scanner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/depscan/internal/models"
)

func writeComponent(t *testing.T, base, name, filename, content string) {
	t.Helper()
	dir := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanDiscoversSubdirectories(t *testing.T) {
	base := t.TempDir()
	writeComponent(t, base, "tool-a", "requirements.txt", "requests==1.0.0\n")
	writeComponent(t, base, "tool-b", "requirements.txt", "requests==2.0.0\n")
	writeComponent(t, base, "no-deps", "README.md", "not a dependency file\n")

	s := New(&models.Config{Paths: []string{base}}, discardLogger())
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 2)
	assert.Equal(t, "tool-a", result.Components[0].Name)
	assert.Equal(t, "tool-b", result.Components[1].Name)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "requests", result.Conflicts[0].Package)
	assert.Equal(t, models.SeverityCritical, result.Conflicts[0].Severity)
}

func TestScanHonorsExclusions(t *testing.T) {
	base := t.TempDir()
	writeComponent(t, base, "tool-a", "requirements.txt", "requests==1.0.0\n")
	writeComponent(t, base, ".venv", "requirements.txt", "requests==2.0.0\n")
	writeComponent(t, base, "build", "requirements.txt", "requests==3.0.0\n")

	s := New(&models.Config{Paths: []string{base}, Exclude: []string{"build"}}, discardLogger())
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "tool-a", result.Components[0].Name)
}

func TestScanSingleComponentPath(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "solo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask>=2.0\n"), 0o644))

	s := New(&models.Config{Paths: []string{dir}}, discardLogger())
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "solo", result.Components[0].Name)
	require.Len(t, result.Components[0].Requirements, 1)
}

func TestScanMissingPath(t *testing.T) {
	s := New(&models.Config{Paths: []string{"/does/not/exist"}}, discardLogger())
	_, err := s.Scan(context.Background())
	require.Error(t, err)
}

func TestScanEmptyBase(t *testing.T) {
	s := New(&models.Config{Paths: []string{t.TempDir()}}, discardLogger())
	_, err := s.Scan(context.Background())
	require.Error(t, err) // nothing to analyze is a caller-visible failure
}

func TestScanMultipleFilesPerComponent(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "combo")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("requests>=2.0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.py"), []byte(`setup(install_requires=["click>=8.0"])`), 0o644))

	s := New(&models.Config{Paths: []string{base}}, discardLogger())
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	comp := result.Components[0]
	assert.True(t, comp.HasRequirementsTxt)
	assert.True(t, comp.HasSetupPy)
	assert.Len(t, comp.Requirements, 2)
}
