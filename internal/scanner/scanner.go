// Package scanner discovers components on disk and feeds their
// declaration files to the analyzer. It owns directory traversal,
// exclusion matching, and unreadable-file handling; the engine only ever
// sees already-read text.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ethanolivertroy/depscan/internal/analyzer"
	"github.com/ethanolivertroy/depscan/internal/models"
	"github.com/ethanolivertroy/depscan/internal/parsers"
)

// Scanner walks configured paths and runs the analysis engine over the
// components it finds.
type Scanner struct {
	config  *models.Config
	parsers []parsers.Parser
	exclude map[string]struct{}
	log     *slog.Logger
}

// New creates a Scanner with the given configuration.
func New(config *models.Config, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	exclude := make(map[string]struct{})
	for _, name := range models.DefaultExclusions() {
		exclude[name] = struct{}{}
	}
	for _, name := range config.Exclude {
		exclude[name] = struct{}{}
	}
	return &Scanner{
		config:  config,
		parsers: parsers.All(),
		exclude: exclude,
		log:     log,
	}
}

// Scan discovers components and analyzes their dependencies.
func (s *Scanner) Scan(ctx context.Context) (*models.ScanResult, error) {
	inputs, err := s.discover()
	if err != nil {
		return nil, err
	}
	s.log.Info("discovered components", "count", len(inputs))

	result, err := analyzer.Analyze(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

// discover finds one component per direct subdirectory of each configured
// path that contains a recognized dependency file. A configured path that
// itself contains dependency files is scanned as a single component.
func (s *Scanner) discover() ([]analyzer.Input, error) {
	var inputs []analyzer.Input
	seen := make(map[string]struct{})

	for _, base := range s.config.Paths {
		info, err := os.Stat(base)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", base, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("not a directory: %s", base)
		}

		if in, ok := s.readComponent(base); ok {
			s.addInput(&inputs, seen, in)
			continue
		}

		entries, err := os.ReadDir(base)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", base, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if _, skip := s.exclude[entry.Name()]; skip {
				continue
			}
			if in, ok := s.readComponent(filepath.Join(base, entry.Name())); ok {
				s.addInput(&inputs, seen, in)
			}
		}
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	return inputs, nil
}

func (s *Scanner) addInput(inputs *[]analyzer.Input, seen map[string]struct{}, in analyzer.Input) {
	if _, dup := seen[in.Name]; dup {
		s.log.Warn("duplicate component name, skipping", "name", in.Name, "path", in.Path)
		return
	}
	seen[in.Name] = struct{}{}
	*inputs = append(*inputs, in)
}

// readComponent reads the recognized dependency files directly inside dir.
// Unreadable files are logged and skipped; they never abort the scan.
func (s *Scanner) readComponent(dir string) (analyzer.Input, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warn("unreadable directory", "path", dir, "error", err)
		return analyzer.Input{}, false
	}

	var files []analyzer.SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !s.recognized(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("unreadable file", "path", path, "error", err)
			continue
		}
		files = append(files, analyzer.SourceFile{Path: path, Content: content})
	}

	if len(files) == 0 {
		return analyzer.Input{}, false
	}
	name := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		name = filepath.Base(abs)
	}
	return analyzer.Input{
		Name:  name,
		Path:  dir,
		Files: files,
	}, true
}

func (s *Scanner) recognized(filename string) bool {
	for _, p := range s.parsers {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}
