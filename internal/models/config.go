package models

// Config holds configuration for a scan. Viper fills it from the config
// file and environment; cobra flags override.
type Config struct {
	// Paths are directories whose direct subdirectories are scanned as
	// components.
	Paths []string `mapstructure:"paths"`

	// Exclude lists directory names skipped during discovery, in
	// addition to the built-in defaults.
	Exclude []string `mapstructure:"exclude"`

	// Output settings
	OutputFormat string `mapstructure:"format"` // "text", "json", "markdown"
	OutputFile   string `mapstructure:"output"` // optional output file path

	// FailOnConflict controls the exit code: 2 on critical conflicts,
	// 1 on warnings. When false the command always exits 0.
	FailOnConflict bool `mapstructure:"fail_on_conflict"`

	Verbose bool `mapstructure:"verbose"`
}

// DefaultExclusions are directory names never treated as components or
// descended into.
func DefaultExclusions() []string {
	return []string{".git", "node_modules", "__pycache__", "venv", ".venv", "vendor"}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths:          []string{"."},
		OutputFormat:   "text",
		FailOnConflict: true,
	}
}
