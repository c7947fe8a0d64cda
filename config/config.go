// Package config loads skillreview configuration from a file, environment
// variables, and defaults, validates the merged settings against an
// embedded JSON schema, and resolves them into ready-to-use triggers and
// execution knobs.
package config

import (
	"fmt"
	"strings"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/patch"
)

// Config is the fully resolved configuration. Defaults are applied and
// size strings parsed during Load, so consumers never re-check
// optionality.
type Config struct {
	Concurrency  int    // files analyzed in parallel
	MaxRetries   int    // analyzer attempts per unit
	MaxTokens    int    // per-call response budget, 0 leaves it to the analyzer
	MaxGapLines  int    // largest unchanged gap bridged when coalescing
	MaxChunkSize int    // largest merged chunk, in bytes
	ContextLines int    // unchanged lines attached around each hunk
	Model        string // default analyzer model, "" leaves it to the analyzer
	SkillsDir    string // local skill directories, one SKILL.md each
	HistoryPath  string // JSONL run history, "" disables
	CacheDir     string // remote skill cache

	Modes    []skillreview.ModePattern // per-file mode overrides, first match wins
	Triggers []skillreview.Trigger
}

// PrepareOptions returns the unit preparation options the configuration
// selects.
func (c *Config) PrepareOptions() patch.Options {
	return patch.Options{
		MaxGapLines:  c.MaxGapLines,
		MaxChunkSize: c.MaxChunkSize,
		ContextLines: c.ContextLines,
		Modes:        c.Modes,
	}
}

// ValidationError collects every schema violation found in the loaded
// settings, one "field: description" line each.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "invalid configuration: " + e.Violations[0]
	}
	return fmt.Sprintf("invalid configuration:\n  %s", strings.Join(e.Violations, "\n  "))
}
