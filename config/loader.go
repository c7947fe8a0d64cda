package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/fs"
	"github.com/fwojciec/skillreview/patch"
	"github.com/fwojciec/skillreview/runner"
)

// configName is the config file name without extension. The format is
// inferred from the extension found (.skillreview.yaml, .toml, .json).
const configName = ".skillreview"

// envPrefix prefixes environment overrides: SKILLREVIEW_MODEL,
// SKILLREVIEW_CONCURRENCY, and so on.
const envPrefix = "SKILLREVIEW"

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidSize indicates a byte-size string that could not be parsed.
var ErrInvalidSize = errors.New("invalid size")

// rawMode is the file form of a mode override.
type rawMode struct {
	Pattern string `mapstructure:"pattern"`
	Mode    string `mapstructure:"mode"`
}

// rawTrigger is the file form of a trigger.
type rawTrigger struct {
	Name        string   `mapstructure:"name"`
	Event       string   `mapstructure:"event"`
	Actions     []string `mapstructure:"actions"`
	Paths       []string `mapstructure:"paths"`
	IgnorePaths []string `mapstructure:"ignore_paths"`
	FailOn      string   `mapstructure:"fail_on"`
	CommentOn   string   `mapstructure:"comment_on"`
	MaxFindings int      `mapstructure:"max_findings"`
	Model       string   `mapstructure:"model"`
	SkillRef    string   `mapstructure:"skill_ref"`
}

// Load reads configuration from path, or searches for .skillreview.* in
// the working directory and $HOME when path is empty. Environment
// variables prefixed SKILLREVIEW_ override file values. A missing config
// file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := validateSettings(v.AllSettings()); err != nil {
		return nil, err
	}

	return resolve(v)
}

// applyDefaults registers a default for every setting so the resolved
// configuration is complete even without a config file.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", runner.DefaultConcurrency)
	v.SetDefault("max_retries", runner.DefaultMaxRetries)
	v.SetDefault("max_tokens", 0)
	v.SetDefault("max_gap_lines", patch.DefaultMaxGapLines)
	v.SetDefault("max_chunk_size", "16KiB")
	v.SetDefault("context_lines", patch.DefaultContextLines)
	v.SetDefault("model", "")
	v.SetDefault("skills_dir", ".skills")
	v.SetDefault("history_path", "")
	v.SetDefault("cache_dir", "")
}

// validateSettings checks the merged settings against the embedded JSON
// schema. Integer settings also accept digit strings; environment values
// always arrive as strings.
func validateSettings(settings map[string]any) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, re := range result.Errors() {
		verr.Violations = append(verr.Violations, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return verr
}

// resolve turns validated settings into a Config.
func resolve(v *viper.Viper) (*Config, error) {
	chunkSize, err := parseSize(v.GetString("max_chunk_size"))
	if err != nil {
		return nil, fmt.Errorf("max_chunk_size: %w", err)
	}

	cacheDir := v.GetString("cache_dir")
	if cacheDir == "" {
		cacheDir = fs.DefaultCacheDir()
	}

	var rawModes []rawMode
	if err := v.UnmarshalKey("modes", &rawModes); err != nil {
		return nil, fmt.Errorf("modes: %w", err)
	}
	var modes []skillreview.ModePattern
	for _, m := range rawModes {
		mode, err := parseMode(m.Mode)
		if err != nil {
			return nil, fmt.Errorf("mode for %q: %w", m.Pattern, err)
		}
		modes = append(modes, skillreview.ModePattern{Pattern: m.Pattern, Mode: mode})
	}

	var rawTriggers []rawTrigger
	if err := v.UnmarshalKey("triggers", &rawTriggers); err != nil {
		return nil, fmt.Errorf("triggers: %w", err)
	}
	var triggers []skillreview.Trigger
	for _, t := range rawTriggers {
		triggers = append(triggers, skillreview.Trigger{
			Name:        t.Name,
			Event:       t.Event,
			Actions:     t.Actions,
			Paths:       t.Paths,
			IgnorePaths: t.IgnorePaths,
			FailOn:      skillreview.Severity(t.FailOn),
			CommentOn:   skillreview.Severity(t.CommentOn),
			MaxFindings: t.MaxFindings,
			Model:       t.Model,
			SkillRef:    t.SkillRef,
		})
	}

	return &Config{
		Concurrency:  v.GetInt("concurrency"),
		MaxRetries:   v.GetInt("max_retries"),
		MaxTokens:    v.GetInt("max_tokens"),
		MaxGapLines:  v.GetInt("max_gap_lines"),
		MaxChunkSize: chunkSize,
		ContextLines: v.GetInt("context_lines"),
		Model:        v.GetString("model"),
		SkillsDir:    v.GetString("skills_dir"),
		HistoryPath:  v.GetString("history_path"),
		CacheDir:     cacheDir,
		Modes:        modes,
		Triggers:     triggers,
	}, nil
}

// parseSize parses human byte sizes like "16KiB" or "1MB". Empty and "0"
// select the preparation default.
func parseSize(s string) (int, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int(n), nil
}

// parseMode maps a configuration mode name to its FileMode.
func parseMode(s string) (skillreview.FileMode, error) {
	switch s {
	case "hunks":
		return skillreview.ModeHunks, nil
	case "whole":
		return skillreview.ModeWhole, nil
	case "skip":
		return skillreview.ModeSkip, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
