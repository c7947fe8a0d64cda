// Package runner executes a skill over prepared files: bounded parallel
// fan-out across files, sequential analysis within a file, and reduction
// of per-task results into one deduplicated report.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/skillreview"
	"golang.org/x/sync/errgroup"
)

// Execution defaults.
const (
	DefaultConcurrency = 5
	DefaultMaxRetries  = 3
)

// SkillError wraps a failure that prevents a skill's run entirely, such
// as a policy with no instructions. Per-file failures are not SkillErrors;
// they land in the report's Failures list.
type SkillError struct {
	Skill string
	Err   error
}

func (e *SkillError) Error() string {
	return fmt.Sprintf("skill %q: %v", e.Skill, e.Err)
}

func (e *SkillError) Unwrap() error { return e.Err }

// Hooks observe run progress. All fields are optional. Hooks are invoked
// synchronously from the task that owns the file; they observe only and
// cannot alter scheduling or results.
type Hooks struct {
	FileStart func(path string, units int)
	FileDone  func(path string, findings int, err error)
	UnitStart func(path string, unit int)
	UnitDone  func(path string, unit int, findings int, err error)
}

// Runner executes one skill over a set of prepared files.
//
// Files run in parallel up to Concurrency; units within a file run
// sequentially in order. One file's failure never aborts its siblings.
type Runner struct {
	Analyzer    skillreview.Analyzer
	Formatter   skillreview.PromptFormatter // nil selects DefaultFormatter
	Logger      *slog.Logger                // nil discards
	Hooks       Hooks
	Concurrency int                             // max files in flight; 0 selects the default, 1 runs sequentially
	MaxTokens   int                             // per-call response budget handed to the analyzer
	MaxRetries  int                             // analyzer attempts per unit; 0 selects the default
	BackoffFn   func(attempt int) time.Duration // nil selects exponential backoff (1s, 2s, 4s...)
}

// fileResult is one task's settled outcome. Each task owns its result
// slot exclusively, so reduction needs no locking.
type fileResult struct {
	findings []skillreview.Finding
	usages   []skillreview.Usage
	err      error
}

// Run analyzes every prepared file and assembles the skill's report.
//
// Cancelling ctx stops scheduling promptly: files and units not yet
// dispatched are abandoned and recorded as failures, while results
// already returned stay in the report. Run returns an error only when
// the skill itself cannot run; it is then a *SkillError.
func (r *Runner) Run(ctx context.Context, skill skillreview.Skill, files []skillreview.PreparedFile) (*skillreview.SkillReport, error) {
	if r.Analyzer == nil {
		return nil, &SkillError{Skill: skill.Name, Err: errors.New("no analyzer configured")}
	}
	if skill.Instructions == "" {
		return nil, &SkillError{Skill: skill.Name, Err: errors.New("skill has no instructions")}
	}

	start := time.Now()
	system := skill.SystemPrompt()

	// Collect results indexed by original position.
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency())

	for i := range files {
		file := files[i]
		g.Go(func() error {
			// Failures settle into the slot so one file cannot abort
			// the group.
			results[i] = r.runFile(gctx, system, skill, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &SkillError{Skill: skill.Name, Err: err}
	}

	// Reduce in input order so the outcome is independent of task
	// completion order.
	var (
		findings []skillreview.Finding
		usages   []skillreview.Usage
		failures []skillreview.FileFailure
	)
	for i, res := range results {
		findings = append(findings, res.findings...)
		usages = append(usages, res.usages...)
		if res.err != nil {
			failures = append(failures, skillreview.FileFailure{
				Path:    files[i].Path,
				Message: res.err.Error(),
			})
		}
	}

	findings = Dedup(findings)

	return &skillreview.SkillReport{
		Skill:    skill.Name,
		Findings: findings,
		Summary:  skillreview.Summarize(findings, failures),
		Duration: time.Since(start),
		Usage:    skillreview.SumUsage(usages),
		Failures: failures,
	}, nil
}

// runFile analyzes one file's units in order. A unit failure is recorded
// and the remaining units still run; cancellation abandons the rest of
// the file.
func (r *Runner) runFile(ctx context.Context, system string, skill skillreview.Skill, file skillreview.PreparedFile) fileResult {
	var res fileResult

	if r.Hooks.FileStart != nil {
		r.Hooks.FileStart(file.Path, len(file.Units))
	}

	for i, unit := range file.Units {
		if err := ctx.Err(); err != nil {
			res.err = err
			break
		}

		if r.Hooks.UnitStart != nil {
			r.Hooks.UnitStart(file.Path, i)
		}

		result, err := r.analyzeUnit(ctx, system, skill, file.Path, unit)

		if r.Hooks.UnitDone != nil {
			count := 0
			if result != nil {
				count = len(result.Findings)
			}
			r.Hooks.UnitDone(file.Path, i, count, err)
		}

		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				res.err = cerr
				break
			}
			r.logger().Warn("unit analysis failed",
				"path", file.Path, "unit", i, "error", err)
			if res.err == nil {
				res.err = fmt.Errorf("unit %d: %w", i, err)
			}
			continue
		}

		for _, f := range result.Findings {
			res.findings = append(res.findings, normalize(f, file.Path))
		}
		res.usages = append(res.usages, result.Usage)
	}

	if r.Hooks.FileDone != nil {
		r.Hooks.FileDone(file.Path, len(res.findings), res.err)
	}
	return res
}

// analyzeUnit issues one analyzer call with retry. The context is checked
// before every attempt so cancellation never starts new work.
func (r *Runner) analyzeUnit(ctx context.Context, system string, skill skillreview.Skill, path string, unit skillreview.Unit) (*skillreview.AnalyzeResult, error) {
	req := skillreview.AnalyzeRequest{
		System:    system,
		Content:   r.formatter().Format(path, unit),
		Model:     skill.Model,
		MaxTokens: r.MaxTokens,
	}

	maxRetries := r.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	backoff := r.BackoffFn
	if backoff == nil {
		backoff = func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := r.Analyzer.Analyze(ctx, req)
		if err == nil {
			if result == nil {
				return nil, errors.New("analyzer returned nil result")
			}
			return result, nil
		}
		lastErr = err

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
	}
	return nil, lastErr
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return DefaultConcurrency
}

func (r *Runner) formatter() skillreview.PromptFormatter {
	if r.Formatter != nil {
		return r.Formatter
	}
	return &skillreview.DefaultFormatter{}
}

// logger returns the configured logger, or a discard logger if nil.
func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// normalize fills gaps the analyzer may leave: a located finding without
// a path gets the analyzed file's, and an empty ID gets a content hash so
// deduplication always has an identity.
func normalize(f skillreview.Finding, path string) skillreview.Finding {
	if f.Location != nil && f.Location.Path == "" {
		loc := *f.Location
		loc.Path = path
		f.Location = &loc
	}
	if f.ID == "" {
		f.ID = skillreview.FindingID(f)
	}
	return f
}

// dedupKey is the identity duplicates collapse on.
type dedupKey struct {
	id   string
	path string
	line int
}

// Dedup collapses findings that share (ID, path, start line), keeping the
// first occurrence in input order. Input order is preserved.
func Dedup(findings []skillreview.Finding) []skillreview.Finding {
	if len(findings) == 0 {
		return findings
	}

	seen := make(map[dedupKey]bool, len(findings))
	out := make([]skillreview.Finding, 0, len(findings))
	for _, f := range findings {
		key := dedupKey{id: f.ID, path: f.Path(), line: f.StartLine()}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
