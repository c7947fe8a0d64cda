package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fwojciec/skillreview"
	"github.com/fwojciec/skillreview/bubbletea"
	"github.com/fwojciec/skillreview/chroma"
	"github.com/fwojciec/skillreview/clipboard"
	"github.com/fwojciec/skillreview/config"
	"github.com/fwojciec/skillreview/fs"
	"github.com/fwojciec/skillreview/gemini"
	"github.com/fwojciec/skillreview/git"
	"github.com/fwojciec/skillreview/gitdiff"
	"github.com/fwojciec/skillreview/github"
	"github.com/fwojciec/skillreview/jsonl"
	"github.com/fwojciec/skillreview/lipgloss"
	"github.com/fwojciec/skillreview/patch"
	"github.com/fwojciec/skillreview/render"
	"github.com/fwojciec/skillreview/runner"
)

// ErrNoChanges is returned when the change set contains no files to review.
var ErrNoChanges = errors.New("no changes to review")

// ErrFindingsAboveThreshold is returned when a review produced findings at
// or above a trigger's fail-on threshold; main turns it into a non-zero
// exit for CI.
var ErrFindingsAboveThreshold = errors.New("findings at or above the fail-on threshold")

// ReviewCommand holds the flags and dependencies for the review command.
// Nil dependencies are wired from the environment at run time, so tests
// can inject fakes without touching the network.
type ReviewCommand struct {
	Analyzer  skillreview.Analyzer
	Source    skillreview.ChangeSource
	Commenter skillreview.Commenter
	Fetcher   skillreview.SkillFetcher
	Reader    skillreview.FileReader
	Diffs     skillreview.DiffSource
	History   skillreview.ReportStore
	Browser   skillreview.ReportBrowser
	Logger    *slog.Logger

	configPath string
	repo       string
	pr         int
	diffPath   string
	base       string
	repoPath   string
	skills     []string
	failOn     string
	dryRun     bool
	noColor    bool
	browse     bool
}

// NewReviewCommand creates the review command around rc. Pass a zero
// ReviewCommand for production wiring.
func NewReviewCommand(rc *ReviewCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a change set with the configured skills",
		Long: `Review analyzes a pull request, a diff file, or the local worktree
change against a base reference. Skills are selected by matching the
configured triggers against the change, or named explicitly with --skill.`,
		Args: cobra.NoArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "config file (default .skillreview.{yaml,toml,json})")
	cmd.Flags().StringVar(&rc.repo, "repo", "", "GitHub repository in owner/name form (default: detected from origin)")
	cmd.Flags().IntVar(&rc.pr, "pr", 0, "pull request number to review")
	cmd.Flags().StringVar(&rc.diffPath, "diff", "", "unified diff file to review, - for stdin")
	cmd.Flags().StringVar(&rc.base, "base", "", "base reference for the local diff (default HEAD)")
	cmd.Flags().StringVarP(&rc.repoPath, "path", "p", ".", "local repository path")
	cmd.Flags().StringSliceVarP(&rc.skills, "skill", "s", nil, "skills to run, bypassing trigger matching")
	cmd.Flags().StringVar(&rc.failOn, "fail-on", "", "fail at or above this severity (with --skill)")
	cmd.Flags().BoolVar(&rc.dryRun, "dry-run", false, "skip posting comments and writing history")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&rc.browse, "browse", false, "browse findings interactively instead of printing them")

	return cmd
}

func (rc *ReviewCommand) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := rc.resolveTarget(); err != nil {
		return err
	}

	cfg, err := config.Load(rc.configPath)
	if err != nil {
		return err
	}

	event, reader, err := rc.loadEvent(ctx, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(event.Files) == 0 {
		return ErrNoChanges
	}
	rc.log().Debug("loaded change set", "type", event.Type, "files", len(event.Files))

	jobs, err := rc.selectJobs(ctx, cfg, event)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no triggers matched this change")
		return nil
	}

	analyzer, closeAnalyzer, err := rc.buildAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	preparer := &patch.Preparer{Reader: reader, Options: cfg.PrepareOptions()}
	prepared, err := preparer.Prepare(ctx, event.Files)
	if err != nil {
		return err
	}
	if len(prepared) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "nothing to analyze after file classification")
		return nil
	}

	run := &runner.Runner{
		Analyzer:    analyzer,
		Logger:      rc.log(),
		Concurrency: cfg.Concurrency,
		MaxTokens:   cfg.MaxTokens,
		MaxRetries:  cfg.MaxRetries,
	}

	term := rc.terminal()

	var browser skillreview.ReportBrowser
	if rc.browse {
		browser = rc.browser()
	}

	history := rc.History
	if history == nil && cfg.HistoryPath != "" {
		history = jsonl.NewStore(cfg.HistoryPath)
	}

	failed := false
	for _, job := range jobs {
		report, err := run.Run(ctx, job.skill, prepared)
		if err != nil {
			return err
		}

		rc.dropInvalidFindings(report, prepared, cfg.ContextLines)

		if browser != nil {
			if err := browser.Browse(ctx, report); err != nil {
				return err
			}
		} else if err := term.Render(cmd.OutOrStdout(), report); err != nil {
			return err
		}

		if history != nil && !rc.dryRun {
			if err := history.Save(ctx, report); err != nil {
				rc.log().Warn("saving report history failed", "error", err)
			}
		}

		if err := rc.comment(ctx, job.trigger, report); err != nil {
			return err
		}

		if job.trigger.ShouldFail(report.Findings) {
			failed = true
		}
	}

	if failed {
		return ErrFindingsAboveThreshold
	}
	return nil
}

// resolveTarget validates the target flags and fills in the repository
// from the git remote when --pr is given without --repo.
func (rc *ReviewCommand) resolveTarget() error {
	if rc.pr != 0 && rc.repo == "" {
		repo, err := github.DetectRepo()
		if err != nil {
			return err
		}
		rc.repo = repo
	}
	if rc.repo != "" && rc.pr == 0 {
		return errors.New("--repo requires --pr")
	}
	if rc.repo != "" && rc.diffPath != "" {
		return errors.New("--pr and --diff are mutually exclusive")
	}
	if rc.failOn != "" {
		if len(rc.skills) == 0 {
			return errors.New("--fail-on requires --skill")
		}
		if skillreview.Severity(rc.failOn).Rank() > skillreview.SeverityInfo.Rank() {
			return fmt.Errorf("unknown --fail-on severity %q", rc.failOn)
		}
	}
	return nil
}

// loadEvent assembles the change set and the reader used for unit context:
// pull request files over the GitHub API, a provided diff file, or the
// local worktree diff.
func (rc *ReviewCommand) loadEvent(ctx context.Context, stdin io.Reader) (*skillreview.Event, skillreview.FileReader, error) {
	switch {
	case rc.repo != "":
		return rc.loadPullRequest(ctx)
	case rc.diffPath != "":
		return rc.loadDiffFile(stdin)
	default:
		return rc.loadWorktree(ctx)
	}
}

func (rc *ReviewCommand) loadPullRequest(ctx context.Context) (*skillreview.Event, skillreview.FileReader, error) {
	source := rc.Source
	reader := rc.Reader

	if source == nil {
		client, err := github.NewClient()
		if err != nil {
			return nil, nil, err
		}
		source = client
		if rc.Commenter == nil {
			rc.Commenter = client
		}
		if reader == nil {
			// Unit context is read as of the head commit, not the
			// default branch.
			ref, err := client.Head(ctx, rc.repo, rc.pr)
			if err != nil {
				return nil, nil, err
			}
			reader = client.Reader(rc.repo, ref)
		}
	}

	event, err := source.Changes(ctx, rc.repo, rc.pr)
	if err != nil {
		return nil, nil, err
	}
	return event, reader, nil
}

func (rc *ReviewCommand) loadDiffFile(stdin io.Reader) (*skillreview.Event, skillreview.FileReader, error) {
	input := stdin
	if rc.diffPath != "-" {
		f, err := os.Open(rc.diffPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		input = f
	}
	return rc.localEvent(input)
}

func (rc *ReviewCommand) loadWorktree(ctx context.Context) (*skillreview.Event, skillreview.FileReader, error) {
	diffs := rc.Diffs
	if diffs == nil {
		diffs = git.NewRunner(rc.repoPath)
	}
	raw, err := diffs.Diff(ctx, rc.repoPath, rc.base)
	if err != nil {
		return nil, nil, err
	}
	return rc.localEvent(strings.NewReader(raw))
}

// localEvent parses a unified diff into a local change event backed by
// worktree file reads.
func (rc *ReviewCommand) localEvent(r io.Reader) (*skillreview.Event, skillreview.FileReader, error) {
	files, err := gitdiff.NewParser().Parse(r)
	if err != nil {
		return nil, nil, err
	}

	reader := rc.Reader
	if reader == nil {
		reader = git.NewRunner(rc.repoPath)
	}

	return &skillreview.Event{Type: "local", Files: files}, reader, nil
}

// job pairs a resolved skill with the trigger policy applied to its report.
type job struct {
	skill   skillreview.Skill
	trigger skillreview.Trigger
}

// selectJobs resolves which skills run: the explicitly named ones, or
// those bound to triggers matching the event.
func (rc *ReviewCommand) selectJobs(ctx context.Context, cfg *config.Config, event *skillreview.Event) ([]job, error) {
	store := fs.NewStore(cfg.SkillsDir)

	if len(rc.skills) > 0 {
		jobs := make([]job, 0, len(rc.skills))
		for _, name := range rc.skills {
			skill, err := store.Load(ctx, name)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job{
				skill:   *skill,
				trigger: skillreview.Trigger{Name: name, FailOn: skillreview.Severity(rc.failOn)},
			})
		}
		return jobs, nil
	}

	var jobs []job
	for _, trigger := range cfg.Triggers {
		if !trigger.Matches(*event) {
			continue
		}
		skill, err := rc.resolveSkill(ctx, cfg, store, trigger)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job{skill: *skill, trigger: trigger})
	}
	return jobs, nil
}

// resolveSkill loads the trigger's skill: a pinned remote ref through the
// caching fetcher, a local store entry otherwise. A trigger model override
// wins over the skill's own.
func (rc *ReviewCommand) resolveSkill(ctx context.Context, cfg *config.Config, store *fs.Store, trigger skillreview.Trigger) (*skillreview.Skill, error) {
	var (
		skill *skillreview.Skill
		err   error
	)
	if trigger.SkillRef != "" {
		fetcher, ferr := rc.skillFetcher(cfg)
		if ferr != nil {
			return nil, ferr
		}
		skill, err = fetcher.Fetch(ctx, trigger.SkillRef)
	} else {
		skill, err = store.Load(ctx, trigger.Name)
	}
	if err != nil {
		return nil, err
	}
	if trigger.Model != "" {
		skill.Model = trigger.Model
	}
	return skill, nil
}

// skillFetcher returns the remote skill fetcher: the GitHub client wrapped
// with the file cache.
func (rc *ReviewCommand) skillFetcher(cfg *config.Config) (skillreview.SkillFetcher, error) {
	if rc.Fetcher != nil {
		return rc.Fetcher, nil
	}
	client, err := github.NewClient()
	if err != nil {
		return nil, err
	}
	return fs.NewFetcher(client, cfg.CacheDir), nil
}

// buildAnalyzer returns the analyzer and a release func. Production runs
// build a Gemini client from the environment.
func (rc *ReviewCommand) buildAnalyzer(ctx context.Context, cfg *config.Config) (skillreview.Analyzer, func(), error) {
	if rc.Analyzer != nil {
		return rc.Analyzer, func() {}, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil, errors.New("GEMINI_API_KEY environment variable required")
	}

	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = gemini.DefaultModel
	}
	return gemini.NewAnalyzer(client, model), func() { _ = client.Close() }, nil
}

// browser builds the interactive report browser; --no-color browses
// without a theme.
func (rc *ReviewCommand) browser() skillreview.ReportBrowser {
	if rc.Browser != nil {
		return rc.Browser
	}
	opts := []bubbletea.ModelOption{bubbletea.WithClipboard(clipboard.NewSystem())}
	if !rc.noColor {
		opts = append(opts, bubbletea.WithTheme(lipgloss.DefaultTheme()))
	}
	return bubbletea.NewBrowser(bubbletea.WithModelOptions(opts...))
}

// terminal builds the report renderer; --no-color renders plain text.
func (rc *ReviewCommand) terminal() *render.Terminal {
	if rc.noColor {
		return &render.Terminal{}
	}
	theme := lipgloss.DefaultTheme()
	term := &render.Terminal{Theme: theme, Detector: chroma.NewDetector()}
	if tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(theme.Palette())); err == nil {
		term.Tokenizer = tokenizer
	}
	return term
}

// dropInvalidFindings removes findings whose locations fall outside the
// analyzed change and refreshes the report summary.
func (rc *ReviewCommand) dropInvalidFindings(report *skillreview.SkillReport, prepared []skillreview.PreparedFile, contextLines int) {
	verrs := skillreview.ValidateFindings(prepared, report.Findings, contextLines)
	if len(verrs) == 0 {
		return
	}

	type key struct {
		id   string
		path string
		line int
	}
	bad := make(map[key]bool, len(verrs))
	for _, ve := range verrs {
		rc.log().Warn("dropping finding with invalid location", "finding", ve.FindingID, "detail", ve.Error())
		bad[key{ve.FindingID, ve.Location.Path, ve.Location.StartLine}] = true
	}

	kept := make([]skillreview.Finding, 0, len(report.Findings))
	for _, f := range report.Findings {
		if bad[key{f.ID, f.Path(), f.StartLine()}] {
			continue
		}
		kept = append(kept, f)
	}
	report.Findings = kept
	report.Summary = skillreview.Summarize(kept, report.Failures)
}

// comment posts the report to the pull request when the trigger's
// comment-on threshold is met.
func (rc *ReviewCommand) comment(ctx context.Context, trigger skillreview.Trigger, report *skillreview.SkillReport) error {
	if rc.repo == "" || rc.dryRun || !trigger.ShouldComment(report.Findings) {
		return nil
	}

	commenter := rc.Commenter
	if commenter == nil {
		client, err := github.NewClient()
		if err != nil {
			return err
		}
		commenter = client
	}

	body := render.Markdown(report, trigger.MaxFindings)
	if err := commenter.Comment(ctx, rc.repo, rc.pr, body); err != nil {
		return fmt.Errorf("posting review comment: %w", err)
	}
	return nil
}

func (rc *ReviewCommand) log() *slog.Logger {
	if rc.Logger != nil {
		return rc.Logger
	}
	return slog.Default()
}
