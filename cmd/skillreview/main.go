// Package main provides the entry point for the skillreview CLI tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd assembles the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skillreview",
		Short: "Skill-based code review for diffs and pull requests",
		Long: `skillreview decomposes a change set into reviewable units and applies
skill policies to them with an LLM analyzer.

Commands:
  review    Review a pull request, a diff file, or the local worktree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(NewReviewCommand(&ReviewCommand{}))
	rootCmd.AddCommand(NewSkillsCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// setupLogging installs the process-wide logger: warnings only unless
// --verbose asks for debug detail.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("skillreview %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
