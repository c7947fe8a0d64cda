package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fwojciec/skillreview/config"
	"github.com/fwojciec/skillreview/jsonl"
)

// HistoryCommand lists recent review runs from the history file.
type HistoryCommand struct {
	configPath string
	limit      int
}

// NewHistoryCommand creates the run history listing command.
func NewHistoryCommand() *cobra.Command {
	hc := &HistoryCommand{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent review runs",
		Args:  cobra.NoArgs,
		RunE:  hc.run,
	}
	cmd.Flags().StringVarP(&hc.configPath, "config", "c", "", "config file (default .skillreview.{yaml,toml,json})")
	cmd.Flags().IntVarP(&hc.limit, "limit", "n", 10, "most recent runs to show, 0 for all")
	return cmd
}

func (hc *HistoryCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(hc.configPath)
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return errors.New("history_path is not configured")
	}

	reports, err := jsonl.NewStore(cfg.HistoryPath).List(cmd.Context())
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no review history")
		return nil
	}

	if hc.limit > 0 && len(reports) > hc.limit {
		reports = reports[len(reports)-hc.limit:]
	}

	tbl := newListTable()
	tbl.AppendHeader(table.Row{"SKILL", "TOKENS", "DURATION", "SUMMARY"})
	for i := len(reports) - 1; i >= 0; i-- { // newest first
		r := reports[i]
		tbl.AppendRow(table.Row{
			r.Skill,
			humanize.Comma(r.Usage.TotalTokens()),
			r.Duration.Round(100 * time.Millisecond).String(),
			r.Summary,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
	return nil
}
