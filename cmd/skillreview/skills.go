package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fwojciec/skillreview/config"
	"github.com/fwojciec/skillreview/fs"
)

// SkillsCommand lists the skills available in the local store.
type SkillsCommand struct {
	configPath string
}

// NewSkillsCommand creates the skills listing command.
func NewSkillsCommand() *cobra.Command {
	sc := &SkillsCommand{}
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List available skills",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "config file (default .skillreview.{yaml,toml,json})")
	return cmd
}

func (sc *SkillsCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return err
	}

	skills, err := fs.NewStore(cfg.SkillsDir).List(cmd.Context())
	if err != nil {
		return err
	}
	if len(skills) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no skills found in %s\n", cfg.SkillsDir)
		return nil
	}

	tbl := newListTable()
	tbl.AppendHeader(table.Row{"NAME", "MODEL", "DESCRIPTION"})
	for _, s := range skills {
		model := s.Model
		if model == "" {
			model = "default"
		}
		tbl.AppendRow(table.Row{s.Name, model, s.Description})
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
	return nil
}

// newListTable returns the borderless table writer used for list output.
func newListTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	return tbl
}
