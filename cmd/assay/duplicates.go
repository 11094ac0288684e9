package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/fileproc"
	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/pkg/analyzer/duplicates"
	"github.com/assay-dev/assay/pkg/parser"
	"github.com/assay-dev/assay/pkg/source"
)

func duplicatesCmd() *cli.Command {
	return &cli.Command{
		Name:      "duplicates",
		Aliases:   []string{"dup"},
		Usage:     "Detect structurally duplicated code across the corpus",
		ArgsUsage: "[path...]",
		Action:    runDuplicatesCmd,
	}
}

func runDuplicatesCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	units, err := collectUnits(c, cfg)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	parsed := fileproc.MapUnits(c.Context, units, func(p *parser.Parser, u source.Unit) *parser.ParseResult {
		return p.Parse([]byte(u.Text), u.ID)
	})
	defer func() {
		for _, r := range parsed {
			if r != nil {
				r.Close()
			}
		}
	}()
	if err := c.Context.Err(); err != nil {
		return err
	}

	analyzer := duplicates.New(duplicates.WithConfig(cfg.Duplication))
	analysis := analyzer.Analyze(parsed)

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, block := range analysis.Blocks {
		for _, loc := range block.Locations {
			rows = append(rows, []string{
				fmt.Sprintf("%d", block.Statements),
				loc.Unit,
				fmt.Sprintf("%d-%d", loc.StartLine, loc.EndLine),
			})
		}
	}

	report := &output.Report{
		Title: "Duplication",
		Sections: []output.Renderable{
			&output.Section{
				Title: "Summary",
				Content: fmt.Sprintf("Duplicated lines: %d of %d (%.1f%%)\nScore: %.2f",
					analysis.DuplicatedLines, analysis.TotalLines, analysis.Ratio*100, analysis.Score),
			},
			output.NewTable("Blocks",
				[]string{"Statements", "Unit", "Lines"}, rows, nil, nil),
		},
		Data: analysis,
	}
	return formatter.Output(report)
}
