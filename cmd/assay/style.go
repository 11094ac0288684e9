package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/fileproc"
	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/pkg/analyzer/style"
	"github.com/assay-dev/assay/pkg/source"
)

func styleCmd() *cli.Command {
	return &cli.Command{
		Name:      "style",
		Usage:     "Check style conventions (line length, whitespace, naming)",
		ArgsUsage: "[path...]",
		Action:    runStyleCmd,
	}
}

type unitStyle struct {
	Unit   string        `json:"unit"`
	Result *style.Result `json:"result"`
}

func runStyleCmd(c *cli.Context) error {
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

	analyzer := style.New(style.WithConfig(cfg.Style))
	results := fileproc.ForEachUnit(c.Context, units, func(u source.Unit) unitStyle {
		return unitStyle{Unit: u.ID, Result: analyzer.Analyze(u.Text)}
	})
	if err := c.Context.Err(); err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var rows [][]string
	for _, r := range results {
		for _, v := range r.Result.Violations {
			rows = append(rows, []string{
				r.Unit,
				fmt.Sprintf("%d", v.Line),
				v.Rule,
				string(v.Severity),
				v.Message,
			})
		}
	}

	report := &output.Report{
		Title: "Style Check",
		Sections: []output.Renderable{
			output.NewTable("Violations",
				[]string{"Unit", "Line", "Rule", "Severity", "Message"}, rows, nil, nil),
			output.NewTable("Scores",
				[]string{"Unit", "Score"}, styleScoreRows(results), nil, nil),
		},
		Data: results,
	}
	return formatter.Output(report)
}

func styleScoreRows(results []unitStyle) [][]string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Unit, fmt.Sprintf("%.2f", r.Result.Score)}
	}
	return rows
}
