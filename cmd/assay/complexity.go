package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/fileproc"
	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/pkg/analyzer/complexity"
	"github.com/assay-dev/assay/pkg/parser"
	"github.com/assay-dev/assay/pkg/source"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Usage:     "Measure cyclomatic complexity per function",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "flagged-only",
				Usage: "Only show functions above the complexity limit",
			},
		},
		Action: runComplexityCmd,
	}
}

type unitComplexity struct {
	Unit       string             `json:"unit"`
	ParseError *parser.ParseError `json:"parse_error,omitempty"`
	Result     *complexity.Result `json:"result,omitempty"`
}

func runComplexityCmd(c *cli.Context) error {
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

	analyzer := complexity.New(complexity.WithConfig(cfg.Complexity))
	results := fileproc.MapUnits(c.Context, units, func(p *parser.Parser, u source.Unit) unitComplexity {
		parsed := p.Parse([]byte(u.Text), u.ID)
		defer parsed.Close()
		if !parsed.OK() {
			return unitComplexity{Unit: u.ID, ParseError: parsed.Err}
		}
		return unitComplexity{Unit: u.ID, Result: analyzer.Analyze(parsed)}
	})
	if err := c.Context.Err(); err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	flaggedOnly := c.Bool("flagged-only")
	var rows [][]string
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		for _, fn := range r.Result.Functions {
			if flaggedOnly && !fn.Flagged {
				continue
			}
			mark := ""
			if fn.Flagged {
				mark = "!"
				if formatter.Colored() {
					mark = color.RedString(mark)
				}
			}
			rows = append(rows, []string{
				r.Unit,
				fn.Name,
				fmt.Sprintf("%d", fn.StartLine),
				fmt.Sprintf("%d", fn.Complexity),
				mark,
			})
		}
	}

	report := &output.Report{
		Title: "Complexity",
		Sections: []output.Renderable{
			output.NewTable("Functions",
				[]string{"Unit", "Function", "Line", "Complexity", "Flagged"}, rows, nil, nil),
			output.NewTable("Scores",
				[]string{"Unit", "Mean", "Max", "Score"}, complexityScoreRows(results), nil, nil),
		},
		Data: results,
	}
	return formatter.Output(report)
}

func complexityScoreRows(results []unitComplexity) [][]string {
	var rows [][]string
	for _, r := range results {
		if r.Result == nil {
			rows = append(rows, []string{r.Unit, "-", "-", "parse error"})
			continue
		}
		rows = append(rows, []string{
			r.Unit,
			fmt.Sprintf("%.2f", r.Result.Mean),
			fmt.Sprintf("%d", r.Result.Max),
			fmt.Sprintf("%.2f", r.Result.Score),
		})
	}
	return rows
}
