package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/fileproc"
	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/pkg/analyzer/docs"
	"github.com/assay-dev/assay/pkg/parser"
	"github.com/assay-dev/assay/pkg/source"
)

func docsCmd() *cli.Command {
	return &cli.Command{
		Name:      "docs",
		Usage:     "Measure docstring coverage",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "missing",
				Usage: "List entities without docstrings",
			},
		},
		Action: runDocsCmd,
	}
}

type unitDocs struct {
	Unit       string             `json:"unit"`
	ParseError *parser.ParseError `json:"parse_error,omitempty"`
	Coverage   *docs.Coverage     `json:"coverage,omitempty"`
}

func runDocsCmd(c *cli.Context) error {
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

	analyzer := docs.New()
	results := fileproc.MapUnits(c.Context, units, func(p *parser.Parser, u source.Unit) unitDocs {
		parsed := p.Parse([]byte(u.Text), u.ID)
		defer parsed.Close()
		if !parsed.OK() {
			return unitDocs{Unit: u.ID, ParseError: parsed.Err}
		}
		return unitDocs{Unit: u.ID, Coverage: analyzer.Analyze(parsed)}
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
		if r.Coverage == nil {
			rows = append(rows, []string{r.Unit, "-", "-", "-", "parse error"})
			continue
		}
		rows = append(rows, []string{
			r.Unit,
			fmt.Sprintf("%d", r.Coverage.Documented),
			fmt.Sprintf("%d", r.Coverage.Documentable),
			fmt.Sprintf("%.0f%%", r.Coverage.Ratio*100),
			fmt.Sprintf("%.2f", r.Coverage.Score),
		})
	}

	sections := []output.Renderable{
		output.NewTable("Coverage",
			[]string{"Unit", "Documented", "Documentable", "Ratio", "Score"}, rows, nil, nil),
	}

	if c.Bool("missing") {
		var missingRows [][]string
		for _, r := range results {
			if r.Coverage == nil {
				continue
			}
			for _, e := range r.Coverage.Missing {
				missingRows = append(missingRows, []string{
					r.Unit, string(e.Kind), e.Name, fmt.Sprintf("%d", e.Line),
				})
			}
		}
		sections = append(sections, output.NewTable("Missing Docstrings",
			[]string{"Unit", "Kind", "Name", "Line"}, missingRows, nil, nil))
	}

	report := &output.Report{
		Title:    "Docstring Coverage",
		Sections: sections,
		Data:     results,
	}
	return formatter.Output(report)
}
