package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/internal/progress"
	"github.com/assay-dev/assay/internal/report"
	"github.com/assay-dev/assay/pkg/analyzer/score"
	"github.com/assay-dev/assay/pkg/config"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"score"},
		Usage:     "Compute the composite quality score",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "details",
				Usage: "Show per-unit breakdowns and duplicate blocks",
			},
			&cli.Float64Flag{
				Name:  "fail-under",
				Usage: "Exit nonzero when the overall score is below this value",
			},
			&cli.IntFlag{
				Name:  "line-length",
				Usage: "Override the style line length limit",
			},
			&cli.IntFlag{
				Name:  "max-complexity",
				Usage: "Override the per-function complexity limit",
			},
			&cli.IntFlag{
				Name:  "min-block-size",
				Usage: "Override the duplication block size",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyOverrides(c, cfg)
	units, err := collectUnits(c, cfg)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		color.Yellow("No Python files found")
		return nil
	}

	opts := []score.Option{score.WithConfig(cfg)}
	var tracker *progress.Tracker
	if !c.Bool("no-progress") {
		tracker = progress.NewTracker("Analyzing units...", len(units))
		opts = append(opts, score.WithProgress(tracker.Tick))
	}

	result, err := score.New(opts...).Analyze(c.Context, units)
	if tracker != nil {
		if err != nil {
			tracker.FinishError(err)
		} else {
			tracker.FinishSuccess()
		}
	}
	if err != nil {
		return err
	}

	if output.ParseFormat(c.String("format")) == output.FormatHTML {
		err = writeHTMLReport(c, result)
	} else {
		err = writeScoreReport(c, result)
	}
	if err != nil {
		return err
	}

	if min := c.Float64("fail-under"); min > 0 && result.Score < min {
		return cli.Exit(fmt.Sprintf("score %.2f is below threshold %.2f", result.Score, min), 1)
	}
	return nil
}

// applyOverrides lets threshold flags take precedence over file config.
func applyOverrides(c *cli.Context, cfg *config.Config) {
	if v := c.Int("line-length"); v > 0 {
		cfg.Style.LineLength = v
	}
	if v := c.Int("max-complexity"); v > 0 {
		cfg.Complexity.FunctionMax = v
	}
	if v := c.Int("min-block-size"); v > 0 {
		cfg.Duplication.MinBlockSize = v
	}
}

func writeScoreReport(c *cli.Context, result *score.Result) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(scoreReport(result, c.Bool("details"), formatter.Colored()))
}

func writeHTMLReport(c *cli.Context, result *score.Result) error {
	data := report.Build(result, report.Metadata{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		Paths:       getPaths(c),
	})

	var w io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return report.Render(w, data)
}

// scoreReport shapes the result for the text/markdown/JSON formatter.
func scoreReport(result *score.Result, detailed, colored bool) *output.Report {
	band := string(result.Band)
	if colored {
		band = output.BandColor(band, band)
	}

	sections := []output.Renderable{
		&output.Section{
			Title: "Overview",
			Content: fmt.Sprintf("Overall score: %.2f/100 (%s)\nUnits analyzed: %d\nParse failures: %d",
				result.Score, band, result.UnitsAnalyzed, result.ParseFailures),
		},
		output.NewTable("Components", []string{"Metric", "Score", "Weight"}, [][]string{
			{"Style", fmt.Sprintf("%.2f", result.Components.Style), fmt.Sprintf("%.0f%%", result.Weights.Style)},
			{"Complexity", fmt.Sprintf("%.2f", result.Components.Complexity), fmt.Sprintf("%.0f%%", result.Weights.Complexity)},
			{"Documentation", fmt.Sprintf("%.2f", result.Components.Docs), fmt.Sprintf("%.0f%%", result.Weights.Docs)},
			{"Duplication", fmt.Sprintf("%.2f", result.Components.Duplication), fmt.Sprintf("%.0f%%", result.Weights.Duplication)},
		}, nil, nil),
	}

	var rows [][]string
	for _, unit := range result.Units {
		unitBand := string(unit.Band)
		if colored {
			unitBand = output.BandColor(string(unit.Band), unitBand)
		}
		note := ""
		if unit.ParseError != nil {
			note = unit.ParseError.Error()
			if colored {
				note = color.RedString(note)
			}
		}
		rows = append(rows, []string{
			unit.Unit,
			fmt.Sprintf("%.2f", unit.Score),
			unitBand,
			note,
		})
	}
	sections = append(sections,
		output.NewTable("Units", []string{"Unit", "Score", "Band", "Notes"}, rows, nil, nil))

	if detailed && result.Duplication != nil && len(result.Duplication.Blocks) > 0 {
		var dupRows [][]string
		for _, block := range result.Duplication.Blocks {
			for _, loc := range block.Locations {
				dupRows = append(dupRows, []string{
					fmt.Sprintf("%d", block.Statements),
					loc.Unit,
					fmt.Sprintf("%d-%d", loc.StartLine, loc.EndLine),
				})
			}
		}
		sections = append(sections, output.NewTable(
			fmt.Sprintf("Duplicate Blocks (%.1f%% of lines)", result.Duplication.Ratio*100),
			[]string{"Statements", "Unit", "Lines"}, dupRows, nil, nil))
	}

	return &output.Report{
		Title:    "Code Quality Report",
		Sections: sections,
		Data:     result,
	}
}
