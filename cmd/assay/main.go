package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/assay-dev/assay/internal/output"
	"github.com/assay-dev/assay/internal/scanner"
	"github.com/assay-dev/assay/pkg/config"
	"github.com/assay-dev/assay/pkg/source"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "assay",
		Usage:   "Python code quality scoring CLI",
		Version: version,
		Description: `Assay grades Python source for style compliance, cyclomatic complexity,
docstring coverage, and code duplication, then combines the four metrics
into a single weighted score with a qualitative band.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"ASSAY_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, html",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the progress bar",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		// Running with bare paths is the same as the analyze command.
		Action: runAnalyzeCmd,
		Commands: []*cli.Command{
			analyzeCmd(),
			styleCmd(),
			complexityCmd(),
			docsCmd(),
			duplicatesCmd(),
			initCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// collectUnits scans the requested paths and loads every Python file found
// into a source unit. Unreadable files are reported and skipped.
func collectUnits(c *cli.Context, cfg *config.Config) ([]source.Unit, error) {
	scan := scanner.New(cfg)

	var files []string
	for _, path := range getPaths(c) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := scan.ScanDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
			}
			files = append(files, found...)
			continue
		}

		ok, err := scan.ScanFile(path)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	files = dedupe(files)

	units, errs := source.Load(source.NewFilesystem(), files)
	for _, err := range errs {
		color.Yellow("Skipping unreadable file: %v", err)
	}
	return units, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, f := range sorted {
		if i == 0 || f != sorted[i-1] {
			out = append(out, f)
		}
	}
	return out
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), !c.Bool("no-color"))
}
