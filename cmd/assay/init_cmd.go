package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const defaultConfigTOML = `# assay configuration

[style]
line_length = 79
penalty_per_violation = 2.0

[complexity]
ceiling = 20.0
function_max = 10

[duplication]
min_block_size = 6
sensitivity = 2.0

# Weights must sum to 100.
[weights]
style = 25
complexity = 30
docs = 20
duplication = 25

[exclude]
patterns = []
dirs = ["__pycache__", ".git", ".venv", "venv", "node_modules"]
gitignore = true

[output]
format = "text"
color = true
`

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a default assay.toml to the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
			&cli.StringFlag{
				Name:  "path",
				Value: "assay.toml",
				Usage: "Where to write the config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	path := c.String("path")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
