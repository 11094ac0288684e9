// Package report renders a self-contained HTML quality report from an
// analysis result.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/assay-dev/assay/pkg/analyzer/score"
)

//go:embed template.html
var templateFS embed.FS

// maxViolationRows caps the style violation table per unit; the remainder
// is summarized as a count.
const maxViolationRows = 10

// RenderData contains all data needed to render the report.
type RenderData struct {
	Metadata      Metadata
	Score         float64
	Band          string
	ScoreClass    string
	Components    ComponentsView
	UnitsTotal    int
	ParseFailures int
	Units         []UnitView
	Duplication   DuplicationView
}

// ComponentsView holds the corpus-wide sub-scores.
type ComponentsView struct {
	Style       float64
	Complexity  float64
	Docs        float64
	Duplication float64
}

// Build converts an analysis result into render data.
func Build(result *score.Result, meta Metadata) *RenderData {
	titler := cases.Title(language.English)

	data := &RenderData{
		Metadata:      meta,
		Score:         result.Score,
		Band:          titler.String(string(result.Band)),
		ScoreClass:    scoreClass(result.Score),
		UnitsTotal:    result.UnitsAnalyzed,
		ParseFailures: result.ParseFailures,
		Components: ComponentsView{
			Style:       result.Components.Style,
			Complexity:  result.Components.Complexity,
			Docs:        result.Components.Docs,
			Duplication: result.Components.Duplication,
		},
	}

	if result.Duplication != nil {
		data.Duplication = DuplicationView{
			Percentage: result.Duplication.Ratio * 100,
			Score:      result.Duplication.Score,
		}
		for _, block := range result.Duplication.Blocks {
			view := BlockView{Statements: block.Statements}
			for _, loc := range block.Locations {
				view.Locations = append(view.Locations,
					fmt.Sprintf("%s:%d-%d", loc.Unit, loc.StartLine, loc.EndLine))
			}
			data.Duplication.Blocks = append(data.Duplication.Blocks, view)
		}
	}

	for _, unit := range result.Units {
		view := UnitView{
			Name:       unit.Unit,
			Score:      unit.Score,
			Band:       titler.String(string(unit.Band)),
			ScoreClass: scoreClass(unit.Score),
		}

		if unit.ParseError != nil {
			view.ParseError = unit.ParseError.Error()
		}

		if unit.Style != nil {
			view.StyleScore = unit.Style.Score
			for i, v := range unit.Style.Violations {
				if i == maxViolationRows {
					view.MoreIssues = len(unit.Style.Violations) - maxViolationRows
					break
				}
				view.Violations = append(view.Violations, ViolationView{
					Line:    v.Line,
					Rule:    v.Rule,
					Message: v.Message,
				})
			}
		}

		if unit.Complexity != nil {
			cv := &ComplexityView{
				Mean:  unit.Complexity.Mean,
				Max:   unit.Complexity.Max,
				Score: unit.Complexity.Score,
			}
			for _, fn := range unit.Complexity.Functions {
				cv.Functions = append(cv.Functions, FunctionView{
					Name:       fn.Name,
					Line:       fn.StartLine,
					Complexity: fn.Complexity,
					Flagged:    fn.Flagged,
				})
			}
			view.Complexity = cv
		}

		if unit.Docs != nil {
			view.Docs = &DocsView{
				Score:               unit.Docs.Score,
				FunctionsDocumented: unit.Docs.FunctionsDocumented,
				FunctionsTotal:      unit.Docs.FunctionsTotal,
				ClassesDocumented:   unit.Docs.ClassesDocumented,
				ClassesTotal:        unit.Docs.ClassesTotal,
				ModuleDocumented:    unit.Docs.ModuleDocumented,
			}
		}

		view.Suggestions = suggestions(unit, result)
		data.Units = append(data.Units, view)
	}

	return data
}

// suggestions derives improvement advice from a unit's weakest metrics.
func suggestions(unit score.UnitResult, result *score.Result) []string {
	var out []string

	if unit.ParseError != nil {
		out = append(out, "Fix the syntax error so the structural analyzers can run.")
		return out
	}

	if unit.Style != nil && unit.Style.Score < 80 {
		out = append(out, fmt.Sprintf(
			"Fix %d style violations to improve readability.", len(unit.Style.Violations)))
	}
	if unit.Complexity != nil {
		if unit.Complexity.Mean > 5 {
			out = append(out, fmt.Sprintf(
				"Simplify functions with average complexity %.1f (recommended <= 5) by splitting them up.",
				unit.Complexity.Mean))
		}
		for _, fn := range unit.Complexity.Functions {
			if fn.Flagged {
				out = append(out, fmt.Sprintf(
					"Refactor %s (complexity %d) into smaller functions.", fn.Name, fn.Complexity))
			}
		}
	}
	if unit.Docs != nil && unit.Docs.Ratio < 1 {
		out = append(out, fmt.Sprintf(
			"Add docstrings to the %d undocumented declarations.",
			unit.Docs.Documentable-unit.Docs.Documented))
	}
	if result.Duplication != nil && result.Duplication.Ratio > 0.1 {
		out = append(out, "Extract shared helpers to reduce duplicated blocks.")
	}

	return out
}

func scoreClass(v float64) string {
	switch {
	case v >= 70:
		return "score-high"
	case v >= 50:
		return "score-medium"
	default:
		return "score-low"
	}
}

var funcMap = template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"mean": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

// Render writes the HTML report.
func Render(w io.Writer, data *RenderData) error {
	tmpl, err := template.New("template.html").Funcs(funcMap).ParseFS(templateFS, "template.html")
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}
