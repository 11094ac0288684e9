// Package docs measures docstring coverage over a unit's declarations: the
// module itself, every class, and every function or method that is not
// dunder-named.
package docs

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/assay-dev/assay/pkg/parser"
)

// Analyzer computes docstring coverage. It carries no configuration; the
// rule set is fixed by convention.
type Analyzer struct{}

// New creates a documentation analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze walks the unit's declarations and reports coverage. A unit with
// nothing documentable is vacuously fully documented (ratio 1).
func (a *Analyzer) Analyze(parsed *parser.ParseResult) *Coverage {
	cov := &Coverage{}
	if parsed.Tree == nil {
		cov.Ratio = 1
		cov.Score = 100
		return cov
	}

	record := func(kind EntityKind, name string, line uint32, documented bool) {
		cov.Documentable++
		if documented {
			cov.Documented++
		} else {
			cov.Missing = append(cov.Missing, Entity{Kind: kind, Name: name, Line: line})
		}
	}

	root := parsed.Tree.RootNode()
	cov.ModuleDocumented = hasDocstring(root, parsed.Source)
	record(KindModule, parsed.Name, 1, cov.ModuleDocumented)

	for _, cls := range parser.GetClasses(parsed) {
		documented := hasDocstring(cls.Body, parsed.Source)
		cov.ClassesTotal++
		if documented {
			cov.ClassesDocumented++
		}
		record(KindClass, cls.Name, cls.StartLine, documented)
	}

	for _, fn := range parser.GetFunctions(parsed) {
		if isDunder(fn.Name) {
			continue
		}
		documented := hasDocstring(fn.Body, parsed.Source)
		cov.FunctionsTotal++
		if documented {
			cov.FunctionsDocumented++
		}
		record(KindFunction, fn.Name, fn.StartLine, documented)
	}

	if cov.Documentable == 0 {
		cov.Ratio = 1
	} else {
		cov.Ratio = float64(cov.Documented) / float64(cov.Documentable)
	}
	cov.Score = cov.Ratio * 100

	return cov
}

// hasDocstring reports whether the first statement in a body is a string
// literal with non-trivial content.
func hasDocstring(body *sitter.Node, source []byte) bool {
	if body == nil {
		return false
	}

	var first *sitter.Node
	for i := range int(body.NamedChildCount()) {
		child := body.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		first = child
		break
	}
	if first == nil || first.Type() != "expression_statement" {
		return false
	}

	str := first.NamedChild(0)
	if str == nil || str.Type() != "string" {
		return false
	}

	return strings.TrimSpace(stripQuotes(parser.GetNodeText(str, source))) != ""
}

// stripQuotes removes string prefixes (r, b, u, f) and surrounding quote
// characters from a Python string literal.
func stripQuotes(literal string) string {
	s := literal
	// Drop prefix letters before the opening quote.
	for len(s) > 0 && s[0] != '"' && s[0] != '\'' {
		s = s[1:]
	}
	return strings.Trim(s, `"'`)
}

// isDunder reports whether a name is magic-method style (__name__).
func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
