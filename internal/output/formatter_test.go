package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"html", FormatHTML},
		{"HTML", FormatHTML},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(FormatText, "", true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	defer f.Close()

	if f.Format() != FormatText {
		t.Errorf("format = %q, want %q", f.Format(), FormatText)
	}
	if !f.Colored() {
		t.Error("colored should be true")
	}
	if f.file != nil {
		t.Error("file should be nil for stdout")
	}
	if f.Writer() == nil {
		t.Error("Writer() should not be nil")
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "output.txt")

	f, err := NewFormatter(FormatText, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	if f.Colored() {
		t.Error("color should be disabled when writing to a file")
	}

	if err := f.Output(map[string]string{"key": "value"}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if !strings.Contains(string(content), "value") {
		t.Errorf("output file missing data, got: %s", content)
	}
}

func TestFormatterJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}

	table := NewTable("Results", []string{"Unit", "Score"}, [][]string{
		{"a.py", "92.5"},
		{"b.py", "60.0"},
	}, nil, nil)

	if err := f.Output(table); err != nil {
		t.Fatalf("Output() error: %v", err)
	}

	var decoded []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded %d rows, want 2", len(decoded))
	}
	if decoded[0]["Unit"] != "a.py" {
		t.Errorf("first row unit = %q, want a.py", decoded[0]["Unit"])
	}
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Scores", []string{"Unit", "Band"}, [][]string{
		{"a.py", "excellent"},
	}, []string{"overall", "good"}, nil)

	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Scores", "a.py", "excellent", "overall"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Scores", []string{"Unit", "Score"}, [][]string{
		{"a.py", "88.0"},
	}, nil, nil)

	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Scores") {
		t.Errorf("markdown output missing title:\n%s", out)
	}
	if !strings.Contains(out, "| Unit | Score |") {
		t.Errorf("markdown output missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| a.py | 88.0 |") {
		t.Errorf("markdown output missing data row:\n%s", out)
	}
}

func TestSectionRenderText(t *testing.T) {
	var buf bytes.Buffer
	section := Section{
		Title:   "Summary",
		Content: "Overall score: 84.0",
		Sections: []Section{
			{Title: "Style", Content: "3 violations"},
		},
	}

	if err := section.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Summary", "=======", "Overall score: 84.0", "Style", "-----", "3 violations"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestSectionRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	section := Section{
		Title: "Summary",
		Sections: []Section{
			{Title: "Style", Content: "clean"},
		},
	}

	if err := section.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Summary") {
		t.Errorf("markdown output missing section title:\n%s", out)
	}
	if !strings.Contains(out, "### Style") {
		t.Errorf("markdown output missing nested title:\n%s", out)
	}
}

func TestReportRenderText(t *testing.T) {
	var buf bytes.Buffer
	report := Report{
		Title: "Quality Report",
		Sections: []Renderable{
			&Section{Title: "Overview", Content: "2 units analyzed"},
			NewTable("", []string{"Unit"}, [][]string{{"a.py"}}, nil, nil),
		},
	}

	if err := report.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Quality Report", "Overview", "a.py"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestBandColor(t *testing.T) {
	// Colors collapse to plain text when color output is disabled.
	for _, band := range []string{"excellent", "good", "needs improvement", "poor", "unknown"} {
		got := BandColor(band, "label")
		if !strings.Contains(got, "label") {
			t.Errorf("BandColor(%q) lost the text: %q", band, got)
		}
	}
}
