package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// maxCellWidth truncates long table values such as post text.
const maxCellWidth = 80

// Field is one row of a key/value table.
type Field struct {
	Key   string
	Value interface{}
}

// Printer renders command results.
type Printer struct {
	out    io.Writer
	format OutputFormat
}

// NewPrinter returns a printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat) *Printer {
	return &Printer{out: out, format: format}
}

// Format returns the printer's output format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Structured writes v as JSON or YAML. It reports false for table output so
// the caller can render its own table.
func (p *Printer) Structured(v interface{}) (bool, error) {
	switch p.format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return true, err
	case OutputFormatYAML:
		// Round-trip through JSON so the json tags name the YAML keys.
		data, err := json.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

// KeyValues renders fields as a two-column table. Empty values are skipped.
func (p *Printer) KeyValues(fields []Field) {
	t := p.newTable()
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("FIELD"), text.FgHiCyan.Sprint("VALUE")})
	for _, f := range fields {
		if f.Value == nil || f.Value == "" {
			continue
		}
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(f.Key), truncate(fmt.Sprint(f.Value))})
	}
	t.Render()
}

// Rows renders a table with headers. Cells are truncated.
func (p *Printer) Rows(headers []string, rows [][]string) {
	if len(rows) == 0 {
		p.Warning("No items found")
		return
	}

	t := p.newTable()
	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, text.FgHiCyan.Sprint(h))
	}
	t.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, 0, len(r))
		for _, cell := range r {
			row = append(row, truncate(cell))
		}
		t.AppendRow(row)
	}
	t.Render()

	fmt.Fprintf(p.out, "%s %s\n", text.FgHiBlue.Sprint("Total:"), text.FgHiWhite.Sprint(len(rows)))
}

// Success prints a green check line.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", text.FgGreen.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warning prints a yellow warning line.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", text.FgYellow.Sprint("⚠"), text.FgYellow.Sprint(fmt.Sprintf(format, args...)))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}
