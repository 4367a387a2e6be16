package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"acb/formula-columns/formula"
	"acb/formula-columns/sheets"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRenderCell(t *testing.T) {
	col := sheets.Column{Id: "total", Name: "Total", Kind: sheets.Formula}
	cell := sheets.Cell{
		ColumnId: "total",
		Formula:  `[a] & "<b>"`,
		Value:    formula.StringValue(formula.ErrorText("Unexpected end of expression")),
	}
	html := render(t, renderCell(col, "2023-10-01", cell))
	for _, expected := range []string{
		`class="formula error"`,
		`value="[a] &amp; &#34;&lt;b&gt;&#34;"`,
		`<output>Error: Unexpected end of expression</output>`,
		`hx-target="#day-2023-10-01"`,
	} {
		if !strings.Contains(html, expected) {
			t.Errorf("%s not in %s", expected, html)
		}
	}
}

func TestDayRowSkipsHidden(t *testing.T) {
	sheet := sheets.Sheet{Columns: []sheets.Column{
		{Id: "done", Name: "Done", Kind: sheets.Checkbox},
		{Id: "note", Name: "Note", Kind: sheets.Textbox, Hide: true},
	}}
	day := sheets.Day{Name: "2023-10-01", Cells: map[string]sheets.Cell{
		"done": {ColumnId: "done", Value: formula.BoolValue(true)},
		"note": {ColumnId: "note", Value: formula.StringValue("secret")},
	}}
	html := render(t, dayRow(sheet, day))
	if !strings.Contains(html, " checked ") {
		t.Errorf("Checkbox not checked: %s", html)
	}
	if strings.Contains(html, "secret") {
		t.Errorf("Hidden column rendered: %s", html)
	}
}

func TestWithDay(t *testing.T) {
	days := withDay([]string{"2023-10-02", "2023-10-01"}, "2023-10-03")
	if len(days) != 3 || days[0] != "2023-10-03" {
		t.Errorf("Unexpected days: %v", days)
	}
	days = withDay([]string{"2023-10-02", "2023-10-01"}, "2023-10-01")
	if len(days) != 2 {
		t.Errorf("Unexpected days: %v", days)
	}
}

func TestFunctionList(t *testing.T) {
	html := render(t, functionList())
	sumAt := strings.Index(html, `<option value="sum("></option>`)
	avgAt := strings.Index(html, `<option value="avg("></option>`)
	if sumAt < 0 || avgAt < 0 || avgAt > sumAt {
		t.Errorf("Functions missing or unsorted: %s", html)
	}
	if !strings.Contains(render(t, renderCell(sheets.Column{Id: "f", Kind: sheets.Formula}, "2023-10-01", sheets.Cell{})), `list="formula-functions"`) {
		t.Error("Formula input not linked to the function list")
	}
}
