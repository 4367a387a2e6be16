package main

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"acb/formula-columns/formula"
	"acb/formula-columns/sheets"
)

var esc = templ.EscapeString

func index(sheet sheets.Sheet, days []sheets.Day) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html>
<head>
	<title>Formula columns</title>
	<script src="https://unpkg.com/htmx.org@1.9.6"></script>
	<link rel="stylesheet" href="/static/style.css">
</head>
<body>
`); err != nil {
			return err
		}
		if err := toolbar(sheet).Render(ctx, w); err != nil {
			return err
		}
		if err := renderSheet(sheet, days).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func toolbar(sheet sheets.Sheet) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<form class="toolbar" hx-post="/column" hx-target="body">
	<input name="name" placeholder="Column name">
	<select name="kind">
		<option value="numberbox">Number</option>
		<option value="textbox">Text</option>
		<option value="checkbox">Checkbox</option>
		<option value="formula">Formula</option>
	</select>
	<button type="submit">Add column</button>
</form>
<div class="hidden-cols">
`); err != nil {
			return err
		}
		for _, col := range sheet.Columns {
			if !col.Hide {
				continue
			}
			_, err := fmt.Fprintf(w, `	<button hx-post="/column/hide" hx-vals='{"col_id": %q, "hide": "false"}' hx-target="body">Show %s</button>
`, esc(col.Id), esc(col.Name))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

func renderSheet(sheet sheets.Sheet, days []sheets.Day) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<table id=\"sheet\">\n<thead><tr><th>Day</th>"); err != nil {
			return err
		}
		for _, col := range sheet.VisibleCols() {
			_, err := fmt.Fprintf(w, `<th class="%s"><input name="col_name" value="%s" hx-post="/column/rename" hx-vals='{"col_id": %q}' hx-swap="none"><code>[%s]</code> <button hx-post="/column/hide" hx-vals='{"col_id": %q, "hide": "true"}' hx-target="body">Hide</button></th>`,
				esc(string(col.Kind)), esc(col.Name), esc(col.Id), esc(col.Id), esc(col.Id))
			if err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr></thead>\n<tbody>\n"); err != nil {
			return err
		}
		for _, day := range days {
			if err := dayRow(sheet, day).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tbody>\n</table>\n"); err != nil {
			return err
		}
		return functionList().Render(ctx, w)
	})
}

// functionList offers the built-in functions as completions in formula cells.
func functionList() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<datalist id=\"formula-functions\">\n"); err != nil {
			return err
		}
		for _, name := range formula.FunctionNames() {
			if _, err := fmt.Fprintf(w, "\t<option value=\"%s(\"></option>\n", esc(name)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</datalist>\n")
		return err
	})
}

// dayRow renders one day. Handlers swap it in place after a cell changes,
// since formula cells elsewhere in the row may have been recomputed.
func dayRow(sheet sheets.Sheet, day sheets.Day) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<tr id=\"day-%s\"><th>%s</th>", esc(day.Name), esc(day.Name)); err != nil {
			return err
		}
		for _, col := range sheet.VisibleCols() {
			if err := renderCell(col, day.Name, day.Cell(col.Id)).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tr>\n")
		return err
	})
}

func renderCell(col sheets.Column, day string, cell sheets.Cell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		vals := fmt.Sprintf(`{"col_id": %q, "day": %q}`, col.Id, day)
		swap := fmt.Sprintf(`hx-post="/cell" hx-vals='%s' hx-target="#day-%s" hx-swap="outerHTML"`, esc(vals), esc(day))
		var err error
		switch col.Kind {
		case sheets.Checkbox:
			checked := ""
			if cell.Value.Truthy() {
				checked = " checked"
			}
			_, err = fmt.Fprintf(w, `<td><input type="checkbox" name="value" value="true"%s %s hx-trigger="change"></td>`, checked, swap)
		case sheets.Numberbox:
			_, err = fmt.Fprintf(w, `<td><input type="number" step="any" name="value" value="%s" %s hx-trigger="change"></td>`, esc(cell.Value.Text()), swap)
		case sheets.Textbox:
			_, err = fmt.Fprintf(w, `<td><input name="value" value="%s" %s hx-trigger="change"></td>`, esc(cell.Value.Text()), swap)
		case sheets.Formula:
			class := "formula"
			if cell.IsError() {
				class += " error"
			}
			_, err = fmt.Fprintf(w, `<td class="%s"><input name="formula" value="%s" placeholder="=" list="formula-functions" %s hx-trigger="change"><output>%s</output></td>`,
				class, esc(cell.Formula), swap, esc(cell.Value.Text()))
		}
		return err
	})
}
