package sheets

import (
	"testing"

	"acb/formula-columns/formula"
)

var testColumns = []Column{
	{Id: "price", Kind: Numberbox},
	{Id: "qty", Kind: Numberbox},
	{Id: "total", Kind: Formula},
	{Id: "taxed", Kind: Formula},
	{Id: "label", Kind: Formula},
}

func testDay(formulas map[string]string) Day {
	day := Day{Name: "2023-10-01", Cells: map[string]Cell{
		"price": {ColumnId: "price", Value: formula.NumberValue(2.5)},
		"qty":   {ColumnId: "qty", Value: formula.NumberValue(4)},
	}}
	for id, text := range formulas {
		day.Cells[id] = Cell{ColumnId: id, Formula: text, Refs: formula.References(text)}
	}
	return day
}

func checkCells(t *testing.T, day Day, expected map[string]string) {
	t.Helper()
	for id, expectedText := range expected {
		text := day.Cell(id).Value.Text()
		if text != expectedText {
			t.Errorf("%s: %s != %s", id, text, expectedText)
		}
	}
}

func TestRecalculateInOrder(t *testing.T) {
	day := recalculate(testColumns, testDay(map[string]string{
		"label": `"Total: " & [taxed]`,
		"taxed": "round([total] * 1.2, 2)",
		"total": "[price] * [qty]",
	}))
	checkCells(t, day, map[string]string{
		"price": "2.5",
		"total": "10",
		"taxed": "12",
		"label": "Total: 12",
	})
}

func TestRecalculateCycle(t *testing.T) {
	day := recalculate(testColumns, testDay(map[string]string{
		"total": "[taxed] + 1",
		"taxed": "[total] + 1",
		"label": "[total] & \"!\"",
	}))
	expected := formula.ErrorText(circularReference)
	for _, id := range []string{"total", "taxed", "label"} {
		cell := day.Cell(id)
		if cell.Value.Text() != expected || !cell.IsError() {
			t.Errorf("%s: %s != %s", id, cell.Value.Text(), expected)
		}
	}
}

func TestRecalculateErrors(t *testing.T) {
	day := recalculate(testColumns, testDay(map[string]string{
		"total": "[price] *",
		"label": "foo([qty])",
	}))
	checkCells(t, day, map[string]string{
		"total": "Error: Unexpected end of expression",
		"label": "Error: Unknown function: foo",
	})
	if day.Cell("price").IsError() {
		t.Error("Input cell reported as an error")
	}
}

func TestRecalculateExcludesSelf(t *testing.T) {
	day := testDay(map[string]string{"total": "[total] + 1"})
	// a stale result must not feed back into the next run
	cell := day.Cells["total"]
	cell.Value = formula.NumberValue(41)
	day.Cells["total"] = cell

	day = recalculate(testColumns, day)
	checkCells(t, day, map[string]string{"total": "Error: Circular reference"})

	day = recalculate(testColumns, testDay(map[string]string{"total": "[missing] + 1"}))
	checkCells(t, day, map[string]string{"total": "1"})
}

func TestRecalculateLeavesInputUnchanged(t *testing.T) {
	before := testDay(map[string]string{"total": "[price] * [qty]"})
	recalculate(testColumns, before)
	if !before.Cells["total"].Value.IsNull() {
		t.Errorf("Input day was modified: %v", before.Cells["total"].Value)
	}
}

func TestRecalculateClearedFormula(t *testing.T) {
	day := testDay(map[string]string{"total": ""})
	cell := day.Cells["total"]
	cell.Value = formula.NumberValue(10)
	day.Cells["total"] = cell

	day = recalculate(testColumns, day)
	if !day.Cell("total").Value.IsNull() {
		t.Errorf("Cleared formula kept its value: %v", day.Cell("total").Value)
	}
}

func TestRecalculateChainsNonFiniteResults(t *testing.T) {
	cols := []Column{
		{Id: "x", Kind: Numberbox},
		{Id: "a", Kind: Formula},
		{Id: "b", Kind: Formula},
		{Id: "c", Kind: Formula},
		{Id: "d", Kind: Formula},
	}
	day := Day{Name: "2023-10-01", Cells: map[string]Cell{
		"x": {ColumnId: "x", Value: formula.NumberValue(0.0000001)},
	}}
	for id, text := range map[string]string{
		"a": "1 / 0",
		"b": "[a] + 1",
		"c": "[x] * 2",
		"d": "[b] - [a]",
	} {
		day.Cells[id] = Cell{ColumnId: id, Formula: text, Refs: formula.References(text)}
	}

	day = recalculate(cols, day)
	checkCells(t, day, map[string]string{
		"a": "Infinity",
		"b": "Infinity",
		"c": "2e-7",
		"d": "NaN",
	})
}
