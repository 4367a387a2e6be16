package sheets

import (
	"log"

	"acb/formula-columns/deps"
	"acb/formula-columns/formula"
)

const circularReference = "Circular reference"

// recalculate computes every formula cell of day, each after the formula
// cells it references. Cells on a reference cycle get an error value.
func recalculate(cols []Column, day Day) Day {
	result := Day{Name: day.Name, Cells: make(map[string]Cell, len(day.Cells))}
	for id, cell := range day.Cells {
		result.Cells[id] = cell
	}

	formulaDeps := []deps.Dependency{}
	for _, col := range cols {
		if col.Kind != Formula {
			continue
		}
		cell, ok := result.Cells[col.Id]
		if !ok {
			continue
		}
		if cell.Formula == "" {
			cell.Value = formula.NullValue()
			result.Cells[col.Id] = cell
			continue
		}
		refs := cell.Refs
		if refs == nil {
			refs = formula.References(cell.Formula)
		}
		formulaDeps = append(formulaDeps, deps.Dependency{Column: col.Id, References: refs})
	}

	ordered, cyclic := deps.Order(formulaDeps)
	for _, colId := range cyclic {
		cell := result.Cells[colId]
		cell.Value = formula.StringValue(formula.ErrorText(circularReference))
		result.Cells[colId] = cell
	}
	for _, colId := range ordered {
		cell := result.Cells[colId]
		cell.Value = formula.Evaluate(cell.Formula, rowContext(result, colId)).AsValue()
		result.Cells[colId] = cell
	}
	return result
}

// rowContext exposes every cell of the day except exclude.
func rowContext(day Day, exclude string) formula.Context {
	ctx := formula.Context{ColumnValues: make(map[string]formula.Value, len(day.Cells))}
	for id, cell := range day.Cells {
		if id != exclude {
			ctx.ColumnValues[id] = cell.Value
		}
	}
	return ctx
}

// Recalculate recomputes and stores the formula cells of day.
func (s *Sheet) Recalculate(day string) Day {
	before := LoadDay(day)
	after := recalculate(s.Columns, before)
	changed := 0
	for id, cell := range after.Cells {
		if old := before.Cells[id]; old.Value == cell.Value {
			continue
		}
		saveCell(cell)
		changed++
	}
	log.Printf("Recalculated %s: %d formula cells changed", day, changed)
	return after
}
