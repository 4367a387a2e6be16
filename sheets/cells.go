package sheets

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/lib/pq"

	"acb/formula-columns/escape"
	"acb/formula-columns/formula"
)

// Cell is the content of one column on one day. Formula cells keep their
// last computed result in Value.
type Cell struct {
	ColumnId string
	Day      string
	Value    formula.Value
	Formula  string
	Refs     []string
}

func (c Cell) IsError() bool {
	return c.Value.Kind() == formula.KindString && formula.IsError(c.Value.Text())
}

// Day is one row of the sheet, keyed by column id.
type Day struct {
	Name  string
	Cells map[string]Cell
}

func (d Day) Cell(colId string) Cell {
	if cell, ok := d.Cells[colId]; ok {
		return cell
	}
	return Cell{ColumnId: colId, Day: d.Name}
}

type cellRow struct {
	ColumnId string         `db:"column_id"`
	Day      string         `db:"day"`
	Value    []byte         `db:"value"`
	Formula  string         `db:"formula"`
	Refs     pq.StringArray `db:"refs"`
}

func (row cellRow) cell() (Cell, error) {
	cell := Cell{
		ColumnId: row.ColumnId,
		Day:      row.Day,
		Formula:  row.Formula,
		Refs:     []string(row.Refs),
	}
	if len(row.Value) > 0 {
		if err := json.Unmarshal(row.Value, &cell.Value); err != nil {
			return Cell{}, fmt.Errorf("cell %s/%s: %w", row.Day, row.ColumnId, err)
		}
	}
	return cell, nil
}

func initCellsTable() {
	conn.MustExec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			column_id VARCHAR(255) NOT NULL REFERENCES %s (id)
			, "day" VARCHAR(32) NOT NULL
			, "value" JSONB NOT NULL DEFAULT 'null'
			, formula TEXT NOT NULL DEFAULT ''
			, refs TEXT[] NOT NULL DEFAULT '{}'
			, PRIMARY KEY (column_id, "day")
		)`, table("cells"), table("columns")))
	log.Println("Cells table exists")
}

func InitTables() {
	schema, err := escape.Identifier(Schema)
	Check(err)
	conn.MustExec("CREATE SCHEMA IF NOT EXISTS " + schema)
	initColumnsTable()
	initCellsTable()
}

// LoadDays lists the days that have at least one cell, newest first.
func LoadDays(limit int) []string {
	days := []string{}
	err := conn.Select(&days, fmt.Sprintf(`
		SELECT DISTINCT "day"
		FROM %s
		ORDER BY "day" DESC
		LIMIT $1`, table("cells")), limit)
	Check(err)
	return days
}

func LoadDay(day string) Day {
	rows := []cellRow{}
	err := conn.Select(&rows, fmt.Sprintf(`
		SELECT column_id
			, "day"
			, "value"
			, formula
			, refs
		FROM %s
		WHERE "day" = $1`, table("cells")), day)
	Check(err)

	d := Day{Name: day, Cells: make(map[string]Cell, len(rows))}
	for _, row := range rows {
		cell, err := row.cell()
		Check(err)
		d.Cells[cell.ColumnId] = cell
	}
	log.Printf("Retrieved %d cells for %s", len(d.Cells), day)
	return d
}

func saveCell(cell Cell) {
	value, err := json.Marshal(cell.Value)
	Check(err)
	refs := cell.Refs
	if refs == nil {
		refs = []string{}
	}
	conn.MustExec(fmt.Sprintf(`
		INSERT INTO %s (
			column_id
			, "day"
			, "value"
			, formula
			, refs
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (column_id, "day") DO UPDATE SET
			"value" = EXCLUDED."value"
			, formula = EXCLUDED.formula
			, refs = EXCLUDED.refs`, table("cells")),
		cell.ColumnId,
		cell.Day,
		string(value),
		cell.Formula,
		refs)
}

// SetValue stores an input value and recomputes the day's formulas.
func (s *Sheet) SetValue(colId, day string, value formula.Value) (Day, error) {
	col, ok := s.GetCol(colId)
	if !ok {
		return Day{}, fmt.Errorf("No such column: %s", colId)
	}
	if col.Kind == Formula {
		return Day{}, fmt.Errorf("Column %s holds a formula", col.Name)
	}
	saveCell(Cell{ColumnId: colId, Day: day, Value: value})
	return s.Recalculate(day), nil
}

// SetFormula stores a formula cell with its references and recomputes the
// day's formulas.
func (s *Sheet) SetFormula(colId, day, text string) (Day, error) {
	col, ok := s.GetCol(colId)
	if !ok {
		return Day{}, fmt.Errorf("No such column: %s", colId)
	}
	if col.Kind != Formula {
		return Day{}, fmt.Errorf("Column %s is a %s", col.Name, col.Kind)
	}
	saveCell(Cell{
		ColumnId: colId,
		Day:      day,
		Formula:  text,
		Refs:     formula.References(text),
	})
	return s.Recalculate(day), nil
}

// ImportFormula is SetFormula for formulas written in spreadsheet syntax,
// such as =SUM(price, tax).
func (s *Sheet) ImportFormula(colId, day, text string) (Day, error) {
	converted, err := formula.FromSpreadsheet(text)
	if err != nil {
		return Day{}, err
	}
	return s.SetFormula(colId, day, converted)
}
