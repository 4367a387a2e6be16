package sheets

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"acb/formula-columns/formula"
)

type ColumnKind string

const (
	Checkbox  ColumnKind = "checkbox"
	Textbox   ColumnKind = "textbox"
	Numberbox ColumnKind = "numberbox"
	Formula   ColumnKind = "formula"
)

var columnKinds = []ColumnKind{Checkbox, Textbox, Numberbox, Formula}

func ParseColumnKind(s string) (ColumnKind, error) {
	for _, kind := range columnKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("Unsupported column type: %s", s)
}

// Column is a typed column of the sheet. Id is the key formulas use to
// reference it, as in [id]; it never changes after creation.
type Column struct {
	Id       string     `db:"id"`
	Name     string     `db:"name"`
	Kind     ColumnKind `db:"kind"`
	Position int        `db:"position"`
	Hide     bool       `db:"hide"`
}

// Sheet is the set of columns shared by every day.
type Sheet struct {
	Columns []Column
}

var GlobalSheet Sheet

const defaultColNameChars string = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// defaultColumnName names columns A..Z, AA..AZ, BA.. by position.
func defaultColumnName(i int) string {
	name := ""
	for i >= 0 {
		name = defaultColNameChars[i%len(defaultColNameChars):i%len(defaultColNameChars)+1] + name
		i = i/len(defaultColNameChars) - 1
	}
	return name
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]+`)

// columnKey derives a reference key from a display name, adding a numeric
// suffix until taken reports it free.
func columnKey(name string, taken func(string) bool) string {
	base := strings.Trim(nonKeyChars.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if base == "" {
		base = "col"
	}
	key := base
	for i := 2; taken(key); i++ {
		key = fmt.Sprintf("%s_%d", base, i)
	}
	return key
}

func initColumnsTable() {
	conn.MustExec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY
			, "name" VARCHAR(255) NOT NULL
			, kind VARCHAR(16) NOT NULL
			, position INT NOT NULL
			, hide BOOLEAN NOT NULL DEFAULT false
		)`, table("columns")))
	log.Println("Columns table exists")
}

func (s *Sheet) LoadColumns() {
	s.Columns = make([]Column, 0, 20)
	err := conn.Select(&s.Columns, fmt.Sprintf(`
		SELECT id
			, "name"
			, kind
			, position
			, hide
		FROM %s
		ORDER BY position`, table("columns")))
	Check(err)
	log.Printf("Loaded %d columns", len(s.Columns))
}

func (s Sheet) GetCol(id string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Id == id {
			return col, true
		}
	}
	return Column{}, false
}

func (s Sheet) VisibleCols() []Column {
	cols := make([]Column, 0, len(s.Columns))
	for _, col := range s.Columns {
		if !col.Hide {
			cols = append(cols, col)
		}
	}
	return cols
}

func (s *Sheet) AddColumn(name string, kind ColumnKind) Column {
	if name == "" {
		name = defaultColumnName(len(s.Columns))
	}
	col := Column{
		Id: columnKey(name, func(key string) bool {
			_, ok := s.GetCol(key)
			return ok
		}),
		Name:     name,
		Kind:     kind,
		Position: len(s.Columns),
	}
	log.Printf("Adding %s column %s (%s)", kind, col.Name, col.Id)
	conn.MustExec(fmt.Sprintf(`
		INSERT INTO %s (
			id
			, "name"
			, kind
			, position
		) VALUES (
			$1, $2, $3, $4
		)`, table("columns")),
		col.Id,
		col.Name,
		col.Kind,
		col.Position)
	s.Columns = append(s.Columns, col)
	return col
}

func (s *Sheet) RenameColumn(id, name string) error {
	return s.updateCol(id, func(col *Column) {
		col.Name = name
	})
}

func (s *Sheet) SetHidden(id string, hide bool) error {
	return s.updateCol(id, func(col *Column) {
		col.Hide = hide
	})
}

func (s *Sheet) updateCol(id string, update func(*Column)) error {
	for i := range s.Columns {
		if s.Columns[i].Id != id {
			continue
		}
		update(&s.Columns[i])
		col := s.Columns[i]
		conn.MustExec(fmt.Sprintf(`
			UPDATE %s SET
				"name" = $2
				, hide = $3
			WHERE id = $1`, table("columns")),
			col.Id,
			col.Name,
			col.Hide)
		log.Printf("Updated column %s", col.Id)
		return nil
	}
	return fmt.Errorf("No such column: %s", id)
}

// ParseInput converts text submitted for a column into the value its editor
// holds. Empty input clears the cell.
func ParseInput(kind ColumnKind, text string) (formula.Value, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case Checkbox:
		return formula.BoolValue(text == "true" || text == "on"), nil
	case Numberbox:
		if text == "" {
			return formula.NullValue(), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return formula.Value{}, fmt.Errorf("Not a number: %s", text)
		}
		return formula.NumberValue(f), nil
	case Textbox:
		if text == "" {
			return formula.NullValue(), nil
		}
		return formula.StringValue(text), nil
	}
	return formula.Value{}, fmt.Errorf("Column type %s takes a formula", kind)
}
