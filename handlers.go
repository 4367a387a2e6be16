package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"

	"acb/formula-columns/formula"
	"acb/formula-columns/sheets"
)

const dayLayout = "2006-01-02"

// sheetLock guards sheets.GlobalSheet between requests.
var sheetLock sync.Mutex

func writeError(w http.ResponseWriter, text string) {
	w.Header().Add("Content-Type", "text/html")
	w.WriteHeader(http.StatusBadRequest)
	w.Write([]byte("<span class=\"error\">" + templ.EscapeString(text) + "</span>"))
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// formDay reads and validates the day a cell belongs to.
func formDay(w http.ResponseWriter, r *http.Request) (string, bool) {
	day := r.FormValue("day")
	if _, err := time.Parse(dayLayout, day); err != nil {
		writeError(w, "Invalid day: "+day)
		return "", false
	}
	return day, true
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sheetLock.Lock()
	defer sheetLock.Unlock()
	reRenderSheet(w, r)
}

func reRenderSheet(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(dayLayout)
	days := []sheets.Day{}
	for _, name := range withDay(sheets.LoadDays(30), today) {
		days = append(days, sheets.LoadDay(name))
	}
	templ.Handler(index(sheets.GlobalSheet, days)).ServeHTTP(w, r)
}

// withDay puts day first unless it is already listed.
func withDay(days []string, day string) []string {
	for _, d := range days {
		if d == day {
			return days
		}
	}
	return append([]string{day}, days...)
}

func handleAddCol(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	kind, err := sheets.ParseColumnKind(r.FormValue("kind"))
	if err != nil {
		writeError(w, err.Error())
		return
	}
	sheetLock.Lock()
	defer sheetLock.Unlock()
	sheets.GlobalSheet.AddColumn(r.FormValue("name"), kind)
	reRenderSheet(w, r)
}

func handleRenameCol(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	colName := r.FormValue("col_name")
	if colName == "" {
		writeError(w, "Missing required key: col_name")
		return
	}
	sheetLock.Lock()
	defer sheetLock.Unlock()
	if err := sheets.GlobalSheet.RenameColumn(r.FormValue("col_id"), colName); err != nil {
		writeError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleSetColHidden(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	hide := r.FormValue("hide") == "true"
	sheetLock.Lock()
	defer sheetLock.Unlock()
	if err := sheets.GlobalSheet.SetHidden(r.FormValue("col_id"), hide); err != nil {
		writeError(w, err.Error())
		return
	}
	reRenderSheet(w, r)
}

func handleSetCell(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	day, ok := formDay(w, r)
	if !ok {
		return
	}
	sheetLock.Lock()
	defer sheetLock.Unlock()

	colId := r.FormValue("col_id")
	col, found := sheets.GlobalSheet.GetCol(colId)
	if !found {
		writeError(w, "No such column: "+colId)
		return
	}

	edit, err := parseCellEdit(col, r)
	if err != nil {
		writeError(w, err.Error())
		return
	}
	var d sheets.Day
	if edit.isFormula {
		d, err = sheets.GlobalSheet.SetFormula(colId, day, edit.formula)
	} else {
		d, err = sheets.GlobalSheet.SetValue(colId, day, edit.value)
	}
	if err != nil {
		writeError(w, err.Error())
		return
	}
	templ.Handler(dayRow(sheets.GlobalSheet, d)).ServeHTTP(w, r)
}

// cellEdit is a submitted cell: a formula for formula columns, otherwise
// a value parsed for the column's editor.
type cellEdit struct {
	isFormula bool
	formula   string
	value     formula.Value
}

func parseCellEdit(col sheets.Column, r *http.Request) (cellEdit, error) {
	if col.Kind == sheets.Formula {
		return cellEdit{isFormula: true, formula: r.FormValue("formula")}, nil
	}
	value, err := sheets.ParseInput(col.Kind, r.FormValue("value"))
	if err != nil {
		return cellEdit{}, err
	}
	return cellEdit{value: value}, nil
}

func handleImportCell(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	day, ok := formDay(w, r)
	if !ok {
		return
	}
	sheetLock.Lock()
	defer sheetLock.Unlock()

	d, err := sheets.GlobalSheet.ImportFormula(r.FormValue("col_id"), day, r.FormValue("formula"))
	if err != nil {
		writeError(w, err.Error())
		return
	}
	templ.Handler(dayRow(sheets.GlobalSheet, d)).ServeHTTP(w, r)
}
