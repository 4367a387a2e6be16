package main

import (
	"log"
	"net/http"
	"os"

	"acb/formula-columns/sheets"
)

func main() {
	conn := sheets.Open()
	defer conn.Close()

	sheets.InitTables()
	sheets.GlobalSheet.LoadColumns()

	http.HandleFunc("/", handleIndex)
	http.HandleFunc("/column", handleAddCol)
	http.HandleFunc("/column/rename", handleRenameCol)
	http.HandleFunc("/column/hide", handleSetColHidden)
	http.HandleFunc("/cell", handleSetCell)
	http.HandleFunc("/cell/import", handleImportCell)

	fs := http.FileServer(http.Dir("static"))
	http.Handle("/static/", http.StripPrefix("/static/", fs))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("Listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
