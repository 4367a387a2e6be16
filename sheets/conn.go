package sheets

import (
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"acb/formula-columns/escape"
)

var conn *sqlx.DB

// Schema holds every table this package creates.
var Schema = "formula_columns"

func Open() *sqlx.DB {
	var err error
	conn, err = sqlx.Open("pgx", os.Getenv("DATABASE_URL"))
	Check(err)
	return conn
}

func Check(e error) {
	if e != nil {
		panic(e)
	}
}

// table returns the quoted, schema-qualified name of one of our tables.
func table(name string) string {
	identifier, err := escape.Identifier(Schema + "." + name)
	Check(err)
	return identifier
}
