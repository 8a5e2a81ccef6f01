package engine

import (
	"fmt"
	"io"

	"go.rowstore/internal/parser"
	"go.rowstore/internal/storage"
)

// Execute runs stmt against the database. Selected rows are written to w
// one per line
func (db *Database) Execute(stmt *parser.Statement, w io.Writer) error {
	switch stmt.Type {
	case parser.StatementInsert:
		return db.Insert(stmt.Row)
	case parser.StatementSelect:
		return db.Scan(func(row storage.Row) error {
			_, err := fmt.Fprintln(w, row)
			return err
		})
	}
	return fmt.Errorf("unknown statement type %v", stmt.Type)
}
