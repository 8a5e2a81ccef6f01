package cli

import (
	"errors"
	"fmt"

	"go.rowstore/internal/parser"
)

// errExit tells Run the database was closed by .exit
var errExit = errors.New("exit")

func (r *REPL) doMetaCommand(input string) error {
	switch input {
	case ".exit":
		if err := r.db.Close(); err != nil {
			r.log.Errorf("repl: .exit: %v", err)
			return fmt.Errorf("closing database: %w", err)
		}
		r.log.Infof("repl: closed %s", r.db.Path())
		return errExit
	}
	return fmt.Errorf("%w '%s'", parser.ErrUnrecognizedMetaCommand, input)
}
