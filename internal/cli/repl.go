package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.rowstore/internal/engine"
	"go.rowstore/internal/logger"
	"go.rowstore/internal/parser"
	"go.rowstore/internal/storage"
)

// MaxLineSize bounds one line of input. Longer lines end the session,
// after the database has been flushed
const MaxLineSize = 1024 * 1024

// REPL reads one command per line and runs it against db.
// Errors from a single command are printed and the loop carries on,
// only fatal storage errors end it
type REPL struct {
	db     *engine.Database
	in     io.Reader
	out    io.Writer
	prompt string
	log    *logger.Logger
}

func NewREPL(db *engine.Database, in io.Reader, out io.Writer, prompt string, log *logger.Logger) *REPL {
	if log == nil {
		log = logger.Discard()
	}
	return &REPL{
		db:     db,
		in:     in,
		out:    out,
		prompt: prompt,
		log:    log,
	}
}

// Run returns nil once the database has been closed by .exit or at end of input
func (r *REPL) Run() error {
	reader := bufio.NewScanner(r.in)
	reader.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for {
		fmt.Fprint(r.out, r.prompt)

		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				r.log.Errorf("repl: reading input: %v", err)
				return errors.Join(err, r.db.Close())
			}
			fmt.Fprintln(r.out)
			r.log.Infof("repl: end of input, closing %s", r.db.Path())
			return r.db.Close()
		}

		input := strings.TrimSpace(reader.Text())

		// Check for blank input
		if input == "" {
			continue
		}

		if parser.IsMetaCommand(input) {
			err := r.doMetaCommand(input)
			if errors.Is(err, errExit) {
				return nil
			}
			if err != nil {
				if storage.IsFatal(err) {
					return err
				}
				r.printError(err)
			}
			continue
		}

		stmt, err := parser.Prepare(input)
		if err != nil {
			r.printError(err)
			continue
		}

		if err := r.db.Execute(stmt, r.out); err != nil {
			if storage.IsFatal(err) {
				r.log.Errorf("repl: %s: %v", stmt.Type, err)
				return err
			}
			r.printError(err)
			continue
		}

		fmt.Fprintln(r.out, "Executed.")
	}
}

func (r *REPL) printError(err error) {
	r.log.Debugf("repl: %v", err)
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
