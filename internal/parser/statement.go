// Package parser turns one line of input into a Statement the engine can run.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"go.rowstore/internal/storage"
)

var (
	ErrSyntax                  = errors.New("syntax error")
	ErrUnrecognizedStatement   = errors.New("unrecognized statement")
	ErrUnrecognizedMetaCommand = errors.New("unrecognized command")
)

type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

func (t StatementType) String() string {
	switch t {
	case StatementInsert:
		return "insert"
	case StatementSelect:
		return "select"
	}
	return fmt.Sprintf("StatementType(%d)", int(t))
}

type Statement struct {
	Type StatementType
	// set for inserts only
	Row storage.Row
}

// statementGrammar matches a keyword followed by any number of words.
// Argument count and types are checked per statement after parsing
//
//nolint:govet // participle grammar tags are not standard struct tags
type statementGrammar struct {
	Keyword string   `@( "insert" | "select" )`
	Args    []string `@Word*`
}

// Every run of non-space characters is a word, so usernames and emails
// need no quoting
var statementLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `\S+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var statementParser = participle.MustBuild[statementGrammar](
	participle.Lexer(statementLexer),
	participle.Elide("Whitespace"),
)

// IsMetaCommand reports whether line is a dot-command such as .exit
func IsMetaCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ".")
}

func Prepare(line string) (*Statement, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("%w: empty input", ErrUnrecognizedStatement)
	}

	parsed, err := statementParser.ParseString("", line)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStatement, line)
	}

	switch parsed.Keyword {
	case "insert":
		return prepareInsert(line, parsed.Args)
	case "select":
		return &Statement{Type: StatementSelect}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStatement, line)
}

func prepareInsert(line string, args []string) (*Statement, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%w: insert takes <id> <username> <email>, got %q", ErrSyntax, line)
	}

	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse id %q", ErrSyntax, args[0])
	}

	row, err := storage.NewRow(uint32(id), args[1], args[2])
	if err != nil {
		return nil, err
	}

	return &Statement{Type: StatementInsert, Row: row}, nil
}
