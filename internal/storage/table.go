package storage

import (
	"fmt"

	"go.rowstore/internal/logger"
)

// Table is a dense sequence of rows stored RowsPerPage to a page.
// It owns its Pager and is the only writer of the row count
type Table struct {
	pager   *Pager
	numRows int
	log     *logger.Logger
}

func OpenTable(path string, opts Options, log *logger.Logger) (*Table, error) {
	if log == nil {
		log = logger.Discard()
	}

	pager, err := OpenPager(path, opts, log)
	if err != nil {
		return nil, err
	}

	numRows := rowsForLength(pager.FileLength())
	if numRows > TableMaxRows {
		log.Warnf("table: file holds %d rows, capping at %d", numRows, TableMaxRows)
		numRows = TableMaxRows
	}

	log.Infof("table: %s has %d rows", path, numRows)

	return &Table{
		pager:   pager,
		numRows: numRows,
		log:     log,
	}, nil
}

// rowsForLength counts the rows in a file written by Close. Full pages
// carry PageSize-RowsPerPage*RowSize bytes of padding, the last page has none.
// A trailing fragment shorter than a row is ignored
func rowsForLength(length int64) int {
	fullPages := length / PageSize
	rest := length % PageSize
	return int(fullPages)*RowsPerPage + int(rest/RowSize)
}

func (t *Table) NumRows() int {
	return t.numRows
}

func (t *Table) Full() bool {
	return t.numRows >= TableMaxRows
}

func (t *Table) Pager() *Pager {
	return t.pager
}

// locate maps a row index to its page and slot
func locate(rowNum int) (pageNum, slot int) {
	return rowNum / RowsPerPage, rowNum % RowsPerPage
}

// Insert appends row at the end of the table
func (t *Table) Insert(row Row) error {
	if t.Full() {
		return ErrTableFull
	}

	cursor := t.End()
	slot, err := cursor.Value()
	if err != nil {
		return err
	}

	if err := row.Serialize(slot); err != nil {
		return err
	}

	t.numRows++
	return nil
}

// Close flushes every materialized page covered by the row count and
// closes the pager. On a flush error the failing page and everything
// after it stay cached
func (t *Table) Close() error {
	fullPages := t.numRows / RowsPerPage

	for i := 0; i < fullPages; i++ {
		if !t.pager.Cached(i) {
			continue
		}
		if err := t.pager.Flush(i, PageSize); err != nil {
			return err
		}
		t.pager.Evict(i)
	}

	if extra := t.numRows % RowsPerPage; extra > 0 {
		pageNum := fullPages
		if t.pager.Cached(pageNum) {
			if err := t.pager.Flush(pageNum, extra*RowSize); err != nil {
				return err
			}
			t.pager.Evict(pageNum)
		}
	}

	if err := t.pager.Close(); err != nil {
		return fmt.Errorf("close pager: %w", err)
	}

	t.log.Infof("table: closed with %d rows", t.numRows)
	return nil
}
