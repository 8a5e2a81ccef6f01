package storage

// Cursor points at one row position of a Table. It holds no buffers of its
// own: Value hands out the slot that lives in the pager's cache
type Cursor struct {
	table      *Table
	rowNum     int
	endOfTable bool
}

// Start returns a cursor on the first row, used for full scans
func (t *Table) Start() *Cursor {
	return &Cursor{
		table:      t,
		rowNum:     0,
		endOfTable: t.numRows == 0,
	}
}

// End returns a cursor one past the last row. It only locates the next
// append slot and is never advanced
func (t *Table) End() *Cursor {
	return &Cursor{
		table:      t,
		rowNum:     t.numRows,
		endOfTable: true,
	}
}

func (c *Cursor) RowNum() int {
	return c.rowNum
}

func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Value returns the slot for the current row. Writes to the returned slice
// land in the cached page. An unmaterialized slot is zero-filled first, so
// this can fault in a page even when the caller only reads
func (c *Cursor) Value() ([]byte, error) {
	pageNum, slot := locate(c.rowNum)

	page, err := c.table.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	return page.Slot(slot), nil
}

func (c *Cursor) Row() (Row, error) {
	buf, err := c.Value()
	if err != nil {
		return Row{}, err
	}
	return DeserializeRow(buf)
}

func (c *Cursor) Advance() {
	c.rowNum++
	if c.rowNum >= c.table.numRows {
		c.endOfTable = true
	}
}
