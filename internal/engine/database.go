package engine

import (
	"errors"
	"sync"

	"go.rowstore/internal/logger"
	"go.rowstore/internal/storage"
)

var ErrClosed = errors.New("database is closed")

// Database serializes all access to one table. Every method holds the
// lock for the whole call, reads included, since reading a row can
// fault pages into the cache
type Database struct {
	mu     sync.Mutex
	table  *storage.Table
	path   string
	closed bool
	log    *logger.Logger
}

func (db *Database) Path() string {
	return db.path
}

func (db *Database) NumRows() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.table.NumRows()
}

func (db *Database) Insert(row storage.Row) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	if err := db.table.Insert(row); err != nil {
		db.log.Warnf("insert %d: %v", row.ID, err)
		return err
	}

	db.log.Debugf("inserted row %d at position %d", row.ID, db.table.NumRows()-1)
	return nil
}

// Scan calls fn for every row in insertion order and stops at the first error
func (db *Database) Scan(fn func(storage.Row) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	for c := db.table.Start(); !c.EndOfTable(); c.Advance() {
		row, err := c.Row()
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the table to disk. After a failed flush the database
// stays open so Close can be retried
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}

	if err := db.table.Close(); err != nil {
		return err
	}

	db.closed = true
	return nil
}
