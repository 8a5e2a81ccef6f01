package storage

import (
	"errors"
	"fmt"
)

var (
	// row
	ErrStringTooLong = errors.New("string is too long")
	ErrSlotTooSmall  = errors.New("slot is smaller than a row")
	// pager
	ErrPageOutOfBounds = errors.New("page number out of bounds")
	ErrPageNotCached   = errors.New("page is not cached")
	ErrShortWrite      = errors.New("data written does not match flush size")
	ErrClosed          = errors.New("pager is closed")
	// table
	ErrTableFull = errors.New("table full")
)

// FatalError marks a failure the process should not try to recover from.
// Storage code only returns it, the entry point decides to exit
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(err error) error {
	return &FatalError{Err: err}
}

func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}
