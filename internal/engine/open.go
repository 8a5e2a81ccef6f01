package engine

import (
	"go.rowstore/internal/logger"
	"go.rowstore/internal/storage"
)

type Options struct {
	CreateIfMissing bool
	Sync            bool
}

// Open loads the table stored at path. An error here is fatal for the
// process: the caller has nothing to run statements against
func Open(path string, opts Options, log *logger.Logger) (*Database, error) {
	if log == nil {
		log = logger.Discard()
	}

	table, err := storage.OpenTable(path, storage.Options{
		CreateIfMissing: opts.CreateIfMissing,
		Sync:            opts.Sync,
	}, log)
	if err != nil {
		return nil, err
	}

	return &Database{
		table: table,
		path:  path,
		log:   log,
	}, nil
}
