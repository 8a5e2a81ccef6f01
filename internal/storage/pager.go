package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.rowstore/internal/logger"
)

type Options struct {
	// Create the file when it does not exist yet
	CreateIfMissing bool
	// fsync the file before closing it
	Sync bool
}

// dbFile is the part of *os.File the pager uses
type dbFile interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

// Pager caches the pages of a database file. Pages are read on first
// access and only leave the cache when the table flushes them on close.
// It is not safe for concurrent use
type Pager struct {
	file       dbFile
	fileLength int64
	pages      [TableMaxPages]*Page
	sync       bool
	log        *logger.Logger
}

func OpenPager(path string, opts Options, log *logger.Logger) (*Pager, error) {
	if log == nil {
		log = logger.Discard()
	}

	flag := os.O_RDWR
	if opts.CreateIfMissing {
		flag |= os.O_CREATE
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fatal(fmt.Errorf("unable to open db file %s: %w", path, err))
	}

	info, statErr := f.Stat()
	if statErr != nil {
		f.Close()
		return nil, fatal(fmt.Errorf("unable to stat db file %s: %w", path, statErr))
	}

	log.Infof("pager: opened %s (%d bytes)", path, info.Size())

	return &Pager{
		file:       f,
		fileLength: info.Size(),
		sync:       opts.Sync,
		log:        log,
	}, nil
}

func (pager *Pager) FileLength() int64 {
	return pager.fileLength
}

// Cached reports whether a page has been faulted into memory
func (pager *Pager) Cached(pageNum int) bool {
	if pageNum < 0 || pageNum >= TableMaxPages {
		return false
	}
	return pager.pages[pageNum] != nil
}

func checkPageNum(pageNum int) error {
	if pageNum < 0 || pageNum >= TableMaxPages {
		return fatal(fmt.Errorf("%w: %d (max %d)", ErrPageOutOfBounds, pageNum, TableMaxPages-1))
	}
	return nil
}

// GetPage returns the cached page, reading it from the file on a miss.
// All-zero row chunks on disk are left unmaterialized
func (pager *Pager) GetPage(pageNum int) (*Page, error) {
	if err := checkPageNum(pageNum); err != nil {
		return nil, err
	}

	if page := pager.pages[pageNum]; page != nil {
		return page, nil
	}

	if pager.file == nil {
		return nil, ErrClosed
	}

	page := NewPage(pageNum)

	numPages := pager.fileLength / PageSize
	// a partial page may be saved at the end of the file
	if pager.fileLength%PageSize > 0 {
		numPages++
	}

	if int64(pageNum) < numPages {
		buf := make([]byte, PageSize)
		n, err := pager.file.ReadAt(buf, int64(pageNum)*PageSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading page %d: %w", pageNum, err)
		}
		page.decode(buf)
		pager.log.Debugf("pager: faulted in page %d (%d bytes)", pageNum, n)
	} else {
		pager.log.Debugf("pager: allocated page %d", pageNum)
	}

	pager.pages[pageNum] = page
	return page, nil
}

// Flush writes the first size bytes of a cached page back to its offset in the file
func (pager *Pager) Flush(pageNum int, size int) error {
	if err := checkPageNum(pageNum); err != nil {
		return err
	}

	page := pager.pages[pageNum]
	if page == nil {
		return fmt.Errorf("flush page %d: %w", pageNum, ErrPageNotCached)
	}

	if pager.file == nil {
		return ErrClosed
	}

	if size < 0 || size > PageSize {
		return fmt.Errorf("flush page %d: invalid size %d", pageNum, size)
	}

	buf := page.encode()
	n, err := pager.file.WriteAt(buf[:size], int64(pageNum)*PageSize)
	if err != nil {
		return fmt.Errorf("flush page %d: %w", pageNum, err)
	}
	if n != size {
		return fmt.Errorf("flush page %d: %w: expected %d actual %d", pageNum, ErrShortWrite, size, n)
	}

	// an evicted page faults back in from disk only if it is inside fileLength
	if end := int64(pageNum)*PageSize + int64(size); end > pager.fileLength {
		pager.fileLength = end
	}

	pager.log.Debugf("pager: flushed page %d (%d bytes)", pageNum, size)
	return nil
}

func (pager *Pager) Evict(pageNum int) {
	if pageNum < 0 || pageNum >= TableMaxPages {
		return
	}
	pager.pages[pageNum] = nil
}

// Close releases the file handle. Pages still in the cache are not flushed
func (pager *Pager) Close() error {
	if pager.file == nil {
		return nil
	}

	if pager.sync {
		if err := pager.file.Sync(); err != nil {
			return fmt.Errorf("sync db file: %w", err)
		}
	}

	err := pager.file.Close()
	pager.file = nil
	pager.log.Infof("pager: closed")
	return err
}
