package storage_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rowstore/internal/storage"
)

func openTable(t *testing.T, path string) *storage.Table {
	t.Helper()
	table, err := storage.OpenTable(path, createOpts, nil)
	require.NoError(t, err)
	return table
}

func scan(t *testing.T, table *storage.Table) []storage.Row {
	t.Helper()
	var rows []storage.Row
	for c := table.Start(); !c.EndOfTable(); c.Advance() {
		row, err := c.Row()
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func insertN(t *testing.T, table *storage.Table, n int) []storage.Row {
	t.Helper()
	rows := make([]storage.Row, 0, n)
	for i := 0; i < n; i++ {
		row, err := storage.NewRow(uint32(i+1), fmt.Sprintf("user%d", i+1), fmt.Sprintf("user%d@example.com", i+1))
		require.NoError(t, err)
		require.NoError(t, table.Insert(row), "insert %d", i+1)
		rows = append(rows, row)
	}
	return rows
}

func TestInsertionOrder(t *testing.T) {
	table := openTable(t, tempDB(t))
	defer table.Close()

	want := insertN(t, table, 3)
	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, want, scan(t, table))
}

func TestInsertionOrderAcrossPages(t *testing.T) {
	table := openTable(t, tempDB(t))
	defer table.Close()

	want := insertN(t, table, 3*storage.RowsPerPage+5)
	assert.Equal(t, want, scan(t, table))
}

func TestTableFull(t *testing.T) {
	table := openTable(t, tempDB(t))
	defer table.Close()

	insertN(t, table, storage.TableMaxRows)
	require.True(t, table.Full())

	err := table.Insert(storage.Row{ID: 9999, Username: "late", Email: "late@x"})
	assert.ErrorIs(t, err, storage.ErrTableFull)
	assert.False(t, storage.IsFatal(err))
	assert.Equal(t, storage.TableMaxRows, table.NumRows())
}

func TestDurabilityAcrossReopen(t *testing.T) {
	path := tempDB(t)

	table := openTable(t, path)
	alice, err := storage.NewRow(1, "alice", "a@x.com")
	require.NoError(t, err)
	bob, err := storage.NewRow(2, "bob", "b@y.com")
	require.NoError(t, err)
	require.NoError(t, table.Insert(alice))
	require.NoError(t, table.Insert(bob))
	require.NoError(t, table.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2*storage.RowSize), info.Size())

	reopened := openTable(t, path)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.NumRows())
	assert.Equal(t, []storage.Row{alice, bob}, scan(t, reopened))
}

func TestReopenManyPages(t *testing.T) {
	// enough full pages for their padding to add up to more than a row
	for _, n := range []int{storage.RowsPerPage, 2*storage.RowsPerPage + 2, 20*storage.RowsPerPage + 3} {
		t.Run(fmt.Sprintf("rows=%d", n), func(t *testing.T) {
			path := tempDB(t)

			table := openTable(t, path)
			want := insertN(t, table, n)
			require.NoError(t, table.Close())

			reopened := openTable(t, path)
			defer reopened.Close()

			assert.Equal(t, n, reopened.NumRows())
			assert.Equal(t, want, scan(t, reopened))
		})
	}
}

func TestAppendAfterReopen(t *testing.T) {
	path := tempDB(t)

	table := openTable(t, path)
	first := insertN(t, table, storage.RowsPerPage+1)
	require.NoError(t, table.Close())

	table = openTable(t, path)
	extra, err := storage.NewRow(100, "carol", "c@z.com")
	require.NoError(t, err)
	require.NoError(t, table.Insert(extra))
	require.NoError(t, table.Close())

	table = openTable(t, path)
	defer table.Close()
	assert.Equal(t, append(first, extra), scan(t, table))
}

func TestLazyMaterialization(t *testing.T) {
	path := tempDB(t)
	const n = storage.RowsPerPage + 6

	table := openTable(t, path)
	insertN(t, table, n)
	require.NoError(t, table.Close())

	table = openTable(t, path)
	defer table.Close()

	for i := 0; i < storage.TableMaxPages; i++ {
		assert.False(t, table.Pager().Cached(i))
	}

	scan(t, table)

	lastPage := (n+storage.RowsPerPage-1)/storage.RowsPerPage - 1
	for i := 0; i < storage.TableMaxPages; i++ {
		assert.Equal(t, i <= lastPage, table.Pager().Cached(i), "page %d", i)
	}
}

func TestCloseEmptyTable(t *testing.T) {
	path := tempDB(t)

	table := openTable(t, path)
	assert.True(t, table.Start().EndOfTable())
	require.NoError(t, table.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestCloseEvictsPages(t *testing.T) {
	table := openTable(t, tempDB(t))
	insertN(t, table, storage.RowsPerPage+1)

	require.True(t, table.Pager().Cached(0))
	require.True(t, table.Pager().Cached(1))
	require.NoError(t, table.Close())

	assert.False(t, table.Pager().Cached(0))
	assert.False(t, table.Pager().Cached(1))
}

func TestTrailingFragmentIgnored(t *testing.T) {
	path := tempDB(t)

	table := openTable(t, path)
	want := insertN(t, table, 2)
	require.NoError(t, table.Close())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table = openTable(t, path)
	defer table.Close()
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, want, scan(t, table))
}
