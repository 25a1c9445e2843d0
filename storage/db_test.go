package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Database {
	t.Helper()
	level, err := NewLevelDB(filepath.Join(t.TempDir(), "level"))
	require.NoError(t, err)
	bolt, err := NewBoltDB(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	dbs := map[string]Database{
		"memory":  NewMemDB(),
		"leveldb": level,
		"bolt":    bolt,
	}
	t.Cleanup(func() {
		for _, db := range dbs {
			db.Close()
		}
	})
	return dbs
}

func TestDatabaseGetPutDelete(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.Get([]byte("missing"))
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, db.Put([]byte("k"), []byte("v")))
			got, err := db.Get([]byte("k"))
			require.NoError(t, err)
			require.Equal(t, []byte("v"), got)

			ok, err := db.Has([]byte("k"))
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, db.Delete([]byte("k")))
			ok, err = db.Has([]byte("k"))
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestDatabaseIteratePrefixOrdered(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Put([]byte("account/b"), []byte("2")))
			require.NoError(t, db.Put([]byte("account/a"), []byte("1")))
			require.NoError(t, db.Put([]byte("other/c"), []byte("3")))

			var keys []string
			err := db.Iterate([]byte("account/"), func(key, value []byte) error {
				keys = append(keys, string(key))
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, []string{"account/a", "account/b"}, keys)

			stop := errors.New("stop")
			err = db.Iterate(nil, func(key, value []byte) error { return stop })
			require.ErrorIs(t, err, stop)
		})
	}
}

func TestDatabaseBatchAppliesAtomically(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Put([]byte("gone"), []byte("x")))

			batch := db.NewBatch()
			batch.Put([]byte("a"), []byte("1"))
			batch.Put([]byte("b"), []byte("2"))
			batch.Delete([]byte("gone"))
			require.Equal(t, 3, batch.Len())

			_, err := db.Get([]byte("a"))
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, batch.Write())
			require.Equal(t, 0, batch.Len())

			got, err := db.Get([]byte("b"))
			require.NoError(t, err)
			require.Equal(t, []byte("2"), got)
			_, err = db.Get([]byte("gone"))
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLevelDBPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db1, err := NewLevelDB(dir)
	require.NoError(t, err)
	require.NoError(t, db1.Put([]byte("key"), []byte("value")))
	require.NoError(t, db1.Close())

	db2, err := NewLevelDB(dir)
	require.NoError(t, err)
	defer db2.Close()
	got, err := db2.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	mem, err := Open(BackendMemory, "")
	require.NoError(t, err)
	require.IsType(t, &MemDB{}, mem)
	require.NoError(t, mem.Close())

	level, err := Open(BackendLevelDB, filepath.Join(dir, "level"))
	require.NoError(t, err)
	require.IsType(t, &LevelDB{}, level)
	require.NoError(t, level.Close())

	bolt, err := Open("Bolt", filepath.Join(dir, "bolt"))
	require.NoError(t, err)
	require.IsType(t, &BoltDB{}, bolt)
	require.NoError(t, bolt.Close())

	_, err = Open(BackendBolt, "")
	require.Error(t, err)
	_, err = Open("rocksdb", dir)
	require.EqualError(t, err, `storage: unknown backend "rocksdb"`)
}
