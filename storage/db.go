package storage

import (
	"bytes"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Database is a generic interface for a key-value store.
// This allows the ledger to use any database backend (in-memory or persistent).
// Single-key reads and writes are atomic; multi-key atomicity is only offered
// through Batch.
type Database interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	// Iterate visits every key starting with prefix in ascending byte order.
	// Returning an error from fn stops the iteration and propagates the error.
	Iterate(prefix []byte, fn func(key, value []byte) error) error
	NewBatch() Batch
	Close() error
}

// Batch buffers writes and applies them atomically on Write.
type Batch interface {
	Put(key []byte, value []byte)
	Delete(key []byte)
	Len() int
	Write() error
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

// --- In-Memory DB (for testing) ---

type MemDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemDB() *MemDB {
	return &MemDB{
		data: make(map[string][]byte),
	}
}

func (db *MemDB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	value, ok := db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (db *MemDB) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

func (db *MemDB) Put(key []byte, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (db *MemDB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.data, string(key))
	return nil
}

func (db *MemDB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	db.mu.RLock()
	keys := make([]string, 0, len(db.data))
	for key := range db.data {
		if bytes.HasPrefix([]byte(key), prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = append([]byte(nil), db.data[key]...)
	}
	db.mu.RUnlock()

	for i, key := range keys {
		if err := fn([]byte(key), values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *MemDB) NewBatch() Batch {
	return &memBatch{db: db}
}

// Close satisfies the Database interface for MemDB.
func (db *MemDB) Close() error {
	// Nothing to close for an in-memory database.
	return nil
}

type memBatch struct {
	db  *MemDB
	ops []batchOp
}

func (b *memBatch) Put(key []byte, value []byte) {
	b.ops = append(b.ops, batchOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (b *memBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{key: append([]byte(nil), key...), delete: true})
}

func (b *memBatch) Len() int { return len(b.ops) }

func (b *memBatch) Write() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.data, string(op.key))
			continue
		}
		b.db.data[string(op.key)] = op.value
	}
	b.ops = nil
	return nil
}
