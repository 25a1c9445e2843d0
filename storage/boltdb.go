package storage

import (
	"bytes"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ledgerBucket = []byte("ledger")

// BoltDB is a persistent key-value store backed by a single bbolt bucket.
type BoltDB struct {
	db *bolt.DB
}

// NewBoltDB opens (or creates) the bbolt file at path.
func NewBoltDB(path string, options *bolt.Options) (*BoltDB, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(ledgerBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &BoltDB{db: db}, nil
}

func (b *BoltDB) Get(key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(ledgerBucket).Get(key)
		if raw == nil {
			return ErrNotFound
		}
		// bbolt values are only valid for the lifetime of the transaction.
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BoltDB) Has(key []byte) (bool, error) {
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(ledgerBucket).Get(key) != nil
		return nil
	})
	return found, err
}

func (b *BoltDB) Put(key []byte, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ledgerBucket).Put(key, value)
	})
}

func (b *BoltDB) Delete(key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ledgerBucket).Delete(key)
	})
}

func (b *BoltDB) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(ledgerBucket).Cursor()
		for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
			if err := fn(append([]byte(nil), k...), append([]byte(nil), v...)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltDB) NewBatch() Batch {
	return &boltBatch{db: b.db}
}

func (b *BoltDB) Close() error {
	return b.db.Close()
}

type boltBatch struct {
	db  *bolt.DB
	ops []batchOp
}

func (b *boltBatch) Put(key []byte, value []byte) {
	b.ops = append(b.ops, batchOp{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (b *boltBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{key: append([]byte(nil), key...), delete: true})
}

func (b *boltBatch) Len() int { return len(b.ops) }

func (b *boltBatch) Write() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(ledgerBucket)
		for _, op := range b.ops {
			if op.delete {
				if err := bucket.Delete(op.key); err != nil {
					return err
				}
				continue
			}
			if err := bucket.Put(op.key, op.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.ops = nil
	return nil
}
