package state

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/trie"

	"unichain/core/types"
	"unichain/storage"
)

var (
	accountPrefix           = []byte("account/")
	delegatedResourcePrefix = []byte("delegated-resource/")
	delegationIndexPrefix   = []byte("delegation-index/")
	dynamicPropertiesKey    = []byte("dynamic-properties")
)

func accountKey(addr types.Address) []byte {
	return prefixed(accountPrefix, addr[:])
}

func delegatedResourceKey(from, to types.Address) []byte {
	return prefixed(delegatedResourcePrefix, types.DelegatedResourceKey(from, to))
}

func delegationIndexKey(addr types.Address) []byte {
	return prefixed(delegationIndexPrefix, addr[:])
}

func prefixed(prefix, suffix []byte) []byte {
	buf := make([]byte, len(prefix)+len(suffix))
	copy(buf, prefix)
	copy(buf[len(prefix):], suffix)
	return buf
}

// dirtyEntry is a pending write. A nil value marks a deletion.
type dirtyEntry struct {
	value []byte
}

// journalEntry remembers what a key looked like in the overlay before a write.
type journalEntry struct {
	key     string
	prev    *dirtyEntry
	hadPrev bool
}

// Manager is the ledger store consumed by the actuators. Reads fall through a
// write overlay to the database; writes stay in the overlay until Commit.
// Every overlay write is journaled so a contract's writes can be reverted.
type Manager struct {
	db      storage.Database
	dirty   map[string]*dirtyEntry
	journal []journalEntry
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db, dirty: make(map[string]*dirtyEntry)}
}

func (m *Manager) get(key []byte) ([]byte, bool, error) {
	if entry, ok := m.dirty[string(key)]; ok {
		if entry.value == nil {
			return nil, false, nil
		}
		return entry.value, true, nil
	}
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (m *Manager) set(key, value []byte) {
	k := string(key)
	prev, hadPrev := m.dirty[k]
	m.journal = append(m.journal, journalEntry{key: k, prev: prev, hadPrev: hadPrev})
	m.dirty[k] = &dirtyEntry{value: value}
}

func (m *Manager) put(key, value []byte) {
	m.set(key, append([]byte(nil), value...))
}

func (m *Manager) remove(key []byte) {
	m.set(key, nil)
}

// Snapshot returns an identifier for the current overlay state.
func (m *Manager) Snapshot() int {
	return len(m.journal)
}

// RevertToSnapshot undoes every write made after the snapshot was taken.
func (m *Manager) RevertToSnapshot(id int) error {
	if id < 0 || id > len(m.journal) {
		return fmt.Errorf("state: invalid snapshot %d (journal length %d)", id, len(m.journal))
	}
	for i := len(m.journal) - 1; i >= id; i-- {
		entry := m.journal[i]
		if entry.hadPrev {
			m.dirty[entry.key] = entry.prev
		} else {
			delete(m.dirty, entry.key)
		}
	}
	m.journal = m.journal[:id]
	return nil
}

// Pending reports the number of keys with uncommitted writes.
func (m *Manager) Pending() int {
	return len(m.dirty)
}

// Discard drops every uncommitted write.
func (m *Manager) Discard() {
	m.dirty = make(map[string]*dirtyEntry)
	m.journal = nil
}

// Commit flushes the overlay to the database in one batch and returns the
// resulting state root.
func (m *Manager) Commit() (common.Hash, error) {
	batch := m.db.NewBatch()
	for _, key := range m.dirtyKeys() {
		entry := m.dirty[key]
		if entry.value == nil {
			batch.Delete([]byte(key))
		} else {
			batch.Put([]byte(key), entry.value)
		}
	}
	if err := batch.Write(); err != nil {
		return common.Hash{}, fmt.Errorf("state: commit: %w", err)
	}
	m.Discard()
	return m.StateRoot()
}

func (m *Manager) dirtyKeys() []string {
	keys := make([]string, 0, len(m.dirty))
	for key := range m.dirty {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// iterate walks every live record under prefix in key order, overlay included.
func (m *Manager) iterate(prefix []byte, fn func(key, value []byte) error) error {
	merged := make(map[string][]byte)
	err := m.db.Iterate(prefix, func(key, value []byte) error {
		merged[string(key)] = value
		return nil
	})
	if err != nil {
		return err
	}
	for key, entry := range m.dirty {
		if !bytes.HasPrefix([]byte(key), prefix) {
			continue
		}
		if entry.value == nil {
			delete(merged, key)
			continue
		}
		merged[key] = entry.value
	}
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := fn([]byte(key), merged[key]); err != nil {
			return err
		}
	}
	return nil
}

// StateRoot hashes every live record into a Merkle-Patricia root. Keys are
// hashed with keccak256 as in a secure trie, so the root depends only on the
// record contents and not on the backend or write order.
func (m *Manager) StateRoot() (common.Hash, error) {
	type leaf struct {
		key   []byte
		value []byte
	}
	var leaves []leaf
	err := m.iterate(nil, func(key, value []byte) error {
		leaves = append(leaves, leaf{key: ethcrypto.Keccak256(key), value: value})
		return nil
	})
	if err != nil {
		return common.Hash{}, err
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].key, leaves[j].key) < 0
	})
	st := trie.NewStackTrie(nil)
	for _, l := range leaves {
		if err := st.Update(l.key, l.value); err != nil {
			return common.Hash{}, err
		}
	}
	return st.Hash(), nil
}
