package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
)

// Open returns the database for backend rooted at dataDir. The memory backend
// ignores dataDir.
func Open(backend, dataDir string) (Database, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemDB(), nil
	case BackendLevelDB, "":
		if strings.TrimSpace(dataDir) == "" {
			return nil, fmt.Errorf("storage: data dir required for %s", BackendLevelDB)
		}
		return NewLevelDB(filepath.Join(dataDir, "ledger"))
	case BackendBolt:
		if strings.TrimSpace(dataDir) == "" {
			return nil, fmt.Errorf("storage: data dir required for %s", BackendBolt)
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, err
		}
		return NewBoltDB(filepath.Join(dataDir, "ledger.db"), nil)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
