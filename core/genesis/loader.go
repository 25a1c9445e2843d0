package genesis

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"unichain/core/state"
	"unichain/storage"
)

// Apply writes the genesis accounts and dynamic properties into manager
// without committing. Accounts are written in address order.
func Apply(spec *GenesisSpec, manager *state.Manager) error {
	if spec == nil {
		return fmt.Errorf("genesis spec must not be nil")
	}
	if manager == nil {
		return fmt.Errorf("state manager must not be nil")
	}
	if err := manager.PutDynamicProperties(spec.DynamicProperties()); err != nil {
		return fmt.Errorf("dynamic properties: %w", err)
	}
	accounts := spec.GenesisAccounts()
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address.Compare(accounts[j].Address) < 0
	})
	for _, acct := range accounts {
		if err := manager.PutAccount(acct); err != nil {
			return fmt.Errorf("account %s: %w", acct.Address, err)
		}
	}
	return nil
}

// BuildGenesisFromSpec applies spec to an empty database and commits it,
// returning the genesis state root.
func BuildGenesisFromSpec(spec *GenesisSpec, db storage.Database) (common.Hash, error) {
	if db == nil {
		return common.Hash{}, fmt.Errorf("database must not be nil")
	}
	manager := state.NewManager(db)
	found, err := manager.HasDynamicProperties()
	if err != nil {
		return common.Hash{}, err
	}
	if found {
		return common.Hash{}, fmt.Errorf("database already initialised")
	}
	if err := Apply(spec, manager); err != nil {
		return common.Hash{}, err
	}
	root, err := manager.Commit()
	if err != nil {
		return common.Hash{}, fmt.Errorf("commit genesis: %w", err)
	}
	return root, nil
}
