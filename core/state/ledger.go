package state

import (
	"fmt"

	"unichain/core/types"
)

// Account loads the account stored for addr. A missing record yields a
// zero-valued Normal account and found=false.
func (m *Manager) Account(addr types.Address) (*types.Account, bool, error) {
	data, ok, err := m.get(accountKey(addr))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return types.NewAccount(addr, types.AccountTypeNormal, 0), false, nil
	}
	acct, err := decodeAccount(data)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode account %s: %w", addr, err)
	}
	return acct, true, nil
}

// HasAccount reports whether a record exists for addr.
func (m *Manager) HasAccount(addr types.Address) (bool, error) {
	_, ok, err := m.get(accountKey(addr))
	return ok, err
}

// PutAccount persists acct under its own address.
func (m *Manager) PutAccount(acct *types.Account) error {
	if acct == nil {
		return fmt.Errorf("state: nil account")
	}
	encoded, err := encodeAccount(acct)
	if err != nil {
		return err
	}
	m.put(accountKey(acct.Address), encoded)
	return nil
}

// Accounts walks all stored accounts in address order.
func (m *Manager) Accounts(fn func(*types.Account) error) error {
	return m.iterate(accountPrefix, func(_, value []byte) error {
		acct, err := decodeAccount(value)
		if err != nil {
			return err
		}
		return fn(acct)
	})
}

// DelegatedResource loads the delegation record of the (from, to) pair. A
// missing record yields an empty record and found=false.
func (m *Manager) DelegatedResource(from, to types.Address) (*types.DelegatedResource, bool, error) {
	data, ok, err := m.get(delegatedResourceKey(from, to))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return types.NewDelegatedResource(from, to), false, nil
	}
	record, err := decodeDelegatedResource(data)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode delegated resource %s->%s: %w", from, to, err)
	}
	return record, true, nil
}

// PutDelegatedResource persists record under its (from, to) key.
func (m *Manager) PutDelegatedResource(record *types.DelegatedResource) error {
	if record == nil {
		return fmt.Errorf("state: nil delegated resource")
	}
	encoded, err := encodeDelegatedResource(record)
	if err != nil {
		return err
	}
	m.put(delegatedResourceKey(record.From, record.To), encoded)
	return nil
}

// DeleteDelegatedResource removes the record of the (from, to) pair.
func (m *Manager) DeleteDelegatedResource(from, to types.Address) error {
	m.remove(delegatedResourceKey(from, to))
	return nil
}

// DelegatedResources walks every delegation record in key order.
func (m *Manager) DelegatedResources(fn func(*types.DelegatedResource) error) error {
	return m.iterate(delegatedResourcePrefix, func(_, value []byte) error {
		record, err := decodeDelegatedResource(value)
		if err != nil {
			return err
		}
		return fn(record)
	})
}

// DelegationIndex loads the counterparty index of addr. A missing record
// yields an empty index and found=false.
func (m *Manager) DelegationIndex(addr types.Address) (*types.DelegatedResourceAccountIndex, bool, error) {
	data, ok, err := m.get(delegationIndexKey(addr))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return types.NewDelegatedResourceAccountIndex(addr), false, nil
	}
	index, err := decodeDelegationIndex(data)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode delegation index %s: %w", addr, err)
	}
	return index, true, nil
}

// PutDelegationIndex persists index under its account.
func (m *Manager) PutDelegationIndex(index *types.DelegatedResourceAccountIndex) error {
	if index == nil {
		return fmt.Errorf("state: nil delegation index")
	}
	encoded, err := encodeDelegationIndex(index)
	if err != nil {
		return err
	}
	m.put(delegationIndexKey(index.Account), encoded)
	return nil
}

// DeleteDelegationIndex removes the index of addr.
func (m *Manager) DeleteDelegationIndex(addr types.Address) error {
	m.remove(delegationIndexKey(addr))
	return nil
}

// DynamicProperties loads the chain parameters, falling back to the defaults
// of a fresh chain.
func (m *Manager) DynamicProperties() (*types.DynamicProperties, error) {
	data, ok, err := m.get(dynamicPropertiesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return types.DefaultDynamicProperties(), nil
	}
	props, err := decodeDynamicProperties(data)
	if err != nil {
		return nil, fmt.Errorf("state: decode dynamic properties: %w", err)
	}
	return props, nil
}

// HasDynamicProperties reports whether the chain parameters were ever stored.
func (m *Manager) HasDynamicProperties() (bool, error) {
	_, ok, err := m.get(dynamicPropertiesKey)
	return ok, err
}

// PutDynamicProperties persists the chain parameters.
func (m *Manager) PutDynamicProperties(props *types.DynamicProperties) error {
	if props == nil {
		return fmt.Errorf("state: nil dynamic properties")
	}
	encoded, err := encodeDynamicProperties(props)
	if err != nil {
		return err
	}
	m.put(dynamicPropertiesKey, encoded)
	return nil
}

// HeadBlockTimestamp returns the latest block header timestamp in milliseconds.
func (m *Manager) HeadBlockTimestamp() (int64, error) {
	props, err := m.DynamicProperties()
	if err != nil {
		return 0, err
	}
	return props.LatestBlockHeaderTimestamp, nil
}

// SetHeadBlockTimestamp records the header timestamp of the block being applied.
func (m *Manager) SetHeadBlockTimestamp(ts int64) error {
	props, err := m.DynamicProperties()
	if err != nil {
		return err
	}
	props.LatestBlockHeaderTimestamp = ts
	return m.PutDynamicProperties(props)
}
