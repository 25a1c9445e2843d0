package types

import (
	"fmt"
	"strings"
)

// AccountType distinguishes user accounts from contract accounts.
type AccountType uint8

const (
	AccountTypeNormal     AccountType = 0
	AccountTypeAssetIssue AccountType = 1
	AccountTypeContract   AccountType = 2
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeNormal:
		return "Normal"
	case AccountTypeAssetIssue:
		return "AssetIssue"
	case AccountTypeContract:
		return "Contract"
	default:
		return "Unknown"
	}
}

// ParseAccountType resolves the names produced by String. The empty string
// maps to Normal.
func ParseAccountType(name string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return AccountTypeNormal, nil
	case "assetissue":
		return AccountTypeAssetIssue, nil
	case "contract":
		return AccountTypeContract, nil
	default:
		return 0, fmt.Errorf("unknown account type %q", name)
	}
}

// Frozen is a single own-stake slot.
type Frozen struct {
	FrozenBalance int64 `json:"frozenBalance"`
	ExpireTime    int64 `json:"expireTime"`
}

// Account is the ledger view of one address: spendable balance plus the
// resource bookkeeping fed by freeze and delegation flows.
type Account struct {
	Address    Address     `json:"address"`
	Type       AccountType `json:"type"`
	Balance    int64       `json:"balance"`
	CreateTime int64       `json:"createTime"`

	// Frozen holds the own bandwidth stake. Consensus keeps at most one slot.
	Frozen          []Frozen `json:"frozen,omitempty"`
	FrozenForEnergy Frozen   `json:"frozenForEnergy"`

	DelegatedFrozenBalanceForBandwidth         int64 `json:"delegatedFrozenBalanceForBandwidth"`
	DelegatedFrozenBalanceForEnergy            int64 `json:"delegatedFrozenBalanceForEnergy"`
	AcquiredDelegatedFrozenBalanceForBandwidth int64 `json:"acquiredDelegatedFrozenBalanceForBandwidth"`
	AcquiredDelegatedFrozenBalanceForEnergy    int64 `json:"acquiredDelegatedFrozenBalanceForEnergy"`
}

// NewAccount returns a zero-valued account bound to addr.
func NewAccount(addr Address, accountType AccountType, createTime int64) *Account {
	return &Account{Address: addr, Type: accountType, CreateTime: createTime}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Frozen != nil {
		clone.Frozen = append([]Frozen(nil), a.Frozen...)
	}
	return &clone
}

// FrozenBalance sums the own bandwidth stake.
func (a *Account) FrozenBalance() int64 {
	var total int64
	for _, f := range a.Frozen {
		total += f.FrozenBalance
	}
	return total
}

// FrozenCount returns the number of own-stake slots held for res.
func (a *Account) FrozenCount(res ResourceCode) int {
	switch res {
	case ResourceBandwidth:
		return len(a.Frozen)
	case ResourceEnergy:
		if a.FrozenForEnergy.FrozenBalance > 0 {
			return 1
		}
	}
	return 0
}

// SetFrozenForBandwidth replaces the bandwidth slots with a single slot.
func (a *Account) SetFrozenForBandwidth(balance, expireTime int64) {
	a.Frozen = []Frozen{{FrozenBalance: balance, ExpireTime: expireTime}}
}

// SetFrozenForEnergy overwrites the energy slot.
func (a *Account) SetFrozenForEnergy(balance, expireTime int64) {
	a.FrozenForEnergy = Frozen{FrozenBalance: balance, ExpireTime: expireTime}
}

// OwnFrozenBalance returns the own stake for res.
func (a *Account) OwnFrozenBalance(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return a.FrozenBalance()
	case ResourceEnergy:
		return a.FrozenForEnergy.FrozenBalance
	}
	return 0
}

// DelegatedFrozenBalance returns the stake a has frozen on behalf of others.
func (a *Account) DelegatedFrozenBalance(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return a.DelegatedFrozenBalanceForBandwidth
	case ResourceEnergy:
		return a.DelegatedFrozenBalanceForEnergy
	}
	return 0
}

// AddDelegatedFrozenBalance adjusts the outgoing delegation total for res.
func (a *Account) AddDelegatedFrozenBalance(res ResourceCode, amount int64) {
	switch res {
	case ResourceBandwidth:
		a.DelegatedFrozenBalanceForBandwidth += amount
	case ResourceEnergy:
		a.DelegatedFrozenBalanceForEnergy += amount
	}
}

// AcquiredDelegatedFrozenBalance returns the stake others delegated to a.
func (a *Account) AcquiredDelegatedFrozenBalance(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return a.AcquiredDelegatedFrozenBalanceForBandwidth
	case ResourceEnergy:
		return a.AcquiredDelegatedFrozenBalanceForEnergy
	}
	return 0
}

// AddAcquiredDelegatedFrozenBalance adjusts the incoming delegation total for res.
func (a *Account) AddAcquiredDelegatedFrozenBalance(res ResourceCode, amount int64) {
	switch res {
	case ResourceBandwidth:
		a.AcquiredDelegatedFrozenBalanceForBandwidth += amount
	case ResourceEnergy:
		a.AcquiredDelegatedFrozenBalanceForEnergy += amount
	}
}

// SetAcquiredDelegatedFrozenBalance overwrites the incoming delegation total for res.
func (a *Account) SetAcquiredDelegatedFrozenBalance(res ResourceCode, amount int64) {
	switch res {
	case ResourceBandwidth:
		a.AcquiredDelegatedFrozenBalanceForBandwidth = amount
	case ResourceEnergy:
		a.AcquiredDelegatedFrozenBalanceForEnergy = amount
	}
}
