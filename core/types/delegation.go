package types

// DelegatedResource records stake frozen by From on behalf of To. Each resource
// kind carries an independent balance and expiry.
type DelegatedResource struct {
	From Address `json:"from"`
	To   Address `json:"to"`

	FrozenBalanceForBandwidth int64 `json:"frozenBalanceForBandwidth"`
	ExpireTimeForBandwidth    int64 `json:"expireTimeForBandwidth"`
	FrozenBalanceForEnergy    int64 `json:"frozenBalanceForEnergy"`
	ExpireTimeForEnergy       int64 `json:"expireTimeForEnergy"`
}

// DelegatedResourceKey is the store key of the (from, to) pair.
func DelegatedResourceKey(from, to Address) []byte {
	key := make([]byte, 0, len(from)+len(to))
	key = append(key, from[:]...)
	return append(key, to[:]...)
}

// NewDelegatedResource returns an empty record for the pair.
func NewDelegatedResource(from, to Address) *DelegatedResource {
	return &DelegatedResource{From: from, To: to}
}

// Clone returns a copy of the record.
func (d *DelegatedResource) Clone() *DelegatedResource {
	if d == nil {
		return nil
	}
	clone := *d
	return &clone
}

// FrozenBalance returns the delegated balance for res.
func (d *DelegatedResource) FrozenBalance(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return d.FrozenBalanceForBandwidth
	case ResourceEnergy:
		return d.FrozenBalanceForEnergy
	}
	return 0
}

// ExpireTime returns the expiry of the delegated balance for res.
func (d *DelegatedResource) ExpireTime(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return d.ExpireTimeForBandwidth
	case ResourceEnergy:
		return d.ExpireTimeForEnergy
	}
	return 0
}

// AddFrozenBalance accumulates amount for res and overwrites its expiry.
func (d *DelegatedResource) AddFrozenBalance(res ResourceCode, amount, expireTime int64) {
	switch res {
	case ResourceBandwidth:
		d.FrozenBalanceForBandwidth += amount
		d.ExpireTimeForBandwidth = expireTime
	case ResourceEnergy:
		d.FrozenBalanceForEnergy += amount
		d.ExpireTimeForEnergy = expireTime
	}
}

// SetFrozenBalance overwrites the balance and expiry for res.
func (d *DelegatedResource) SetFrozenBalance(res ResourceCode, amount, expireTime int64) {
	switch res {
	case ResourceBandwidth:
		d.FrozenBalanceForBandwidth = amount
		d.ExpireTimeForBandwidth = expireTime
	case ResourceEnergy:
		d.FrozenBalanceForEnergy = amount
		d.ExpireTimeForEnergy = expireTime
	}
}

// IsEmpty reports whether no resource remains delegated.
func (d *DelegatedResource) IsEmpty() bool {
	return d.FrozenBalanceForBandwidth == 0 && d.FrozenBalanceForEnergy == 0
}

// DelegatedResourceAccountIndex lists the counterparties of an address:
// ToAccounts it delegated to and FromAccounts that delegated to it.
type DelegatedResourceAccountIndex struct {
	Account      Address   `json:"account"`
	FromAccounts []Address `json:"fromAccounts"`
	ToAccounts   []Address `json:"toAccounts"`
}

// NewDelegatedResourceAccountIndex returns an empty index for addr.
func NewDelegatedResourceAccountIndex(addr Address) *DelegatedResourceAccountIndex {
	return &DelegatedResourceAccountIndex{Account: addr}
}

// Clone returns a deep copy of the index.
func (i *DelegatedResourceAccountIndex) Clone() *DelegatedResourceAccountIndex {
	if i == nil {
		return nil
	}
	return &DelegatedResourceAccountIndex{
		Account:      i.Account,
		FromAccounts: append([]Address(nil), i.FromAccounts...),
		ToAccounts:   append([]Address(nil), i.ToAccounts...),
	}
}

// HasToAccount reports whether addr is listed as a delegation target.
func (i *DelegatedResourceAccountIndex) HasToAccount(addr Address) bool {
	return containsAddress(i.ToAccounts, addr)
}

// HasFromAccount reports whether addr is listed as a delegator.
func (i *DelegatedResourceAccountIndex) HasFromAccount(addr Address) bool {
	return containsAddress(i.FromAccounts, addr)
}

// AddToAccount appends addr unless already present. It reports whether the
// list changed.
func (i *DelegatedResourceAccountIndex) AddToAccount(addr Address) bool {
	if i.HasToAccount(addr) {
		return false
	}
	i.ToAccounts = append(i.ToAccounts, addr)
	return true
}

// AddFromAccount appends addr unless already present. It reports whether the
// list changed.
func (i *DelegatedResourceAccountIndex) AddFromAccount(addr Address) bool {
	if i.HasFromAccount(addr) {
		return false
	}
	i.FromAccounts = append(i.FromAccounts, addr)
	return true
}

// RemoveToAccount drops addr from the delegation targets, keeping order.
func (i *DelegatedResourceAccountIndex) RemoveToAccount(addr Address) {
	i.ToAccounts = removeAddress(i.ToAccounts, addr)
}

// RemoveFromAccount drops addr from the delegators, keeping order.
func (i *DelegatedResourceAccountIndex) RemoveFromAccount(addr Address) {
	i.FromAccounts = removeAddress(i.FromAccounts, addr)
}

// IsEmpty reports whether the index lists no counterparties.
func (i *DelegatedResourceAccountIndex) IsEmpty() bool {
	return len(i.FromAccounts) == 0 && len(i.ToAccounts) == 0
}

func containsAddress(list []Address, addr Address) bool {
	for _, existing := range list {
		if existing == addr {
			return true
		}
	}
	return false
}

func removeAddress(list []Address, addr Address) []Address {
	out := list[:0]
	for _, existing := range list {
		if existing != addr {
			out = append(out, existing)
		}
	}
	return out
}
