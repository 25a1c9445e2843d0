package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"unichain/core/types"
)

// RLP has no signed integers, so records are persisted through uint64 mirrors.
// Balances never go negative and are checked on the way in. Expire times and
// weight totals are plain arithmetic results that may legitimately wrap below
// zero, so they travel as two's complement.

type storedFrozen struct {
	FrozenBalance uint64
	ExpireTime    uint64
}

type storedAccount struct {
	Address         []byte
	Type            uint8
	Balance         uint64
	CreateTime      uint64
	Frozen          []storedFrozen
	FrozenForEnergy storedFrozen

	DelegatedForBandwidth uint64
	DelegatedForEnergy    uint64
	AcquiredForBandwidth  uint64
	AcquiredForEnergy     uint64
}

type storedDelegatedResource struct {
	From              []byte
	To                []byte
	BandwidthBalance  uint64
	BandwidthExpireAt uint64
	EnergyBalance     uint64
	EnergyExpireAt    uint64
}

type storedDelegationIndex struct {
	Account      []byte
	FromAccounts [][]byte
	ToAccounts   [][]byte
}

type storedDynamicProperties struct {
	LatestBlockHeaderTimestamp       uint64
	TotalNetWeight                   uint64
	TotalEnergyWeight                uint64
	MinFrozenTime                    uint64
	MaxFrozenTime                    uint64
	SupportDelegatedResource         bool
	AllowContractResourceRestriction bool
	CreateNewAccountFee              uint64
}

// unsigned converts a named field, rejecting negative values.
func unsigned(field string, v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("state: %s must not be negative: %d", field, v)
	}
	return uint64(v), nil
}

// twos stores v as its two's complement bit pattern.
func twos(v int64) uint64 { return uint64(v) }

// fieldWriter collects the first conversion error so encoders stay linear.
type fieldWriter struct {
	err error
}

func (w *fieldWriter) u64(field string, v int64) uint64 {
	if w.err != nil {
		return 0
	}
	out, err := unsigned(field, v)
	if err != nil {
		w.err = err
	}
	return out
}

func encodeAccount(acct *types.Account) ([]byte, error) {
	w := &fieldWriter{}
	stored := storedAccount{
		Address:               acct.Address.Bytes(),
		Type:                  uint8(acct.Type),
		Balance:               w.u64("balance", acct.Balance),
		CreateTime:            w.u64("create time", acct.CreateTime),
		FrozenForEnergy:       storedFrozen{FrozenBalance: w.u64("energy frozen balance", acct.FrozenForEnergy.FrozenBalance), ExpireTime: twos(acct.FrozenForEnergy.ExpireTime)},
		DelegatedForBandwidth: w.u64("delegated bandwidth", acct.DelegatedFrozenBalanceForBandwidth),
		DelegatedForEnergy:    w.u64("delegated energy", acct.DelegatedFrozenBalanceForEnergy),
		AcquiredForBandwidth:  w.u64("acquired bandwidth", acct.AcquiredDelegatedFrozenBalanceForBandwidth),
		AcquiredForEnergy:     w.u64("acquired energy", acct.AcquiredDelegatedFrozenBalanceForEnergy),
	}
	for _, f := range acct.Frozen {
		stored.Frozen = append(stored.Frozen, storedFrozen{
			FrozenBalance: w.u64("frozen balance", f.FrozenBalance),
			ExpireTime:    twos(f.ExpireTime),
		})
	}
	if w.err != nil {
		return nil, fmt.Errorf("account %s: %w", acct.Address, w.err)
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeAccount(data []byte) (*types.Account, error) {
	var stored storedAccount
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	acct := &types.Account{
		Address:    types.BytesToAddress(stored.Address),
		Type:       types.AccountType(stored.Type),
		Balance:    int64(stored.Balance),
		CreateTime: int64(stored.CreateTime),
		FrozenForEnergy: types.Frozen{
			FrozenBalance: int64(stored.FrozenForEnergy.FrozenBalance),
			ExpireTime:    int64(stored.FrozenForEnergy.ExpireTime),
		},
		DelegatedFrozenBalanceForBandwidth:         int64(stored.DelegatedForBandwidth),
		DelegatedFrozenBalanceForEnergy:            int64(stored.DelegatedForEnergy),
		AcquiredDelegatedFrozenBalanceForBandwidth: int64(stored.AcquiredForBandwidth),
		AcquiredDelegatedFrozenBalanceForEnergy:    int64(stored.AcquiredForEnergy),
	}
	for _, f := range stored.Frozen {
		acct.Frozen = append(acct.Frozen, types.Frozen{
			FrozenBalance: int64(f.FrozenBalance),
			ExpireTime:    int64(f.ExpireTime),
		})
	}
	return acct, nil
}

func encodeDelegatedResource(record *types.DelegatedResource) ([]byte, error) {
	w := &fieldWriter{}
	stored := storedDelegatedResource{
		From:              record.From.Bytes(),
		To:                record.To.Bytes(),
		BandwidthBalance:  w.u64("bandwidth balance", record.FrozenBalanceForBandwidth),
		BandwidthExpireAt: twos(record.ExpireTimeForBandwidth),
		EnergyBalance:     w.u64("energy balance", record.FrozenBalanceForEnergy),
		EnergyExpireAt:    twos(record.ExpireTimeForEnergy),
	}
	if w.err != nil {
		return nil, fmt.Errorf("delegated resource %s->%s: %w", record.From, record.To, w.err)
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeDelegatedResource(data []byte) (*types.DelegatedResource, error) {
	var stored storedDelegatedResource
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	return &types.DelegatedResource{
		From:                      types.BytesToAddress(stored.From),
		To:                        types.BytesToAddress(stored.To),
		FrozenBalanceForBandwidth: int64(stored.BandwidthBalance),
		ExpireTimeForBandwidth:    int64(stored.BandwidthExpireAt),
		FrozenBalanceForEnergy:    int64(stored.EnergyBalance),
		ExpireTimeForEnergy:       int64(stored.EnergyExpireAt),
	}, nil
}

func encodeDelegationIndex(index *types.DelegatedResourceAccountIndex) ([]byte, error) {
	stored := storedDelegationIndex{
		Account:      index.Account.Bytes(),
		FromAccounts: make([][]byte, 0, len(index.FromAccounts)),
		ToAccounts:   make([][]byte, 0, len(index.ToAccounts)),
	}
	for _, addr := range index.FromAccounts {
		stored.FromAccounts = append(stored.FromAccounts, addr.Bytes())
	}
	for _, addr := range index.ToAccounts {
		stored.ToAccounts = append(stored.ToAccounts, addr.Bytes())
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeDelegationIndex(data []byte) (*types.DelegatedResourceAccountIndex, error) {
	var stored storedDelegationIndex
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	index := &types.DelegatedResourceAccountIndex{Account: types.BytesToAddress(stored.Account)}
	for _, raw := range stored.FromAccounts {
		index.FromAccounts = append(index.FromAccounts, types.BytesToAddress(raw))
	}
	for _, raw := range stored.ToAccounts {
		index.ToAccounts = append(index.ToAccounts, types.BytesToAddress(raw))
	}
	return index, nil
}

func encodeDynamicProperties(props *types.DynamicProperties) ([]byte, error) {
	w := &fieldWriter{}
	stored := storedDynamicProperties{
		LatestBlockHeaderTimestamp:       w.u64("latest block header timestamp", props.LatestBlockHeaderTimestamp),
		TotalNetWeight:                   twos(props.TotalNetWeight),
		TotalEnergyWeight:                twos(props.TotalEnergyWeight),
		MinFrozenTime:                    w.u64("min frozen time", props.MinFrozenTime),
		MaxFrozenTime:                    w.u64("max frozen time", props.MaxFrozenTime),
		SupportDelegatedResource:         props.SupportDelegatedResource,
		AllowContractResourceRestriction: props.AllowContractResourceRestriction,
		CreateNewAccountFee:              w.u64("create new account fee", props.CreateNewAccountFee),
	}
	if w.err != nil {
		return nil, fmt.Errorf("dynamic properties: %w", w.err)
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeDynamicProperties(data []byte) (*types.DynamicProperties, error) {
	var stored storedDynamicProperties
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	return &types.DynamicProperties{
		LatestBlockHeaderTimestamp:       int64(stored.LatestBlockHeaderTimestamp),
		TotalNetWeight:                   int64(stored.TotalNetWeight),
		TotalEnergyWeight:                int64(stored.TotalEnergyWeight),
		MinFrozenTime:                    int64(stored.MinFrozenTime),
		MaxFrozenTime:                    int64(stored.MaxFrozenTime),
		SupportDelegatedResource:         stored.SupportDelegatedResource,
		AllowContractResourceRestriction: stored.AllowContractResourceRestriction,
		CreateNewAccountFee:              int64(stored.CreateNewAccountFee),
	}, nil
}
