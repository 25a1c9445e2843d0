package actuator

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"unichain/core/events"
	"unichain/core/state"
	"unichain/core/types"
	"unichain/storage"
)

const headTimestamp int64 = 1_600_000_000_000

type fixture struct {
	t        *testing.T
	ledger   *state.Manager
	recorder *events.Recorder
	cfg      Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	f := &fixture{
		t:        t,
		ledger:   state.NewManager(db),
		recorder: &events.Recorder{},
		cfg:      DefaultConfig(),
	}
	require.NoError(t, f.ledger.SetHeadBlockTimestamp(headTimestamp))
	return f
}

func addr(tag byte) types.Address {
	var a types.Address
	a[0] = 0x44
	a[1] = 0xa1
	a[len(a)-1] = tag
	return a
}

func (f *fixture) createAccount(tag byte, balance int64) types.Address {
	f.t.Helper()
	return f.createTypedAccount(tag, balance, types.AccountTypeNormal)
}

func (f *fixture) createTypedAccount(tag byte, balance int64, accountType types.AccountType) types.Address {
	f.t.Helper()
	a := addr(tag)
	acct := types.NewAccount(a, accountType, headTimestamp)
	acct.Balance = balance
	require.NoError(f.t, f.ledger.PutAccount(acct))
	return a
}

func (f *fixture) account(a types.Address) *types.Account {
	f.t.Helper()
	acct, found, err := f.ledger.Account(a)
	require.NoError(f.t, err)
	require.True(f.t, found, "account %s missing", a.Hex())
	return acct
}

func (f *fixture) props() *types.DynamicProperties {
	f.t.Helper()
	props, err := f.ledger.DynamicProperties()
	require.NoError(f.t, err)
	return props
}

func (f *fixture) updateProps(mutate func(*types.DynamicProperties)) {
	f.t.Helper()
	props := f.props()
	mutate(props)
	require.NoError(f.t, f.ledger.PutDynamicProperties(props))
}

func (f *fixture) enableDelegation() {
	f.updateProps(func(p *types.DynamicProperties) { p.SupportDelegatedResource = true })
}

func (f *fixture) setHead(ts int64) {
	f.t.Helper()
	require.NoError(f.t, f.ledger.SetHeadBlockTimestamp(ts))
}

func (f *fixture) root() common.Hash {
	f.t.Helper()
	root, err := f.ledger.StateRoot()
	require.NoError(f.t, err)
	return root
}

func (f *fixture) actuator(payload types.Payload) Actuator {
	f.t.Helper()
	contract, err := types.PackContract(payload)
	require.NoError(f.t, err)
	act, err := New(contract, f.ledger, f.cfg, f.recorder)
	require.NoError(f.t, err)
	return act
}

// apply runs validate then execute, failing the test on any error.
func (f *fixture) apply(payload types.Payload) *types.TransactionResult {
	f.t.Helper()
	act := f.actuator(payload)
	require.NoError(f.t, act.Validate())
	result := &types.TransactionResult{}
	require.NoError(f.t, act.Execute(result))
	require.Equal(f.t, types.ResultSuccess, result.Status)
	return result
}

func freeze(owner types.Address, amount, days int64, res types.ResourceCode) *types.FreezeBalanceContract {
	return &types.FreezeBalanceContract{
		OwnerAddress:   owner.Bytes(),
		FrozenBalance:  amount,
		FrozenDuration: days,
		Resource:       res,
	}
}

func delegate(owner, receiver types.Address, amount, days int64, res types.ResourceCode) *types.FreezeBalanceContract {
	payload := freeze(owner, amount, days, res)
	payload.ReceiverAddress = receiver.Bytes()
	return payload
}
