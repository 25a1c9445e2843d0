package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
)

func TestFreezeOwnBandwidth(t *testing.T) {
	f := newFixture(t)
	owner := f.createAccount(1, 10_000_000)

	result := f.apply(freeze(owner, 2_000_000, 3, types.ResourceBandwidth))
	require.Equal(t, int64(0), result.Fee)

	acct := f.account(owner)
	require.Equal(t, int64(8_000_000), acct.Balance)
	require.Equal(t, int64(2_000_000), acct.FrozenBalance())
	require.Equal(t, headTimestamp+3*86_400_000, acct.Frozen[0].ExpireTime)
	require.Equal(t, int64(0), acct.DelegatedFrozenBalanceForBandwidth)
	require.Equal(t, int64(2), f.props().TotalNetWeight)
	require.Equal(t, int64(0), f.props().TotalEnergyWeight)

	emitted := f.recorder.Events()
	require.Len(t, emitted, 1)
	frozen, ok := emitted[0].(events.BalanceFrozen)
	require.True(t, ok)
	require.False(t, frozen.Delegated())
	require.Equal(t, int64(2), frozen.Weight)
}

func TestFreezeDelegatedEnergy(t *testing.T) {
	f := newFixture(t)
	f.enableDelegation()
	owner := f.createAccount(1, 5_000_000)
	receiver := f.createAccount(2, 0)

	f.apply(delegate(owner, receiver, 1_000_000, 3, types.ResourceEnergy))

	ownerAcct := f.account(owner)
	require.Equal(t, int64(4_000_000), ownerAcct.Balance)
	require.Equal(t, int64(1_000_000), ownerAcct.DelegatedFrozenBalanceForEnergy)
	require.Equal(t, int64(0), ownerAcct.FrozenForEnergy.FrozenBalance)

	receiverAcct := f.account(receiver)
	require.Equal(t, int64(1_000_000), receiverAcct.AcquiredDelegatedFrozenBalanceForEnergy)
	require.Equal(t, int64(0), receiverAcct.Balance)

	record, found, err := f.ledger.DelegatedResource(owner, receiver)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1_000_000), record.FrozenBalanceForEnergy)
	require.Equal(t, headTimestamp+3*86_400_000, record.ExpireTimeForEnergy)
	require.Equal(t, int64(0), record.FrozenBalanceForBandwidth)

	ownerIndex, _, err := f.ledger.DelegationIndex(owner)
	require.NoError(t, err)
	require.Equal(t, []types.Address{receiver}, ownerIndex.ToAccounts)
	receiverIndex, _, err := f.ledger.DelegationIndex(receiver)
	require.NoError(t, err)
	require.Equal(t, []types.Address{owner}, receiverIndex.FromAccounts)

	require.Equal(t, int64(1), f.props().TotalEnergyWeight)
}

func TestFreezeWeightDropsRemainder(t *testing.T) {
	f := newFixture(t)
	owner := f.createAccount(1, 10_000_000)

	f.apply(freeze(owner, 1_999_999, 3, types.ResourceEnergy))

	require.Equal(t, int64(1), f.props().TotalEnergyWeight)
	require.Equal(t, int64(1_999_999), f.account(owner).FrozenForEnergy.FrozenBalance)
	require.Equal(t, int64(8_000_001), f.account(owner).Balance)
}

func TestFreezeRepeatedDelegationAccumulates(t *testing.T) {
	f := newFixture(t)
	f.enableDelegation()
	owner := f.createAccount(1, 10_000_000)
	receiver := f.createAccount(2, 0)

	f.apply(delegate(owner, receiver, 2_000_000, 3, types.ResourceBandwidth))
	later := headTimestamp + 5_000
	f.setHead(later)
	f.apply(delegate(owner, receiver, 3_000_000, 3, types.ResourceBandwidth))

	record, _, err := f.ledger.DelegatedResource(owner, receiver)
	require.NoError(t, err)
	require.Equal(t, int64(5_000_000), record.FrozenBalanceForBandwidth)
	require.Equal(t, later+3*86_400_000, record.ExpireTimeForBandwidth)

	require.Equal(t, int64(5_000_000), f.account(owner).DelegatedFrozenBalanceForBandwidth)
	require.Equal(t, int64(5_000_000), f.account(receiver).AcquiredDelegatedFrozenBalanceForBandwidth)

	ownerIndex, _, err := f.ledger.DelegationIndex(owner)
	require.NoError(t, err)
	require.Len(t, ownerIndex.ToAccounts, 1)
	receiverIndex, _, err := f.ledger.DelegationIndex(receiver)
	require.NoError(t, err)
	require.Len(t, receiverIndex.FromAccounts, 1)
	require.Equal(t, int64(5), f.props().TotalNetWeight)
}

func TestFreezeSecondOwnFreezeFoldsIntoSlot(t *testing.T) {
	f := newFixture(t)
	owner := f.createAccount(1, 10_000_000)

	f.apply(freeze(owner, 1_000_000, 3, types.ResourceBandwidth))
	f.setHead(headTimestamp + 1_000)
	f.apply(freeze(owner, 2_000_000, 3, types.ResourceBandwidth))

	acct := f.account(owner)
	require.Equal(t, 1, acct.FrozenCount(types.ResourceBandwidth))
	require.Equal(t, int64(3_000_000), acct.FrozenBalance())
	require.Equal(t, headTimestamp+1_000+3*86_400_000, acct.Frozen[0].ExpireTime)
	require.Equal(t, int64(7_000_000), acct.Balance)
}

func TestFreezeValidationRejectsWithoutWriting(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(f *fixture) types.Payload
		reason string
	}{
		{
			name: "invalid owner address",
			setup: func(f *fixture) types.Payload {
				return &types.FreezeBalanceContract{OwnerAddress: []byte{0x44, 0x01}, FrozenBalance: 1_000_000, FrozenDuration: 3}
			},
			reason: "Invalid address",
		},
		{
			name: "wrong network prefix",
			setup: func(f *fixture) types.Payload {
				bad := addr(1)
				bad[0] = 0x41
				return freeze(bad, 1_000_000, 3, types.ResourceBandwidth)
			},
			reason: "Invalid address",
		},
		{
			name: "missing owner",
			setup: func(f *fixture) types.Payload {
				return freeze(addr(9), 1_000_000, 3, types.ResourceBandwidth)
			},
			reason: "Account[" + addr(9).Hex() + "] not exists",
		},
		{
			name: "zero amount",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 10_000_000), 0, 3, types.ResourceBandwidth)
			},
			reason: "frozenBalance must be positive",
		},
		{
			name: "negative amount",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 10_000_000), -1_000_000, 3, types.ResourceBandwidth)
			},
			reason: "frozenBalance must be positive",
		},
		{
			name: "below minimum stake",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 10_000_000), 999_999, 3, types.ResourceBandwidth)
			},
			reason: "frozenBalance must be more than 1 UNW",
		},
		{
			name: "more than one frozen slot",
			setup: func(f *fixture) types.Payload {
				owner := f.createAccount(1, 10_000_000)
				acct := f.account(owner)
				acct.Frozen = []types.Frozen{{FrozenBalance: 1_000_000}, {FrozenBalance: 1_000_000}}
				require.NoError(f.t, f.ledger.PutAccount(acct))
				return freeze(owner, 1_000_000, 3, types.ResourceBandwidth)
			},
			reason: "frozenCount must be 0 or 1",
		},
		{
			name: "exceeds balance",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 1_500_000), 2_000_000, 3, types.ResourceBandwidth)
			},
			reason: "frozenBalance must be less than accountBalance",
		},
		{
			name: "duration below minimum",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 10_000_000), 1_000_000, 2, types.ResourceBandwidth)
			},
			reason: "frozenDuration must be less than 3 days and more than 3 days",
		},
		{
			name: "duration above maximum",
			setup: func(f *fixture) types.Payload {
				f.updateProps(func(p *types.DynamicProperties) { p.MaxFrozenTime = 10 })
				return freeze(f.createAccount(1, 10_000_000), 1_000_000, 11, types.ResourceBandwidth)
			},
			reason: "frozenDuration must be less than 10 days and more than 3 days",
		},
		{
			name: "unknown resource",
			setup: func(f *fixture) types.Payload {
				return freeze(f.createAccount(1, 10_000_000), 1_000_000, 3, types.ResourceCode(2))
			},
			reason: "ResourceCode error, valid ResourceCode[BANDWIDTH、ENERGY]",
		},
		{
			name: "delegation to self",
			setup: func(f *fixture) types.Payload {
				f.enableDelegation()
				owner := f.createAccount(1, 10_000_000)
				return delegate(owner, owner, 1_000_000, 3, types.ResourceEnergy)
			},
			reason: "receiverAddress must not be the same as ownerAddress",
		},
		{
			name: "malformed receiver",
			setup: func(f *fixture) types.Payload {
				f.enableDelegation()
				payload := freeze(f.createAccount(1, 10_000_000), 1_000_000, 3, types.ResourceEnergy)
				payload.ReceiverAddress = []byte{0x44}
				return payload
			},
			reason: "Invalid receiverAddress",
		},
		{
			name: "missing receiver",
			setup: func(f *fixture) types.Payload {
				f.enableDelegation()
				return delegate(f.createAccount(1, 10_000_000), addr(7), 1_000_000, 3, types.ResourceEnergy)
			},
			reason: "Account[" + addr(7).Hex() + "] not exists",
		},
		{
			name: "contract receiver restricted",
			setup: func(f *fixture) types.Payload {
				f.updateProps(func(p *types.DynamicProperties) {
					p.SupportDelegatedResource = true
					p.AllowContractResourceRestriction = true
				})
				receiver := f.createTypedAccount(2, 0, types.AccountTypeContract)
				return delegate(f.createAccount(1, 10_000_000), receiver, 1_000_000, 3, types.ResourceEnergy)
			},
			reason: "Do not allow delegate resources to contract addresses",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			payload := tc.setup(f)
			before := f.root()
			pending := f.ledger.Pending()

			err := f.actuator(payload).Validate()
			require.Error(t, err)
			require.True(t, ledgererrors.IsValidation(err))
			require.Equal(t, tc.reason, ledgererrors.Reason(err))

			require.Equal(t, before, f.root())
			require.Equal(t, pending, f.ledger.Pending())
			require.Empty(t, f.recorder.Events())
		})
	}
}

func TestFreezeValidateRequiresLedgerAndType(t *testing.T) {
	contract, err := types.PackContract(freeze(addr(1), 1_000_000, 3, types.ResourceBandwidth))
	require.NoError(t, err)

	act, err := New(contract, nil, DefaultConfig(), nil)
	require.NoError(t, err)
	err = act.Validate()
	require.ErrorIs(t, err, ledgererrors.ErrNoLedger)
	require.Equal(t, "No ledger store!", ledgererrors.Reason(err))

	mislabeled := &FreezeBalanceActuator{base: base{
		contract: &types.Contract{Type: types.ContractTransfer, Parameter: contract.Parameter},
		ledger:   newFixture(t).ledger,
		cfg:      DefaultConfig(),
	}}
	err = mislabeled.Validate()
	require.ErrorIs(t, err, ledgererrors.ErrContractType)
	require.Equal(t, "contract type error,expected type [FreezeBalanceContract],real type[TransferContract]", ledgererrors.Reason(err))
}

func TestFreezeDurationCheckDisabled(t *testing.T) {
	f := newFixture(t)
	f.cfg.CheckFrozenTime = 0
	owner := f.createAccount(1, 10_000_000)

	f.apply(freeze(owner, 1_000_000, 365, types.ResourceEnergy))

	require.Equal(t, headTimestamp+365*86_400_000, f.account(owner).FrozenForEnergy.ExpireTime)

	// A negative duration yields an expiry already in the past.
	f.apply(freeze(owner, 1_000_000, -20_000, types.ResourceBandwidth))
	expired := headTimestamp - 20_000*86_400_000
	require.Less(t, expired, int64(0))
	require.Equal(t, expired, f.account(owner).Frozen[0].ExpireTime)

	f.enableDelegation()
	receiver := f.createAccount(2, 0)
	f.apply(delegate(owner, receiver, 1_000_000, -20_000, types.ResourceEnergy))
	record, found, err := f.ledger.DelegatedResource(owner, receiver)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, expired, record.ExpireTimeForEnergy)

	f.apply(unfreeze(owner, types.ResourceBandwidth))
	f.apply(reclaim(owner, receiver, types.ResourceEnergy))
	require.Equal(t, int64(9_000_000), f.account(owner).Balance)
}

func TestFreezeReceiverIgnoredWhenDelegationDisabled(t *testing.T) {
	f := newFixture(t)
	owner := f.createAccount(1, 10_000_000)

	f.apply(delegate(owner, addr(5), 2_000_000, 3, types.ResourceBandwidth))

	acct := f.account(owner)
	require.Equal(t, int64(2_000_000), acct.FrozenBalance())
	require.Equal(t, int64(0), acct.DelegatedFrozenBalanceForBandwidth)
	_, found, err := f.ledger.DelegatedResource(owner, addr(5))
	require.NoError(t, err)
	require.False(t, found)
}

func TestFreezeExecuteRechecksBalance(t *testing.T) {
	f := newFixture(t)
	owner := f.createAccount(1, 3_000_000)

	act := f.actuator(freeze(owner, 2_000_000, 3, types.ResourceBandwidth))
	require.NoError(t, act.Validate())

	// Another contract in the same block spends most of the balance.
	acct := f.account(owner)
	acct.Balance = 1_000_000
	require.NoError(t, f.ledger.PutAccount(acct))
	before := f.root()

	result := &types.TransactionResult{}
	err := act.Execute(result)
	require.Error(t, err)
	require.True(t, ledgererrors.IsExecution(err))
	require.ErrorIs(t, err, ledgererrors.ErrBalanceInsufficient)
	require.Equal(t, types.ResultFailed, result.Status)
	require.Equal(t, int64(0), result.Fee)
	require.NotEmpty(t, result.Message)

	require.Equal(t, before, f.root())
	require.Empty(t, f.recorder.Events())
}

func TestFreezeExecuteRechecksReceiver(t *testing.T) {
	f := newFixture(t)
	f.enableDelegation()
	owner := f.createAccount(1, 3_000_000)

	act := f.actuator(delegate(owner, addr(2), 1_000_000, 3, types.ResourceEnergy))
	before := f.root()

	result := &types.TransactionResult{}
	err := act.Execute(result)
	require.ErrorIs(t, err, ledgererrors.ErrAccountNotFound)
	require.Equal(t, types.ResultFailed, result.Status)
	require.Equal(t, before, f.root())
}

func TestFreezeDelegationInvariants(t *testing.T) {
	f := newFixture(t)
	f.enableDelegation()
	owners := []types.Address{f.createAccount(1, 50_000_000), f.createAccount(2, 50_000_000)}
	receivers := []types.Address{f.createAccount(3, 0), f.createAccount(4, 0)}

	var supplyBefore int64
	for _, a := range append(append([]types.Address{}, owners...), receivers...) {
		supplyBefore += f.account(a).Balance
	}

	var moved int64
	amount := int64(1_000_000)
	for i, owner := range owners {
		for j, receiver := range receivers {
			res := types.ResourceCode((i + j) % 2)
			f.apply(delegate(owner, receiver, amount, 3, res))
			f.apply(delegate(owner, receiver, amount*2, 3, types.ResourceBandwidth))
			moved += amount * 3
			amount += 1_000_000
		}
	}
	f.apply(freeze(owners[0], 4_000_000, 3, types.ResourceEnergy))
	moved += 4_000_000

	var supplyAfter int64
	for _, a := range append(append([]types.Address{}, owners...), receivers...) {
		supplyAfter += f.account(a).Balance
	}
	require.Equal(t, supplyBefore-moved, supplyAfter)

	delegatedOut := map[types.Address][2]int64{}
	acquiredIn := map[types.Address][2]int64{}
	require.NoError(t, f.ledger.DelegatedResources(func(record *types.DelegatedResource) error {
		out := delegatedOut[record.From]
		out[0] += record.FrozenBalanceForBandwidth
		out[1] += record.FrozenBalanceForEnergy
		delegatedOut[record.From] = out
		in := acquiredIn[record.To]
		in[0] += record.FrozenBalanceForBandwidth
		in[1] += record.FrozenBalanceForEnergy
		acquiredIn[record.To] = in

		ownerIndex, _, err := f.ledger.DelegationIndex(record.From)
		require.NoError(t, err)
		require.True(t, ownerIndex.HasToAccount(record.To))
		receiverIndex, _, err := f.ledger.DelegationIndex(record.To)
		require.NoError(t, err)
		require.True(t, receiverIndex.HasFromAccount(record.From))
		return nil
	}))

	for _, owner := range owners {
		acct := f.account(owner)
		require.Equal(t, delegatedOut[owner][0], acct.DelegatedFrozenBalanceForBandwidth)
		require.Equal(t, delegatedOut[owner][1], acct.DelegatedFrozenBalanceForEnergy)
		require.LessOrEqual(t, acct.FrozenCount(types.ResourceBandwidth), 1)
		require.LessOrEqual(t, acct.FrozenCount(types.ResourceEnergy), 1)
	}
	for _, receiver := range receivers {
		acct := f.account(receiver)
		require.Equal(t, acquiredIn[receiver][0], acct.AcquiredDelegatedFrozenBalanceForBandwidth)
		require.Equal(t, acquiredIn[receiver][1], acct.AcquiredDelegatedFrozenBalanceForEnergy)
	}
}
