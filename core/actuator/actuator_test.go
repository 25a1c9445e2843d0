package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"

	ledgererrors "unichain/core/errors"
	"unichain/core/types"
)

func TestNewDispatchesEveryContractType(t *testing.T) {
	f := newFixture(t)
	for _, contractType := range types.ContractTypes() {
		act, err := New(&types.Contract{Type: contractType}, f.ledger, f.cfg, nil)
		require.NoError(t, err, contractType.String())
		require.Equal(t, contractType, act.ContractType())
	}

	_, err := New(&types.Contract{Type: types.ContractType(99)}, f.ledger, f.cfg, nil)
	require.ErrorIs(t, err, ledgererrors.ErrUnsupportedContract)

	_, err = New(nil, f.ledger, f.cfg, nil)
	require.ErrorIs(t, err, ledgererrors.ErrNoContract)
}

func TestOwnerAddressDecodesPayload(t *testing.T) {
	f := newFixture(t)
	owner := addr(1)
	act := f.actuator(freeze(owner, 1_000_000, 3, types.ResourceEnergy))
	got, err := act.OwnerAddress()
	require.NoError(t, err)
	require.Equal(t, owner.Bytes(), got)
	require.Equal(t, int64(0), act.CalcFee())
}

func TestChargeFee(t *testing.T) {
	f := newFixture(t)
	payer := f.createAccount(1, 50)

	require.NoError(t, ChargeFee(f.ledger, payer, 20))
	require.Equal(t, int64(30), f.account(payer).Balance)

	pending := f.ledger.Snapshot()
	require.NoError(t, ChargeFee(f.ledger, payer, 0))
	require.Greater(t, f.ledger.Snapshot(), pending, "zero fee still rewrites the account")
	require.Equal(t, int64(30), f.account(payer).Balance)

	require.ErrorIs(t, ChargeFee(f.ledger, payer, 31), ledgererrors.ErrBalanceInsufficient)
	require.ErrorIs(t, ChargeFee(f.ledger, addr(9), 1), ledgererrors.ErrAccountNotFound)
	require.Error(t, ChargeFee(f.ledger, payer, -1))
}
