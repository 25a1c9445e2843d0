package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
)

func transfer(from, to types.Address, amount int64) *types.TransferContract {
	return &types.TransferContract{OwnerAddress: from.Bytes(), ToAddress: to.Bytes(), Amount: amount}
}

func TestTransferToExistingAccount(t *testing.T) {
	f := newFixture(t)
	from := f.createAccount(1, 1_000)
	to := f.createAccount(2, 5)

	result := f.apply(transfer(from, to, 400))
	require.Equal(t, int64(0), result.Fee)
	require.Equal(t, int64(600), f.account(from).Balance)
	require.Equal(t, int64(405), f.account(to).Balance)

	emitted := f.recorder.Events()
	require.Len(t, emitted, 1)
	require.False(t, emitted[0].(events.Transfer).AccountCreated)
}

func TestTransferCreatesRecipientAndChargesFee(t *testing.T) {
	f := newFixture(t)
	f.updateProps(func(p *types.DynamicProperties) { p.CreateNewAccountFee = 100 })
	from := f.createAccount(1, 1_000)

	result := f.apply(transfer(from, addr(2), 400))
	require.Equal(t, int64(100), result.Fee)
	require.Equal(t, int64(500), f.account(from).Balance)

	created := f.account(addr(2))
	require.Equal(t, int64(400), created.Balance)
	require.Equal(t, types.AccountTypeNormal, created.Type)
	require.Equal(t, headTimestamp, created.CreateTime)
	require.True(t, f.recorder.Events()[0].(events.Transfer).AccountCreated)
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	f.updateProps(func(p *types.DynamicProperties) { p.CreateNewAccountFee = 100 })
	from := f.createAccount(1, 1_000)
	to := f.createAccount(2, 0)

	cases := map[string]struct {
		payload *types.TransferContract
		reason  string
	}{
		"self":             {transfer(from, from, 1), "Cannot transfer UNW to yourself."},
		"bad to":           {&types.TransferContract{OwnerAddress: from.Bytes(), ToAddress: []byte{1}, Amount: 1}, "Invalid toAddress"},
		"bad owner":        {&types.TransferContract{OwnerAddress: nil, ToAddress: to.Bytes(), Amount: 1}, "Invalid ownerAddress"},
		"missing owner":    {transfer(addr(9), to, 1), "Validate TransferContract error, no OwnerAccount."},
		"zero amount":      {transfer(from, to, 0), "Amount must be greater than 0."},
		"over balance":     {transfer(from, to, 1_001), "Validate TransferContract error, balance is not sufficient."},
		"fee over balance": {transfer(from, addr(3), 901), "Validate TransferContract error, balance is not sufficient."},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := f.actuator(tc.payload).Validate()
			require.True(t, ledgererrors.IsValidation(err))
			require.Equal(t, tc.reason, ledgererrors.Reason(err))
		})
	}
}

func TestTransferExecuteRechecksBalance(t *testing.T) {
	f := newFixture(t)
	from := f.createAccount(1, 1_000)
	to := f.createAccount(2, 0)

	act := f.actuator(transfer(from, to, 800))
	require.NoError(t, act.Validate())

	acct := f.account(from)
	acct.Balance = 10
	require.NoError(t, f.ledger.PutAccount(acct))
	before := f.root()

	result := &types.TransactionResult{}
	err := act.Execute(result)
	require.ErrorIs(t, err, ledgererrors.ErrBalanceInsufficient)
	require.Equal(t, types.ResultFailed, result.Status)
	require.Equal(t, before, f.root())
}
