package actuator

import (
	"bytes"
	"fmt"
	"math"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
)

// TransferActuator moves native currency between two accounts, creating the
// recipient on first use.
type TransferActuator struct {
	base
}

func (a *TransferActuator) ContractType() types.ContractType {
	return types.ContractTransfer
}

// CalcFee returns the base transfer fee. Creating the recipient adds the
// chain's account creation fee on top.
func (a *TransferActuator) CalcFee() int64 {
	return 0
}

func (a *TransferActuator) OwnerAddress() ([]byte, error) {
	var payload types.TransferContract
	if err := a.contract.Unpack(&payload); err != nil {
		return nil, err
	}
	return payload.OwnerAddress, nil
}

func (a *TransferActuator) Validate() error {
	if err := a.checkHandles(); err != nil {
		return err
	}
	var payload types.TransferContract
	if err := a.unpack(&payload); err != nil {
		return err
	}
	if !a.addressValid(payload.OwnerAddress) {
		return ledgererrors.Validationf("Invalid ownerAddress")
	}
	if !a.addressValid(payload.ToAddress) {
		return ledgererrors.Validationf("Invalid toAddress")
	}
	if bytes.Equal(payload.ToAddress, payload.OwnerAddress) {
		return ledgererrors.Validationf("Cannot transfer UNW to yourself.")
	}
	owner, found, err := a.ledger.Account(types.BytesToAddress(payload.OwnerAddress))
	if err != nil {
		return err
	}
	if !found {
		return ledgererrors.WrapValidation(ledgererrors.ErrAccountNotFound,
			"Validate TransferContract error, no OwnerAccount.")
	}
	if payload.Amount <= 0 {
		return ledgererrors.Validationf("Amount must be greater than 0.")
	}

	fee := a.CalcFee()
	to, found, err := a.ledger.Account(types.BytesToAddress(payload.ToAddress))
	if err != nil {
		return err
	}
	if !found {
		props, err := a.ledger.DynamicProperties()
		if err != nil {
			return err
		}
		fee += props.CreateNewAccountFee
	}
	if payload.Amount > math.MaxInt64-fee || owner.Balance < payload.Amount+fee {
		return ledgererrors.WrapValidation(ledgererrors.ErrBalanceInsufficient,
			"Validate TransferContract error, balance is not sufficient.")
	}
	if found && to.Balance > math.MaxInt64-payload.Amount {
		return ledgererrors.Validationf("long overflow")
	}
	return nil
}

func (a *TransferActuator) Execute(result *types.TransactionResult) error {
	fee := a.CalcFee()
	var payload types.TransferContract
	if err := a.contract.Unpack(&payload); err != nil {
		return fail(result, fee, err)
	}
	ownerAddr := types.BytesToAddress(payload.OwnerAddress)
	toAddr := types.BytesToAddress(payload.ToAddress)
	if payload.Amount <= 0 || ownerAddr == toAddr {
		return fail(result, fee, ledgererrors.Executionf("invalid transfer of %d to %s", payload.Amount, toAddr.Hex()))
	}

	to, found, err := a.ledger.Account(toAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	created := !found
	if created {
		props, err := a.ledger.DynamicProperties()
		if err != nil {
			return fail(result, fee, err)
		}
		fee += props.CreateNewAccountFee
		to.CreateTime = props.LatestBlockHeaderTimestamp
	}
	if to.Balance > math.MaxInt64-payload.Amount {
		return fail(result, fee, ledgererrors.Executionf("balance overflow crediting %s", toAddr.Hex()))
	}

	owner, found, err := a.ledger.Account(ownerAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	if !found {
		return fail(result, fee, fmt.Errorf("%w: owner %s", ledgererrors.ErrAccountNotFound, ownerAddr.Hex()))
	}
	if payload.Amount > math.MaxInt64-fee || owner.Balance < payload.Amount+fee {
		return fail(result, fee, fmt.Errorf("%w: account %s holds %d, needs %d plus fee %d",
			ledgererrors.ErrBalanceInsufficient, ownerAddr.Hex(), owner.Balance, payload.Amount, fee))
	}

	if created {
		if err := a.ledger.PutAccount(to); err != nil {
			return fail(result, fee, err)
		}
	}
	if err := ChargeFee(a.ledger, ownerAddr, fee); err != nil {
		return fail(result, fee, err)
	}
	owner, _, err = a.ledger.Account(ownerAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	owner.Balance -= payload.Amount
	if err := a.ledger.PutAccount(owner); err != nil {
		return fail(result, fee, err)
	}
	to, _, err = a.ledger.Account(toAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	to.Balance += payload.Amount
	if err := a.ledger.PutAccount(to); err != nil {
		return fail(result, fee, err)
	}
	result.SetStatus(fee, types.ResultSuccess)

	a.emit(events.Transfer{From: ownerAddr, To: toAddr, Amount: payload.Amount, AccountCreated: created})
	return nil
}
