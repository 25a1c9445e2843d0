package actuator

import (
	"bytes"
	"fmt"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
)

// UnfreezeBalanceActuator returns expired stake, own or delegated, to the
// owner's spendable balance.
type UnfreezeBalanceActuator struct {
	base
}

func (a *UnfreezeBalanceActuator) ContractType() types.ContractType {
	return types.ContractUnfreezeBalance
}

func (a *UnfreezeBalanceActuator) CalcFee() int64 {
	return 0
}

func (a *UnfreezeBalanceActuator) OwnerAddress() ([]byte, error) {
	var payload types.UnfreezeBalanceContract
	if err := a.contract.Unpack(&payload); err != nil {
		return nil, err
	}
	return payload.OwnerAddress, nil
}

func resourceCodeError() error {
	return ledgererrors.Validationf("ResourceCode error.valid ResourceCode[BANDWIDTH、ENERGY]")
}

func (a *UnfreezeBalanceActuator) Validate() error {
	if err := a.checkHandles(); err != nil {
		return err
	}
	var payload types.UnfreezeBalanceContract
	if err := a.unpack(&payload); err != nil {
		return err
	}
	if !a.addressValid(payload.OwnerAddress) {
		return ledgererrors.Validationf("Invalid address")
	}
	owner, found, err := a.ledger.Account(types.BytesToAddress(payload.OwnerAddress))
	if err != nil {
		return err
	}
	if !found {
		return notExists(payload.OwnerAddress)
	}
	now, err := a.ledger.HeadBlockTimestamp()
	if err != nil {
		return err
	}
	props, err := a.ledger.DynamicProperties()
	if err != nil {
		return err
	}

	if len(payload.ReceiverAddress) > 0 && props.SupportDelegatedResource {
		if bytes.Equal(payload.ReceiverAddress, payload.OwnerAddress) {
			return ledgererrors.Validationf("receiverAddress must not be the same as ownerAddress")
		}
		if !a.addressValid(payload.ReceiverAddress) {
			return ledgererrors.Validationf("Invalid receiverAddress")
		}
		_, found, err := a.ledger.Account(types.BytesToAddress(payload.ReceiverAddress))
		if err != nil {
			return err
		}
		if !found {
			return notExists(payload.ReceiverAddress)
		}
		record, found, err := a.ledger.DelegatedResource(
			types.BytesToAddress(payload.OwnerAddress), types.BytesToAddress(payload.ReceiverAddress))
		if err != nil {
			return err
		}
		if !found {
			return ledgererrors.Validationf("delegated Resource not exists")
		}
		if !payload.Resource.Valid() {
			return resourceCodeError()
		}
		if record.FrozenBalance(payload.Resource) <= 0 {
			return ledgererrors.Validationf("no delegatedFrozenBalance(%s)", payload.Resource)
		}
		if record.ExpireTime(payload.Resource) > now {
			return ledgererrors.Validationf("It's not time to unfreeze.")
		}
		return nil
	}

	switch payload.Resource {
	case types.ResourceBandwidth:
		if owner.FrozenCount(types.ResourceBandwidth) <= 0 {
			return ledgererrors.Validationf("no frozenBalance(BANDWIDTH)")
		}
		expired := 0
		for _, f := range owner.Frozen {
			if f.ExpireTime <= now {
				expired++
			}
		}
		if expired == 0 {
			return ledgererrors.Validationf("It's not time to unfreeze(BANDWIDTH).")
		}
	case types.ResourceEnergy:
		if owner.FrozenForEnergy.FrozenBalance <= 0 {
			return ledgererrors.Validationf("no frozenBalance(ENERGY)")
		}
		if owner.FrozenForEnergy.ExpireTime > now {
			return ledgererrors.Validationf("It's not time to unfreeze(ENERGY).")
		}
	default:
		return resourceCodeError()
	}
	return nil
}

func (a *UnfreezeBalanceActuator) Execute(result *types.TransactionResult) error {
	fee := a.CalcFee()
	var payload types.UnfreezeBalanceContract
	if err := a.contract.Unpack(&payload); err != nil {
		return fail(result, fee, err)
	}
	if !payload.Resource.Valid() {
		return fail(result, fee, ledgererrors.Executionf("invalid resource %s", payload.Resource))
	}
	ownerAddr := types.BytesToAddress(payload.OwnerAddress)
	owner, found, err := a.ledger.Account(ownerAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	if !found {
		return fail(result, fee, fmt.Errorf("%w: owner %s", ledgererrors.ErrAccountNotFound, ownerAddr.Hex()))
	}
	now, err := a.ledger.HeadBlockTimestamp()
	if err != nil {
		return fail(result, fee, err)
	}
	props, err := a.ledger.DynamicProperties()
	if err != nil {
		return fail(result, fee, err)
	}

	var (
		receiverAddr types.Address
		unfrozen     int64
	)
	if len(payload.ReceiverAddress) > 0 && props.SupportDelegatedResource {
		receiverAddr = types.BytesToAddress(payload.ReceiverAddress)
		unfrozen, err = a.reclaimDelegation(owner, receiverAddr, payload.Resource, now)
		if err != nil {
			return fail(result, fee, err)
		}
	} else {
		unfrozen = a.releaseOwnStake(owner, payload.Resource, now)
	}
	if unfrozen <= 0 {
		return fail(result, fee, ledgererrors.Executionf("nothing to unfreeze for %s", payload.Resource))
	}

	weight := types.WeightOf(unfrozen)
	props.AddTotalWeight(payload.Resource, -weight)
	if err := a.ledger.PutDynamicProperties(props); err != nil {
		return fail(result, fee, err)
	}

	owner.Balance += unfrozen
	if owner.Balance < unfrozen {
		return fail(result, fee, ledgererrors.Executionf("balance overflow crediting %d to %s", unfrozen, ownerAddr.Hex()))
	}
	if err := a.ledger.PutAccount(owner); err != nil {
		return fail(result, fee, err)
	}
	if err := ChargeFee(a.ledger, ownerAddr, fee); err != nil {
		return fail(result, fee, err)
	}
	result.SetStatus(fee, types.ResultSuccess)

	a.emit(events.BalanceUnfrozen{
		Owner:    ownerAddr,
		Receiver: receiverAddr,
		Resource: payload.Resource,
		Amount:   unfrozen,
		Weight:   weight,
	})
	return nil
}

// reclaimDelegation zeroes the expired delegated balance of res between owner
// and receiver and unwinds the matching totals. The pair record and both index
// entries are removed once nothing remains delegated.
func (a *UnfreezeBalanceActuator) reclaimDelegation(owner *types.Account, receiver types.Address, res types.ResourceCode, now int64) (int64, error) {
	record, found, err := a.ledger.DelegatedResource(owner.Address, receiver)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ledgererrors.Executionf("delegated resource %s->%s not found", owner.Address.Hex(), receiver.Hex())
	}
	amount := record.FrozenBalance(res)
	if amount <= 0 || record.ExpireTime(res) > now {
		return 0, ledgererrors.Executionf("delegated %s from %s is not reclaimable", res, owner.Address.Hex())
	}
	record.SetFrozenBalance(res, 0, 0)

	receiverAcct, found, err := a.ledger.Account(receiver)
	if err != nil {
		return 0, err
	}
	if found {
		acquired := receiverAcct.AcquiredDelegatedFrozenBalance(res) - amount
		if acquired < 0 {
			acquired = 0
		}
		receiverAcct.SetAcquiredDelegatedFrozenBalance(res, acquired)
		if err := a.ledger.PutAccount(receiverAcct); err != nil {
			return 0, err
		}
	}
	owner.AddDelegatedFrozenBalance(res, -amount)

	if !record.IsEmpty() {
		return amount, a.ledger.PutDelegatedResource(record)
	}
	if err := a.ledger.DeleteDelegatedResource(owner.Address, receiver); err != nil {
		return 0, err
	}
	ownerIndex, _, err := a.ledger.DelegationIndex(owner.Address)
	if err != nil {
		return 0, err
	}
	ownerIndex.RemoveToAccount(receiver)
	if err := a.storeIndex(ownerIndex); err != nil {
		return 0, err
	}
	receiverIndex, _, err := a.ledger.DelegationIndex(receiver)
	if err != nil {
		return 0, err
	}
	receiverIndex.RemoveFromAccount(owner.Address)
	if err := a.storeIndex(receiverIndex); err != nil {
		return 0, err
	}
	return amount, nil
}

// storeIndex persists index, dropping the record once it lists no one.
func (a *UnfreezeBalanceActuator) storeIndex(index *types.DelegatedResourceAccountIndex) error {
	if index.IsEmpty() {
		return a.ledger.DeleteDelegationIndex(index.Account)
	}
	return a.ledger.PutDelegationIndex(index)
}

// releaseOwnStake clears the expired own stake of res and returns its total.
func (a *UnfreezeBalanceActuator) releaseOwnStake(owner *types.Account, res types.ResourceCode, now int64) int64 {
	var released int64
	switch res {
	case types.ResourceBandwidth:
		var remaining []types.Frozen
		for _, f := range owner.Frozen {
			if f.ExpireTime <= now {
				released += f.FrozenBalance
				continue
			}
			remaining = append(remaining, f)
		}
		owner.Frozen = remaining
	case types.ResourceEnergy:
		if owner.FrozenForEnergy.ExpireTime <= now {
			released = owner.FrozenForEnergy.FrozenBalance
			owner.SetFrozenForEnergy(0, 0)
		}
	}
	return released
}
