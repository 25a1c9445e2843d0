package actuator

import (
	"bytes"
	"fmt"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
)

// FreezeBalanceActuator locks native currency into bandwidth or energy stake,
// either for the owner or delegated to a receiver.
type FreezeBalanceActuator struct {
	base
}

func (a *FreezeBalanceActuator) ContractType() types.ContractType {
	return types.ContractFreezeBalance
}

func (a *FreezeBalanceActuator) CalcFee() int64 {
	return 0
}

func (a *FreezeBalanceActuator) OwnerAddress() ([]byte, error) {
	var payload types.FreezeBalanceContract
	if err := a.contract.Unpack(&payload); err != nil {
		return nil, err
	}
	return payload.OwnerAddress, nil
}

func (a *FreezeBalanceActuator) Validate() error {
	if err := a.checkHandles(); err != nil {
		return err
	}
	var payload types.FreezeBalanceContract
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

	frozenBalance := payload.FrozenBalance
	if frozenBalance <= 0 {
		return ledgererrors.Validationf("frozenBalance must be positive")
	}
	if frozenBalance < types.MinFrozenBalance {
		return ledgererrors.Validationf("frozenBalance must be more than 1 UNW")
	}
	if count := owner.FrozenCount(payload.Resource); count != 0 && count != 1 {
		return ledgererrors.Validationf("frozenCount must be 0 or 1")
	}
	if frozenBalance > owner.Balance {
		return ledgererrors.Validationf("frozenBalance must be less than accountBalance")
	}

	props, err := a.ledger.DynamicProperties()
	if err != nil {
		return err
	}
	if a.cfg.CheckFrozenTime == 1 {
		duration := payload.FrozenDuration
		if duration < props.MinFrozenTime || duration > props.MaxFrozenTime {
			return ledgererrors.Validationf("frozenDuration must be less than %d days and more than %d days",
				props.MaxFrozenTime, props.MinFrozenTime)
		}
	}

	if !payload.Resource.Valid() {
		return ledgererrors.Validationf("ResourceCode error, valid ResourceCode[BANDWIDTH、ENERGY]")
	}

	if len(payload.ReceiverAddress) > 0 && props.SupportDelegatedResource {
		if bytes.Equal(payload.ReceiverAddress, payload.OwnerAddress) {
			return ledgererrors.Validationf("receiverAddress must not be the same as ownerAddress")
		}
		if !a.addressValid(payload.ReceiverAddress) {
			return ledgererrors.Validationf("Invalid receiverAddress")
		}
		receiver, found, err := a.ledger.Account(types.BytesToAddress(payload.ReceiverAddress))
		if err != nil {
			return err
		}
		if !found {
			return notExists(payload.ReceiverAddress)
		}
		if props.AllowContractResourceRestriction && receiver.Type == types.AccountTypeContract {
			return ledgererrors.Validationf("Do not allow delegate resources to contract addresses")
		}
	}
	return nil
}

func (a *FreezeBalanceActuator) Execute(result *types.TransactionResult) error {
	fee := a.CalcFee()
	var payload types.FreezeBalanceContract
	if err := a.contract.Unpack(&payload); err != nil {
		return fail(result, fee, err)
	}
	ownerAddr := types.BytesToAddress(payload.OwnerAddress)
	owner, found, err := a.ledger.Account(ownerAddr)
	if err != nil {
		return fail(result, fee, err)
	}
	if !found {
		return fail(result, fee, fmt.Errorf("%w: owner %s", ledgererrors.ErrAccountNotFound, ownerAddr.Hex()))
	}

	frozenBalance := payload.FrozenBalance
	if frozenBalance <= 0 || !payload.Resource.Valid() {
		return fail(result, fee, ledgererrors.Executionf("invalid freeze of %d %s", frozenBalance, payload.Resource))
	}
	if owner.Balance < frozenBalance {
		return fail(result, fee, fmt.Errorf("%w: account %s holds %d, freezing %d",
			ledgererrors.ErrBalanceInsufficient, ownerAddr.Hex(), owner.Balance, frozenBalance))
	}

	now, err := a.ledger.HeadBlockTimestamp()
	if err != nil {
		return fail(result, fee, err)
	}
	expireTime := now + payload.FrozenDuration*types.MillisecondsPerDay

	props, err := a.ledger.DynamicProperties()
	if err != nil {
		return fail(result, fee, err)
	}
	var receiverAddr types.Address
	delegate := len(payload.ReceiverAddress) > 0 && props.SupportDelegatedResource
	if delegate {
		receiverAddr = types.BytesToAddress(payload.ReceiverAddress)
		if receiverAddr == ownerAddr {
			return fail(result, fee, ledgererrors.Executionf("receiver %s is the owner", receiverAddr.Hex()))
		}
		if _, found, err := a.ledger.Account(receiverAddr); err != nil {
			return fail(result, fee, err)
		} else if !found {
			return fail(result, fee, fmt.Errorf("%w: receiver %s", ledgererrors.ErrAccountNotFound, receiverAddr.Hex()))
		}
		if err := a.delegateResource(ownerAddr, receiverAddr, payload.Resource, frozenBalance, expireTime); err != nil {
			return fail(result, fee, err)
		}
		owner.AddDelegatedFrozenBalance(payload.Resource, frozenBalance)
	} else {
		own := frozenBalance + owner.OwnFrozenBalance(payload.Resource)
		if payload.Resource == types.ResourceBandwidth {
			owner.SetFrozenForBandwidth(own, expireTime)
		} else {
			owner.SetFrozenForEnergy(own, expireTime)
		}
	}

	weight := types.WeightOf(frozenBalance)
	props.AddTotalWeight(payload.Resource, weight)
	if err := a.ledger.PutDynamicProperties(props); err != nil {
		return fail(result, fee, err)
	}

	owner.Balance -= frozenBalance
	if err := a.ledger.PutAccount(owner); err != nil {
		return fail(result, fee, err)
	}
	if err := ChargeFee(a.ledger, ownerAddr, fee); err != nil {
		return fail(result, fee, err)
	}
	result.SetStatus(fee, types.ResultSuccess)

	a.emit(events.BalanceFrozen{
		Owner:      ownerAddr,
		Receiver:   receiverAddr,
		Resource:   payload.Resource,
		Amount:     frozenBalance,
		ExpireTime: expireTime,
		Weight:     weight,
	})
	return nil
}

// delegateResource credits amount of res from owner to receiver: the pair
// record, both counterparty indices and the receiver's acquired total.
func (a *FreezeBalanceActuator) delegateResource(owner, receiver types.Address, res types.ResourceCode, amount, expireTime int64) error {
	record, _, err := a.ledger.DelegatedResource(owner, receiver)
	if err != nil {
		return err
	}
	record.AddFrozenBalance(res, amount, expireTime)
	if err := a.ledger.PutDelegatedResource(record); err != nil {
		return err
	}

	ownerIndex, _, err := a.ledger.DelegationIndex(owner)
	if err != nil {
		return err
	}
	ownerIndex.AddToAccount(receiver)
	if err := a.ledger.PutDelegationIndex(ownerIndex); err != nil {
		return err
	}

	receiverIndex, _, err := a.ledger.DelegationIndex(receiver)
	if err != nil {
		return err
	}
	receiverIndex.AddFromAccount(owner)
	if err := a.ledger.PutDelegationIndex(receiverIndex); err != nil {
		return err
	}

	receiverAcct, _, err := a.ledger.Account(receiver)
	if err != nil {
		return err
	}
	receiverAcct.AddAcquiredDelegatedFrozenBalance(res, amount)
	return a.ledger.PutAccount(receiverAcct)
}
