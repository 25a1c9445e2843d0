package events

import (
	"strconv"

	"unichain/core/types"
)

const (
	// TypeBalanceFrozen is emitted when stake is frozen, for the owner or a receiver.
	TypeBalanceFrozen = "resource.frozen"
	// TypeBalanceUnfrozen is emitted when expired stake returns to the owner.
	TypeBalanceUnfrozen = "resource.unfrozen"
	// TypeTransfer is emitted for native balance movements.
	TypeTransfer = "transfer.native"
)

// BalanceFrozen captures a successful freeze.
type BalanceFrozen struct {
	Owner      types.Address
	Receiver   types.Address
	Resource   types.ResourceCode
	Amount     int64
	ExpireTime int64
	Weight     int64
}

// EventType satisfies the Event interface.
func (BalanceFrozen) EventType() string { return TypeBalanceFrozen }

// Delegated reports whether the stake counts toward another account.
func (e BalanceFrozen) Delegated() bool { return !e.Receiver.IsZero() }

// Event converts the structured payload into a broadcastable event.
func (e BalanceFrozen) Event() *types.Event {
	attrs := map[string]string{
		"owner":      e.Owner.String(),
		"resource":   e.Resource.String(),
		"amount":     strconv.FormatInt(e.Amount, 10),
		"expireTime": strconv.FormatInt(e.ExpireTime, 10),
		"weight":     strconv.FormatInt(e.Weight, 10),
	}
	if e.Delegated() {
		attrs["receiver"] = e.Receiver.String()
	}
	return &types.Event{Type: TypeBalanceFrozen, Attributes: attrs}
}

// BalanceUnfrozen captures a successful unfreeze.
type BalanceUnfrozen struct {
	Owner    types.Address
	Receiver types.Address
	Resource types.ResourceCode
	Amount   int64
	Weight   int64
}

// EventType satisfies the Event interface.
func (BalanceUnfrozen) EventType() string { return TypeBalanceUnfrozen }

func (e BalanceUnfrozen) Event() *types.Event {
	attrs := map[string]string{
		"owner":    e.Owner.String(),
		"resource": e.Resource.String(),
		"amount":   strconv.FormatInt(e.Amount, 10),
		"weight":   strconv.FormatInt(e.Weight, 10),
	}
	if !e.Receiver.IsZero() {
		attrs["receiver"] = e.Receiver.String()
	}
	return &types.Event{Type: TypeBalanceUnfrozen, Attributes: attrs}
}

// Transfer captures a native currency movement.
type Transfer struct {
	From           types.Address
	To             types.Address
	Amount         int64
	AccountCreated bool
}

func (Transfer) EventType() string { return TypeTransfer }

func (e Transfer) Event() *types.Event {
	attrs := map[string]string{
		"from":   e.From.String(),
		"to":     e.To.String(),
		"amount": strconv.FormatInt(e.Amount, 10),
	}
	if e.AccountCreated {
		attrs["accountCreated"] = "true"
	}
	return &types.Event{Type: TypeTransfer, Attributes: attrs}
}
