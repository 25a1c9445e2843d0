package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	ledgererrors "unichain/core/errors"
)

// ContractType tags the payload carried by a Contract envelope.
type ContractType int32

const (
	ContractTransfer        ContractType = 1
	ContractFreezeBalance   ContractType = 11
	ContractUnfreezeBalance ContractType = 12
)

func (t ContractType) String() string {
	switch t {
	case ContractTransfer:
		return "TransferContract"
	case ContractFreezeBalance:
		return "FreezeBalanceContract"
	case ContractUnfreezeBalance:
		return "UnfreezeBalanceContract"
	default:
		return fmt.Sprintf("ContractType(%d)", int32(t))
	}
}

// ContractTypes lists every contract type the actuators can apply.
func ContractTypes() []ContractType {
	return []ContractType{ContractTransfer, ContractFreezeBalance, ContractUnfreezeBalance}
}

// ParseContractType maps a contract name back to its type tag.
func ParseContractType(name string) (ContractType, error) {
	for _, t := range ContractTypes() {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ledgererrors.ErrUnsupportedContract, name)
}

// Contract is the typed envelope handed to the actuators. Parameter holds the
// RLP encoding of the payload named by Type.
type Contract struct {
	Type      ContractType `json:"type"`
	Parameter []byte       `json:"parameter"`
}

// Payload is implemented by every contract body.
type Payload interface {
	ContractType() ContractType
	toWire() any
	fromWire(decode func(any) error) error
}

// PackContract wraps payload into an envelope.
func PackContract(payload Payload) (*Contract, error) {
	if payload == nil {
		return nil, ledgererrors.ErrNoContract
	}
	encoded, err := rlp.EncodeToBytes(payload.toWire())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", payload.ContractType(), err)
	}
	return &Contract{Type: payload.ContractType(), Parameter: encoded}, nil
}

// Unpack decodes the envelope into dst. A type mismatch is reported with the
// expected and real type names.
func (c *Contract) Unpack(dst Payload) error {
	if c == nil {
		return ledgererrors.ErrNoContract
	}
	if c.Type != dst.ContractType() {
		return &ContractTypeError{Expected: dst.ContractType(), Real: c.Type}
	}
	return dst.fromWire(func(v any) error {
		if err := rlp.DecodeBytes(c.Parameter, v); err != nil {
			return fmt.Errorf("decode %s: %w", c.Type, err)
		}
		return nil
	})
}

// ContractTypeError reports an envelope unpacked as the wrong payload.
type ContractTypeError struct {
	Expected ContractType
	Real     ContractType
}

func (e *ContractTypeError) Error() string {
	return fmt.Sprintf("contract type error,expected type [%s],real type[%s]", e.Expected, e.Real)
}

func (e *ContractTypeError) Unwrap() error { return ledgererrors.ErrContractType }

// FreezeBalanceContract locks FrozenBalance for FrozenDuration days, optionally
// counting the resource toward ReceiverAddress.
type FreezeBalanceContract struct {
	OwnerAddress    []byte
	FrozenBalance   int64
	FrozenDuration  int64
	Resource        ResourceCode
	ReceiverAddress []byte
}

// UnfreezeBalanceContract releases an expired own or delegated stake.
type UnfreezeBalanceContract struct {
	OwnerAddress    []byte
	Resource        ResourceCode
	ReceiverAddress []byte
}

// TransferContract moves native currency between two accounts.
type TransferContract struct {
	OwnerAddress []byte
	ToAddress    []byte
	Amount       int64
}

// Signed fields travel as two's complement uint64 so that negative values
// survive decoding and are rejected by validation instead.
type freezeBalanceWire struct {
	OwnerAddress    []byte
	FrozenBalance   uint64
	FrozenDuration  uint64
	Resource        uint64
	ReceiverAddress []byte
}

type unfreezeBalanceWire struct {
	OwnerAddress    []byte
	Resource        uint64
	ReceiverAddress []byte
}

type transferWire struct {
	OwnerAddress []byte
	ToAddress    []byte
	Amount       uint64
}

func (*FreezeBalanceContract) ContractType() ContractType { return ContractFreezeBalance }

func (c *FreezeBalanceContract) toWire() any {
	return &freezeBalanceWire{
		OwnerAddress:    c.OwnerAddress,
		FrozenBalance:   uint64(c.FrozenBalance),
		FrozenDuration:  uint64(c.FrozenDuration),
		Resource:        uint64(int64(c.Resource)),
		ReceiverAddress: c.ReceiverAddress,
	}
}

func (c *FreezeBalanceContract) fromWire(decode func(any) error) error {
	var wire freezeBalanceWire
	if err := decode(&wire); err != nil {
		return err
	}
	*c = FreezeBalanceContract{
		OwnerAddress:    nonEmpty(wire.OwnerAddress),
		FrozenBalance:   int64(wire.FrozenBalance),
		FrozenDuration:  int64(wire.FrozenDuration),
		Resource:        ResourceCode(int64(wire.Resource)),
		ReceiverAddress: nonEmpty(wire.ReceiverAddress),
	}
	return nil
}

func (*UnfreezeBalanceContract) ContractType() ContractType { return ContractUnfreezeBalance }

func (c *UnfreezeBalanceContract) toWire() any {
	return &unfreezeBalanceWire{
		OwnerAddress:    c.OwnerAddress,
		Resource:        uint64(int64(c.Resource)),
		ReceiverAddress: c.ReceiverAddress,
	}
}

func (c *UnfreezeBalanceContract) fromWire(decode func(any) error) error {
	var wire unfreezeBalanceWire
	if err := decode(&wire); err != nil {
		return err
	}
	*c = UnfreezeBalanceContract{
		OwnerAddress:    nonEmpty(wire.OwnerAddress),
		Resource:        ResourceCode(int64(wire.Resource)),
		ReceiverAddress: nonEmpty(wire.ReceiverAddress),
	}
	return nil
}

func (*TransferContract) ContractType() ContractType { return ContractTransfer }

func (c *TransferContract) toWire() any {
	return &transferWire{
		OwnerAddress: c.OwnerAddress,
		ToAddress:    c.ToAddress,
		Amount:       uint64(c.Amount),
	}
}

func (c *TransferContract) fromWire(decode func(any) error) error {
	var wire transferWire
	if err := decode(&wire); err != nil {
		return err
	}
	*c = TransferContract{
		OwnerAddress: nonEmpty(wire.OwnerAddress),
		ToAddress:    nonEmpty(wire.ToAddress),
		Amount:       int64(wire.Amount),
	}
	return nil
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
