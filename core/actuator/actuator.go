package actuator

import (
	"fmt"

	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/types"
	"unichain/crypto"
)

// Ledger is the store surface the actuators read and mutate. Lookups never
// return a nil record; found reports whether the record was stored.
type Ledger interface {
	Account(addr types.Address) (*types.Account, bool, error)
	PutAccount(acct *types.Account) error

	DelegatedResource(from, to types.Address) (*types.DelegatedResource, bool, error)
	PutDelegatedResource(record *types.DelegatedResource) error
	DeleteDelegatedResource(from, to types.Address) error

	DelegationIndex(addr types.Address) (*types.DelegatedResourceAccountIndex, bool, error)
	PutDelegationIndex(index *types.DelegatedResourceAccountIndex) error
	DeleteDelegationIndex(addr types.Address) error

	DynamicProperties() (*types.DynamicProperties, error)
	PutDynamicProperties(props *types.DynamicProperties) error
	HeadBlockTimestamp() (int64, error)
}

// Config carries the node-level execution knobs.
type Config struct {
	// AddressPrefix is the network byte every raw address must start with.
	AddressPrefix byte
	// CheckFrozenTime enforces the freeze duration bounds when set to 1. Any
	// other value accepts every duration.
	CheckFrozenTime int
}

// DefaultConfig returns the mainnet execution settings.
func DefaultConfig() Config {
	return Config{AddressPrefix: crypto.DefaultAddressPrefix, CheckFrozenTime: 1}
}

// Actuator applies one contract. An instance is bound to a single contract
// and is used for exactly one Validate/Execute pair.
type Actuator interface {
	// Validate checks the contract against the current ledger without writing.
	Validate() error
	// Execute applies the contract and records status and fee into result.
	// On failure result is marked FAILED with the fee and an ExecutionError
	// is returned.
	Execute(result *types.TransactionResult) error
	// CalcFee returns the fee the contract pays when executed.
	CalcFee() int64
	// OwnerAddress returns the raw address that signed the contract.
	OwnerAddress() ([]byte, error)
	// ContractType reports the contract kind the actuator handles.
	ContractType() types.ContractType
}

// New binds the actuator matching contract.Type. Adding a contract kind means
// adding an arm here and to types.ContractTypes.
func New(contract *types.Contract, ledger Ledger, cfg Config, emitter events.Emitter) (Actuator, error) {
	if contract == nil {
		return nil, ledgererrors.ErrNoContract
	}
	b := base{contract: contract, ledger: ledger, cfg: cfg, emitter: emitter}
	if b.emitter == nil {
		b.emitter = events.NoopEmitter{}
	}
	switch contract.Type {
	case types.ContractTransfer:
		return &TransferActuator{base: b}, nil
	case types.ContractFreezeBalance:
		return &FreezeBalanceActuator{base: b}, nil
	case types.ContractUnfreezeBalance:
		return &UnfreezeBalanceActuator{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ledgererrors.ErrUnsupportedContract, contract.Type)
	}
}

// base holds what every actuator is constructed with.
type base struct {
	contract *types.Contract
	ledger   Ledger
	cfg      Config
	emitter  events.Emitter
}

func (b *base) checkHandles() error {
	if b.contract == nil {
		return ledgererrors.WrapValidation(ledgererrors.ErrNoContract, "No contract!")
	}
	if b.ledger == nil {
		return ledgererrors.WrapValidation(ledgererrors.ErrNoLedger, "No ledger store!")
	}
	return nil
}

// unpack decodes the payload, reporting failures as validation errors.
func (b *base) unpack(dst types.Payload) error {
	if err := b.contract.Unpack(dst); err != nil {
		return ledgererrors.WrapValidation(err, err.Error())
	}
	return nil
}

func (b *base) addressValid(addr []byte) bool {
	return crypto.AddressValid(addr, b.cfg.AddressPrefix)
}

func (b *base) emit(e events.Event) {
	if b.emitter != nil {
		b.emitter.Emit(e)
	}
}

// notExists formats the reason used when a referenced account is missing.
func notExists(addr []byte) *ledgererrors.ValidationError {
	return ledgererrors.WrapValidation(ledgererrors.ErrAccountNotFound,
		fmt.Sprintf("Account[%s] not exists", types.BytesToAddress(addr).Hex()))
}

// fail marks result FAILED with fee and wraps err as an ExecutionError.
func fail(result *types.TransactionResult, fee int64, err error) error {
	execErr := ledgererrors.WrapExecution(err, "")
	if result != nil {
		result.SetStatus(fee, types.ResultFailed)
		result.Message = ledgererrors.Reason(execErr)
	}
	return execErr
}
