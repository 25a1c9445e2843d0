package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"unichain/core/actuator"
	ledgererrors "unichain/core/errors"
	"unichain/core/events"
	"unichain/core/state"
	"unichain/core/types"
	"unichain/observability"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// BlockResult carries the per-contract results of one applied block together
// with the events the successful contracts emitted, in application order.
type BlockResult struct {
	Timestamp int64
	Results   []*types.TransactionResult
	Events    []types.Event
}

// Failed counts the contracts that did not apply.
func (r *BlockResult) Failed() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if !res.Succeeded() {
			n++
		}
	}
	return n
}

// StateProcessor applies blocks of contracts to the ledger one contract at a
// time. It is not safe for concurrent use.
type StateProcessor struct {
	ledger        *state.Manager
	cfg           actuator.Config
	logger        *slog.Logger
	metrics       *observability.ActuatorMetrics
	tracer        trace.Tracer
	committedRoot common.Hash
}

// Option customises a StateProcessor.
type Option func(*StateProcessor)

// WithLogger routes processor logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sp *StateProcessor) {
		if logger != nil {
			sp.logger = logger
		}
	}
}

// WithMetrics overrides the metrics registry. A nil registry disables metrics.
func WithMetrics(m *observability.ActuatorMetrics) Option {
	return func(sp *StateProcessor) {
		sp.metrics = m
	}
}

// NewStateProcessor binds a processor to ledger using the supplied execution
// settings.
func NewStateProcessor(ledger *state.Manager, cfg actuator.Config, opts ...Option) (*StateProcessor, error) {
	if ledger == nil {
		return nil, ledgererrors.ErrNoLedger
	}
	sp := &StateProcessor{
		ledger:  ledger,
		cfg:     cfg,
		logger:  slog.Default(),
		metrics: observability.Actuator(),
		tracer:  otel.Tracer("unichain/core"),
	}
	for _, opt := range opts {
		opt(sp)
	}
	sp.logger = sp.logger.With(slog.String("component", "processor"))
	root, err := ledger.StateRoot()
	if err != nil {
		return nil, err
	}
	sp.committedRoot = root
	return sp, nil
}

// Ledger exposes the underlying state manager.
func (sp *StateProcessor) Ledger() *state.Manager {
	return sp.ledger
}

// CurrentRoot returns the last committed state root.
func (sp *StateProcessor) CurrentRoot() common.Hash {
	return sp.committedRoot
}

// PendingRoot returns the root including uncommitted writes.
func (sp *StateProcessor) PendingRoot() (common.Hash, error) {
	return sp.ledger.StateRoot()
}

// Commit flushes every pending write to the database atomically and returns
// the resulting state root.
func (sp *StateProcessor) Commit() (common.Hash, error) {
	root, err := sp.ledger.Commit()
	if err != nil {
		return common.Hash{}, err
	}
	sp.committedRoot = root
	sp.logger.Info("state committed", slog.String("root", root.Hex()))
	return root, nil
}

// Discard drops every pending write.
func (sp *StateProcessor) Discard() {
	sp.ledger.Discard()
}

// ApplyBlock sets the head block timestamp and applies contracts in order.
// Contracts that fail validation or execution produce a FAILED result and
// leave no partial writes; the block continues with the next contract. The
// returned error is reserved for store failures, after which the pending
// state should be discarded.
func (sp *StateProcessor) ApplyBlock(ctx context.Context, timestamp int64, contracts []*types.Contract) (*BlockResult, error) {
	ctx, span := sp.tracer.Start(ctx, "processor.apply_block",
		trace.WithAttributes(
			attribute.Int64("block.timestamp", timestamp),
			attribute.Int("block.contracts", len(contracts)),
		))
	defer span.End()

	if err := sp.ledger.SetHeadBlockTimestamp(timestamp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	block := &BlockResult{
		Timestamp: timestamp,
		Results:   make([]*types.TransactionResult, 0, len(contracts)),
	}
	for i, contract := range contracts {
		result, emitted, err := sp.ApplyContract(ctx, contract)
		if err != nil {
			err = fmt.Errorf("contract %d: %w", i, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		block.Results = append(block.Results, result)
		block.Events = append(block.Events, emitted...)
	}
	sp.metrics.RecordBlock()
	span.SetStatus(codes.Ok, "block applied")
	sp.logger.Debug("block applied",
		slog.Int64("timestamp", timestamp),
		slog.Int("contracts", len(contracts)),
		slog.Int("failed", block.Failed()),
		slog.Int("events", len(block.Events)))
	return block, nil
}

// ApplyContract runs validate then execute for a single contract against the
// current head timestamp. Rejected and failed contracts are reported through
// the result; only store failures are returned as errors.
func (sp *StateProcessor) ApplyContract(ctx context.Context, contract *types.Contract) (*types.TransactionResult, []types.Event, error) {
	start := time.Now()
	kind := "unknown"
	if contract != nil {
		kind = contract.Type.String()
	}
	_, span := sp.tracer.Start(ctx, "processor.apply_contract",
		trace.WithAttributes(attribute.String("contract.type", kind)))
	defer span.End()

	result := &types.TransactionResult{}
	recorder := &events.Recorder{}
	snapshot := sp.ledger.Snapshot()

	reject := func(err error) (*types.TransactionResult, []types.Event, error) {
		result.SetStatus(0, types.ResultFailed)
		result.Message = ledgererrors.Reason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, result.Message)
		sp.metrics.ObserveContract(kind, outcomeRejected, 0, time.Since(start))
		sp.logger.Debug("contract rejected", slog.String("type", kind), slog.String("reason", result.Message))
		return result, nil, nil
	}

	act, err := actuator.New(contract, sp.ledger, sp.cfg, recorder)
	if err != nil {
		return reject(ledgererrors.WrapValidation(err, err.Error()))
	}
	if err := act.Validate(); err != nil {
		if !ledgererrors.IsValidation(err) {
			return nil, nil, sp.abort(span, snapshot, err)
		}
		return reject(err)
	}

	if err := act.Execute(result); err != nil {
		if revertErr := sp.ledger.RevertToSnapshot(snapshot); revertErr != nil {
			return nil, nil, revertErr
		}
		if err := sp.rechargeFee(act, result); err != nil {
			return nil, nil, err
		}
		if result.Status != types.ResultFailed {
			result.SetStatus(result.Fee, types.ResultFailed)
		}
		if result.Message == "" {
			result.Message = ledgererrors.Reason(err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, result.Message)
		sp.metrics.ObserveContract(kind, outcomeFailed, result.Fee, time.Since(start))
		sp.logger.Warn("contract execution failed",
			slog.String("type", kind),
			slog.Int64("fee", result.Fee),
			slog.String("reason", result.Message))
		return result, nil, nil
	}

	for _, e := range recorder.Events() {
		if frozen, ok := e.(events.BalanceFrozen); ok {
			sp.metrics.RecordFrozen(frozen.Resource.String(), frozen.Delegated(), frozen.Amount)
		}
	}
	span.SetStatus(codes.Ok, "contract applied")
	sp.metrics.ObserveContract(kind, outcomeSuccess, result.Fee, time.Since(start))
	return result, recorder.Drain(), nil
}

// rechargeFee reapplies the fee recorded on a failed result after its writes
// were reverted. A payer that can no longer cover it is charged nothing.
func (sp *StateProcessor) rechargeFee(act actuator.Actuator, result *types.TransactionResult) error {
	if result.Fee <= 0 {
		result.Fee = 0
		return nil
	}
	owner, err := act.OwnerAddress()
	if err != nil {
		result.Fee = 0
		return nil
	}
	snapshot := sp.ledger.Snapshot()
	err = actuator.ChargeFee(sp.ledger, types.BytesToAddress(owner), result.Fee)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledgererrors.ErrBalanceInsufficient), errors.Is(err, ledgererrors.ErrAccountNotFound):
		result.Fee = 0
		return sp.ledger.RevertToSnapshot(snapshot)
	default:
		return err
	}
}

func (sp *StateProcessor) abort(span trace.Span, snapshot int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if revertErr := sp.ledger.RevertToSnapshot(snapshot); revertErr != nil {
		return errors.Join(err, revertErr)
	}
	return err
}
