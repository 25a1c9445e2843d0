package types

// ResultCode is the outcome recorded for one applied contract.
type ResultCode int32

const (
	ResultSuccess ResultCode = 0
	ResultFailed  ResultCode = 1
)

func (c ResultCode) String() string {
	if c == ResultSuccess {
		return "SUCCESS"
	}
	return "FAILED"
}

// TransactionResult is returned to the block pipeline for every contract.
type TransactionResult struct {
	Status  ResultCode `json:"status"`
	Fee     int64      `json:"fee"`
	Message string     `json:"message,omitempty"`
}

// SetStatus records the fee charged and the outcome.
func (r *TransactionResult) SetStatus(fee int64, code ResultCode) {
	r.Fee = fee
	r.Status = code
}

// Succeeded reports whether the contract applied.
func (r *TransactionResult) Succeeded() bool {
	return r.Status == ResultSuccess
}
