package actuator

import (
	"fmt"

	ledgererrors "unichain/core/errors"
	"unichain/core/types"
)

// ChargeFee debits fee from the account at addr and persists it. A zero fee
// still rewrites the account so storage diffs stay identical across nodes.
func ChargeFee(ledger Ledger, addr types.Address, fee int64) error {
	if fee < 0 {
		return fmt.Errorf("actuator: negative fee %d", fee)
	}
	acct, found, err := ledger.Account(addr)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: fee payer %s", ledgererrors.ErrAccountNotFound, addr.Hex())
	}
	if acct.Balance < fee {
		return fmt.Errorf("%w: account %s holds %d, fee %d",
			ledgererrors.ErrBalanceInsufficient, addr.Hex(), acct.Balance, fee)
	}
	acct.Balance -= fee
	return ledger.PutAccount(acct)
}
