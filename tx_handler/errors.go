package tx_handler

import "github.com/cockroachdb/errors"

// Reasons a transaction is rejected, in the order the validator checks them.
var (
	ErrNilTransaction    = errors.New("transaction is nil")
	ErrNilInput          = errors.New("transaction has a nil input")
	ErrNilOutput         = errors.New("transaction has a nil output")
	ErrMissingUtxo       = errors.New("input claims an output that is not unspent")
	ErrDoubleSpend       = errors.New("input claims an output already claimed by the same transaction")
	ErrBadSignature      = errors.New("input signature doesn't match the transaction data")
	ErrNegativeOutput    = errors.New("output value is negative")
	ErrInsufficientFunds = errors.New("outputs exceed inputs")
)
