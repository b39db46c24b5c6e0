package tx_handler

import (
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/cockroachdb/errors"
)

// MessageFunc returns the bytes the owner of the index-th input of tx has signed.
type MessageFunc func(tx *model.Transaction, index int) ([]byte, error)

// Validator decides whether a transaction can be applied to a given pool. It never mutates the
// pool, so it can be used on hypothetical forks as well as on the live ledger.
type Validator struct {
	verifier signature.Verifier
	message  MessageFunc
}

func NewValidator(v signature.Verifier) *Validator {
	return &Validator{
		verifier: v,
		message:  utils.GetInputDataToSignByIndex,
	}
}

// IsValidTx reports whether CheckTransaction accepts tx.
func (v *Validator) IsValidTx(tx *model.Transaction, p utils.Pool) bool {
	return v.CheckTransaction(tx, p) == nil
}

// CheckTransaction returns nil if tx is valid against p, otherwise an error wrapping the first
// violated rule. A transaction is valid if:
// 1. All inputs claim a UTXO in p.
// 2. Signatures on all inputs are valid.
// 3. No UTXO is claimed twice.
// 4. Outputs are non-negative.
// 5. Total outputs are smaller or equal to total inputs.
// A transaction without inputs and outputs is valid.
func (v *Validator) CheckTransaction(tx *model.Transaction, p utils.Pool) error {
	if tx == nil {
		return ErrNilTransaction
	}

	var totalInput, totalOutput float64
	// Store all seen UTXOs to avoid double spending.
	seenUtxo := make(map[model.UTXO]struct{}, len(tx.Inputs))

	for i, input := range tx.Inputs {
		if input == nil {
			return errors.Wrapf(ErrNilInput, "tx %s input %d", tx.Hash, i)
		}
		utxo := utils.CreateUtxoFromInput(input)
		if !p.Contains(utxo) {
			return errors.Wrapf(ErrMissingUtxo, "tx %s input %d claims %s", tx.Hash, i, utxo)
		}
		if _, exist := seenUtxo[utxo]; exist {
			return errors.Wrapf(ErrDoubleSpend, "tx %s input %d claims %s", tx.Hash, i, utxo)
		}
		seenUtxo[utxo] = struct{}{}

		output, ok := p.Get(utxo)
		if !ok {
			panic(errors.AssertionFailedf("pool contains %s but has no output for it", utxo))
		}

		msg, err := v.message(tx, i)
		if err != nil {
			return errors.Wrapf(ErrBadSignature, "tx %s input %d: %v", tx.Hash, i, err)
		}
		if !v.verifier.Verify(output.PublicKey, msg, input.Signature) {
			return errors.Wrapf(ErrBadSignature, "tx %s input %d", tx.Hash, i)
		}
		totalInput += output.Value
	}

	for i, output := range tx.Outputs {
		if output == nil {
			return errors.Wrapf(ErrNilOutput, "tx %s output %d", tx.Hash, i)
		}
		if output.Value < 0 {
			return errors.Wrapf(ErrNegativeOutput, "tx %s output %d value %f", tx.Hash, i, output.Value)
		}
		totalOutput += output.Value
	}

	if totalInput < totalOutput {
		return errors.Wrapf(ErrInsufficientFunds, "tx %s inputs %f outputs %f", tx.Hash, totalInput, totalOutput)
	}
	return nil
}
