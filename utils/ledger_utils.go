package utils

import "github.com/Luismorlan/scrooge_in_go/model"

// Pool is the set of UTXO operations a ledger mutation needs.
type Pool interface {
	Contains(u model.UTXO) bool
	Get(u model.UTXO) (model.Output, bool)
	Insert(u model.UTXO, o model.Output)
	Remove(u model.UTXO)
}

func CreateUtxoFromInput(input *model.Input) model.UTXO {
	return model.UTXO{
		PrevTxHash: input.PrevTxHash,
		Index:      input.Index,
	}
}

// ApplyTransaction mutates the pool for an accepted transaction:
// 1. Claim every input.
// 2. Store every output at (tx hash, index).
// The caller is responsible for validating tx first.
func ApplyTransaction(tx *model.Transaction, p Pool) {
	for _, input := range tx.Inputs {
		p.Remove(CreateUtxoFromInput(input))
	}
	for i, output := range tx.Outputs {
		utxo := model.UTXO{
			PrevTxHash: tx.Hash,
			Index:      uint32(i),
		}
		p.Insert(utxo, *output)
	}
}

// CalcTxFee returns the sum of the inputs known to the pool minus the sum of all outputs. The
// result is only meaningful for a transaction valid against p.
func CalcTxFee(tx *model.Transaction, p Pool) float64 {
	var totalInput, totalOutput float64
	for _, input := range tx.Inputs {
		if output, ok := p.Get(CreateUtxoFromInput(input)); ok {
			totalInput += output.Value
		}
	}
	for _, output := range tx.Outputs {
		totalOutput += output.Value
	}
	return totalInput - totalOutput
}
