package tx_handler

import (
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/utils"
)

// Pool is the UTXO pool the handler validates against and mutates.
// Fork returns an independent deep copy owned by the caller.
type Pool interface {
	utils.Pool
	Fork() Pool
}

// LedgerPool adapts *model.Ledger to Pool.
type LedgerPool struct {
	*model.Ledger
}

// NewLedgerPool wraps l without copying it.
func NewLedgerPool(l *model.Ledger) LedgerPool {
	return LedgerPool{Ledger: l}
}

func (p LedgerPool) Fork() Pool {
	return LedgerPool{Ledger: p.Ledger.Fork()}
}
