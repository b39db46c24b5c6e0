package model

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jinzhu/copier"
)

// Unspent transaction output. All UTXO are aggregated as a ledger.
type UTXO struct {
	// Hash of the transaction that created the output.
	PrevTxHash chainhash.Hash
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index uint32
}

func (u UTXO) String() string {
	return fmt.Sprintf("%s:%d", u.PrevTxHash, u.Index)
}

// Ledger is simply a pool of UTXO. It holds exactly the coins that are currently spendable.
type Ledger struct {
	L map[UTXO]Output
}

func NewLedger() *Ledger {
	return &Ledger{
		L: make(map[UTXO]Output),
	}
}

func (l *Ledger) Contains(u UTXO) bool {
	_, ok := l.L[u]
	return ok
}

func (l *Ledger) Get(u UTXO) (Output, bool) {
	o, ok := l.L[u]
	return o, ok
}

func (l *Ledger) Insert(u UTXO, o Output) {
	l.L[u] = o
}

func (l *Ledger) Remove(u UTXO) {
	delete(l.L, u)
}

func (l *Ledger) Size() int {
	return len(l.L)
}

// Fork returns a copy of the ledger. Inserting or removing in the copy is never visible in l
// and the other way around. Outputs are immutable, so their public key bytes are shared.
func (l *Ledger) Fork() *Ledger {
	f := NewLedger()
	// Copying the Ledger struct would share L, copy the map itself.
	if err := copier.Copy(&f.L, l.L); err != nil {
		panic(fmt.Sprintf("fork ledger: %v", err))
	}
	return f
}

// TotalValue sums the value of every unspent output.
func (l *Ledger) TotalValue() float64 {
	total := 0.0
	for _, o := range l.L {
		total += o.Value
	}
	return total
}

// UtxosForPublicKey returns the sub ledger owned by the given public key.
func (l *Ledger) UtxosForPublicKey(pk []byte) *Ledger {
	res := NewLedger()
	for u, o := range l.L {
		if string(o.PublicKey) == string(pk) {
			res.L[u] = o
		}
	}
	return res
}
