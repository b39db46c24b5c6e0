package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type Input struct {
	// Hash of the transaction that outputs this coin.
	PrevTxHash chainhash.Hash
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index uint32
	// Signature using the previous owner's key over the signable data of this input.
	Signature []byte
}

type Output struct {
	// how much value to transfer.
	Value float64
	// Public key of the receiver, in the form of bytes.
	PublicKey []byte
}

type Transaction struct {
	// Hash of this transaction. We use this to uniquely identify the transaction.
	Hash chainhash.Hash
	// All inputs of this transaction. A nil entry makes the transaction invalid.
	Inputs []*Input
	// All outputs of this transaction. A nil entry makes the transaction invalid.
	Outputs []*Output
}

// Utxos returns the UTXO claimed by every non-nil input, in input order.
func (t *Transaction) Utxos() []UTXO {
	utxos := make([]UTXO, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if in == nil {
			continue
		}
		utxos = append(utxos, UTXO{PrevTxHash: in.PrevTxHash, Index: in.Index})
	}
	return utxos
}

type TransactionPool struct {
	// TxPool contains all pending transactions proposed during the current epoch.
	// Key is the transaction's hash, value is the transaction.
	TxPool map[chainhash.Hash]*Transaction
	// Arrival order of the pending transactions, which is the batch order of the epoch.
	order []chainhash.Hash
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() *TransactionPool {
	return &TransactionPool{
		TxPool: make(map[chainhash.Hash]*Transaction),
	}
}

// Add inserts tx unless a transaction with the same hash is already pending.
func (p *TransactionPool) Add(tx *Transaction) bool {
	if _, exist := p.TxPool[tx.Hash]; exist {
		return false
	}
	p.TxPool[tx.Hash] = tx
	p.order = append(p.order, tx.Hash)
	return true
}

// Remove drops a pending transaction.
func (p *TransactionPool) Remove(hash chainhash.Hash) {
	if _, exist := p.TxPool[hash]; !exist {
		return
	}
	delete(p.TxPool, hash)
	for i, h := range p.order {
		if h == hash {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Batch returns all pending transactions in arrival order.
func (p *TransactionPool) Batch() []*Transaction {
	txs := make([]*Transaction, 0, len(p.order))
	for _, h := range p.order {
		txs = append(txs, p.TxPool[h])
	}
	return txs
}

func (p *TransactionPool) Size() int {
	return len(p.order)
}
