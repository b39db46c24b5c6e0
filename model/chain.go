package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Epoch is what Scrooge publishes at the end of every epoch.
type Epoch struct {
	// Hash of this entire epoch.
	Hash chainhash.Hash
	// Hash of the previous epoch.
	PrevHash chainhash.Hash
	// Transactions accepted in this epoch, in the order they were applied.
	Txs []*Transaction
	// Sum of the fee of all accepted transactions.
	Fee float64
}

// EpochWrapper stores both the epoch and its metadata in the chain.
type EpochWrapper struct {
	// The actual epoch
	E *Epoch
	// Only one parent is allowed, Scrooge never forks.
	Parent *EpochWrapper
	// height in the chain.
	Height int64
	// Ledger after the epoch was committed.
	L *Ledger
}

type EpochChain struct {
	// The epoch with the maximum height
	Tail *EpochWrapper
	// A map from epoch hash to epoch wrapper.
	Chain map[chainhash.Hash]*EpochWrapper
}

// NewEpochChain creates a chain holding only the genesis epoch, whose ledger is genesis.
func NewEpochChain(genesis *Ledger) *EpochChain {
	// Genesis epoch has the zero hash.
	genesisWrapper := &EpochWrapper{
		E:      &Epoch{},
		Height: 0,
		L:      genesis,
	}
	return &EpochChain{
		Tail:  genesisWrapper,
		Chain: map[chainhash.Hash]*EpochWrapper{{}: genesisWrapper},
	}
}

// Append links e after the current tail.
func (c *EpochChain) Append(e *Epoch, l *Ledger) *EpochWrapper {
	w := &EpochWrapper{
		E:      e,
		Parent: c.Tail,
		Height: c.Tail.Height + 1,
		L:      l,
	}
	c.Chain[e.Hash] = w
	c.Tail = w
	return w
}
