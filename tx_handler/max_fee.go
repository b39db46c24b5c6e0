package tx_handler

import (
	"math"

	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// Fees closer than this are considered equal when comparing two branches.
const feeEpsilon = 1e-9

// selection is a mutually valid set of transactions, in an order they can be applied in, and
// the total fee they pay.
type selection struct {
	txs []*model.Transaction
	fee float64
}

// beats decides between the include branch s and the exclude branch o: the higher fee wins, on
// equal fee the bigger set wins, and a complete tie goes to o.
func (s selection) beats(o selection) bool {
	if math.Abs(s.fee-o.fee) > feeEpsilon {
		return s.fee > o.fee
	}
	return len(s.txs) > len(o.txs)
}

// HandleMaxFeeTxs accepts the mutually valid subset of batch paying the highest total fee and
// applies it to p, which is returned. The result is never worse than HandleTxs on the same
// input. The search is exponential in the batch size, batches over the configured max search
// size are handled greedily.
func (h *TxHandler) HandleMaxFeeTxs(batch []*model.Transaction, p Pool) ([]*model.Transaction, Pool) {
	if batch == nil {
		return []*model.Transaction{}, p
	}
	txs := orderByDependency(uniqueTxs(batch))
	if h.maxSearchSize > 0 && len(txs) > h.maxSearchSize {
		log.Warnf("Batch of %d transactions exceeds max search size %d, selecting greedily",
			len(txs), h.maxSearchSize)
		accepted, fee := h.handleGreedy(txs, p)
		h.metrics.observeEpoch(selectorGreedy, len(accepted), len(batch)-len(accepted), fee)
		return accepted, p
	}

	best := h.findMaxFeeSet(p, txs)

	// The set is mutually valid, so every member must apply.
	accepted, rejected := h.acceptUntilFixedPoint(best.txs, p, nil)
	if len(rejected) != 0 {
		panic(errors.AssertionFailedf("%d transactions of the max fee set failed to apply", len(rejected)))
	}
	h.metrics.observeEpoch(selectorMaxFee, len(accepted), len(batch)-len(accepted), best.fee)
	log.Debugf("Max fee accepted %d of %d transactions, fee %f", len(accepted), len(batch), best.fee)
	return accepted, p
}

// findMaxFeeSet decides the first remaining transaction and recurses on the rest: once leaving
// it out against p, and, if it is valid against p, once taking it against a fork of p that has it
// applied. p is never mutated, each include branch owns its fork.
func (h *TxHandler) findMaxFeeSet(p Pool, remaining []*model.Transaction) selection {
	h.metrics.observeSearchNode()
	if len(remaining) == 0 {
		return selection{}
	}
	tx, rest := remaining[0], remaining[1:]

	exclude := h.findMaxFeeSet(p, rest)
	if !h.validator.IsValidTx(tx, p) {
		return exclude
	}

	fork := p.Fork()
	fee := utils.CalcTxFee(tx, fork)
	utils.ApplyTransaction(tx, fork)
	include := h.findMaxFeeSet(fork, withoutConflicts(rest, tx))
	include.txs = append([]*model.Transaction{tx}, include.txs...)
	include.fee += fee

	if include.beats(exclude) {
		return include
	}
	return exclude
}

// withoutConflicts returns the transactions of txs that claim none of the UTXO claimed by tx.
// Those can never be valid once tx is applied.
func withoutConflicts(txs []*model.Transaction, tx *model.Transaction) []*model.Transaction {
	spent := make(map[model.UTXO]struct{}, len(tx.Inputs))
	for _, u := range tx.Utxos() {
		spent[u] = struct{}{}
	}
	res := make([]*model.Transaction, 0, len(txs))
	for _, other := range txs {
		conflict := false
		for _, u := range other.Utxos() {
			if _, ok := spent[u]; ok {
				conflict = true
				break
			}
		}
		if !conflict {
			res = append(res, other)
		}
	}
	return res
}

// orderByDependency sorts txs so that a transaction comes after every transaction of txs whose
// outputs it spends. Otherwise batch order is kept. Transactions in a reference cycle can never
// be valid and are appended in batch order.
func orderByDependency(txs []*model.Transaction) []*model.Transaction {
	index := make(map[chainhash.Hash]int, len(txs))
	for i, tx := range txs {
		index[tx.Hash] = i
	}
	parents := make([][]int, len(txs))
	for i, tx := range txs {
		for _, u := range tx.Utxos() {
			if j, ok := index[u.PrevTxHash]; ok && j != i {
				parents[i] = append(parents[i], j)
			}
		}
	}

	placed := make([]bool, len(txs))
	ordered := make([]*model.Transaction, 0, len(txs))
	for len(ordered) < len(txs) {
		next := -1
		for i := range txs {
			if placed[i] || !allPlaced(parents[i], placed) {
				continue
			}
			next = i
			break
		}
		if next == -1 {
			for i := range txs {
				if !placed[i] {
					placed[i] = true
					ordered = append(ordered, txs[i])
				}
			}
			break
		}
		placed[next] = true
		ordered = append(ordered, txs[next])
	}
	return ordered
}

func allPlaced(idx []int, placed []bool) bool {
	for _, j := range idx {
		if !placed[j] {
			return false
		}
	}
	return true
}
