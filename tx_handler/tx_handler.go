// Package tx_handler validates transactions and selects which transactions of an epoch batch
// Scrooge accepts.
package tx_handler

import (
	"fmt"

	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

// TxHandler runs the per epoch selection. It holds no ledger state: every call works on the
// pool it is given, so one handler can serve the live ledger and any number of forks.
type TxHandler struct {
	validator *Validator
	metrics   *Metrics
	// Batches larger than this are handled greedily by HandleMaxFeeTxs. 0 means no limit.
	maxSearchSize int
}

type Option func(*TxHandler)

func WithMetrics(m *Metrics) Option {
	return func(h *TxHandler) {
		h.metrics = m
	}
}

func WithMaxSearchSize(n int) Option {
	return func(h *TxHandler) {
		h.maxSearchSize = n
	}
}

func NewTxHandler(v signature.Verifier, opts ...Option) *TxHandler {
	h := &TxHandler{
		validator: NewValidator(v),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TxHandler) Validator() *Validator {
	return h.validator
}

// IsValidTx checks tx against p without changing p.
func (h *TxHandler) IsValidTx(tx *model.Transaction, p utils.Pool) bool {
	return h.validator.IsValidTx(tx, p)
}

// HandleTxs greedily accepts every transaction of batch that is valid against p, retrying the
// rest until a full pass accepts nothing, so a transaction spending the output of another one in
// the same batch is accepted too. Accepted transactions are applied to p, which is returned.
// There is no backtracking: a transaction losing a conflict to an earlier one is never accepted.
func (h *TxHandler) HandleTxs(batch []*model.Transaction, p Pool) ([]*model.Transaction, Pool) {
	if batch == nil {
		return []*model.Transaction{}, p
	}
	accepted, fee := h.handleGreedy(uniqueTxs(batch), p)
	h.metrics.observeEpoch(selectorGreedy, len(accepted), len(batch)-len(accepted), fee)
	log.Debugf("Greedy accepted %d of %d transactions, fee %f", len(accepted), len(batch), fee)
	return accepted, p
}

func (h *TxHandler) handleGreedy(txs []*model.Transaction, p Pool) ([]*model.Transaction, float64) {
	var total float64
	accepted, rejected := h.acceptUntilFixedPoint(txs, p, func(_ *model.Transaction, fee float64) {
		total += fee
	})
	h.traceRejected(rejected, p)
	return accepted, total
}

// TotalFee returns the fee collected by applying txs to p. Transactions are applied in passes
// like HandleTxs, so one whose input is produced by another member of txs only counts once that
// one is applied. p itself is left untouched.
func (h *TxHandler) TotalFee(txs []*model.Transaction, p Pool) float64 {
	var total float64
	h.acceptUntilFixedPoint(txs, p.Fork(), func(_ *model.Transaction, fee float64) {
		total += fee
	})
	return total
}

// acceptUntilFixedPoint scans txs in order, and for each one valid against p measures its fee,
// applies it to p and reports it to onAccept. Passes repeat over the transactions not yet accepted
// until one accepts nothing. Returns the accepted transactions in the order they were applied,
// and the rest.
func (h *TxHandler) acceptUntilFixedPoint(txs []*model.Transaction, p utils.Pool, onAccept func(tx *model.Transaction, fee float64)) ([]*model.Transaction, []*model.Transaction) {
	accepted := make([]*model.Transaction, 0, len(txs))
	remaining := txs
	for progress := true; progress && len(remaining) > 0; {
		progress = false
		var next []*model.Transaction
		for _, tx := range remaining {
			if !h.validator.IsValidTx(tx, p) {
				next = append(next, tx)
				continue
			}
			fee := utils.CalcTxFee(tx, p)
			utils.ApplyTransaction(tx, p)
			accepted = append(accepted, tx)
			if onAccept != nil {
				onAccept(tx, fee)
			}
			progress = true
		}
		remaining = next
	}
	return accepted, remaining
}

func (h *TxHandler) traceRejected(rejected []*model.Transaction, p utils.Pool) {
	for _, tx := range rejected {
		tx := tx
		log.Tracef("Rejected transaction: %v", newLogClosure(func() string {
			return fmt.Sprintf("%v\n%s", h.validator.CheckTransaction(tx, p), spew.Sdump(tx))
		}))
	}
}

// uniqueTxs drops nil transactions and later copies of an already seen hash, keeping batch order.
func uniqueTxs(batch []*model.Transaction) []*model.Transaction {
	seen := make(map[chainhash.Hash]struct{}, len(batch))
	txs := make([]*model.Transaction, 0, len(batch))
	for _, tx := range batch {
		if tx == nil {
			continue
		}
		if _, exist := seen[tx.Hash]; exist {
			continue
		}
		seen[tx.Hash] = struct{}{}
		txs = append(txs, tx)
	}
	return txs
}
