// Package scrooge is the trusted authority: it collects proposed transactions during an epoch and
// at the end of it commits the selected batch to its master ledger.
package scrooge

import (
	"sync"

	"github.com/Luismorlan/scrooge_in_go/config"
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/tx_handler"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrNilTransaction       = errors.New("transaction is nil")
	ErrDuplicateTransaction = errors.New("existing transaction, will not process")
)

// Scrooge maintains the master ledger and publishes one epoch per batch.
type Scrooge struct {
	// Every committed epoch. The tail holds the master ledger.
	chain *model.EpochChain
	// Transactions proposed during the current epoch.
	txPool *model.TransactionPool
	handler *tx_handler.TxHandler
	config  config.AppConfig
	// A single mutex for changing internal state.
	m sync.RWMutex
	// A unique identifier of this Scrooge, only used in logs.
	uuid    string
	metrics *metrics
}

// NewScrooge creates an authority whose master ledger is a copy of genesis. Metrics are
// registered on reg unless it is nil.
func NewScrooge(c config.AppConfig, genesis *model.Ledger, reg prometheus.Registerer) (*Scrooge, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	verifier, err := signature.NewVerifier(c.SIGNATURE_SCHEME, c.SIG_CACHE_SIZE)
	if err != nil {
		return nil, err
	}
	opts := []tx_handler.Option{tx_handler.WithMaxSearchSize(c.MAX_SEARCH_SIZE)}
	s := &Scrooge{
		chain:  model.NewEpochChain(genesis.Fork()),
		txPool: model.NewTransactionPool(),
		config: c,
		uuid:   uuid.NewV4().String(),
	}
	if reg != nil {
		s.metrics = newMetrics(reg)
		opts = append(opts, tx_handler.WithMetrics(tx_handler.NewMetrics(reg)))
		s.metrics.ledgerSize.Set(float64(genesis.Size()))
	}
	s.handler = tx_handler.NewTxHandler(verifier, opts...)
	log.Infof("Scrooge %s started, selector %s, %d genesis outputs", s.uuid, c.SELECTOR, genesis.Size())
	return s, nil
}

func (s *Scrooge) ID() string {
	return s.uuid
}

// SubmitTransaction proposes tx for the current epoch. Validity is only decided when the epoch
// ends, since tx may spend outputs of other pending transactions.
func (s *Scrooge) SubmitTransaction(tx *model.Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}
	s.m.Lock()
	defer s.m.Unlock()

	if !s.txPool.Add(tx) {
		return errors.Wrapf(ErrDuplicateTransaction, "tx %s", tx.Hash)
	}
	if s.metrics != nil {
		s.metrics.pending.Set(float64(s.txPool.Size()))
	}
	return nil
}

// HandleEpoch ends the current epoch: the pending transactions, in arrival order, go through the
// configured selector and the accepted ones are committed. Pending transactions are dropped
// whether accepted or not.
func (s *Scrooge) HandleEpoch() *model.Epoch {
	s.m.Lock()
	defer s.m.Unlock()

	batch := s.txPool.Batch()
	s.txPool = model.NewTransactionPool()
	if s.metrics != nil {
		s.metrics.pending.Set(0)
	}
	return s.commitEpoch(batch, s.config.SELECTOR)
}

// HandleTxs runs one greedy epoch over batch and returns the accepted transactions.
func (s *Scrooge) HandleTxs(batch []*model.Transaction) []*model.Transaction {
	s.m.Lock()
	defer s.m.Unlock()
	return s.commitEpoch(batch, config.SelectorGreedy).Txs
}

// HandleMaxFeeTxs runs one max fee epoch over batch and returns the accepted transactions.
func (s *Scrooge) HandleMaxFeeTxs(batch []*model.Transaction) []*model.Transaction {
	s.m.Lock()
	defer s.m.Unlock()
	return s.commitEpoch(batch, config.SelectorMaxFee).Txs
}

// commitEpoch selects from batch on a fork of the master ledger and promotes the fork.
// The caller must hold the write lock.
func (s *Scrooge) commitEpoch(batch []*model.Transaction, selector string) *model.Epoch {
	master := s.chain.Tail
	snapshot := tx_handler.NewLedgerPool(master.L.Fork())

	var accepted []*model.Transaction
	switch selector {
	case config.SelectorGreedy:
		accepted, _ = s.handler.HandleTxs(batch, snapshot)
	default:
		accepted, _ = s.handler.HandleMaxFeeTxs(batch, snapshot)
	}

	e := &model.Epoch{
		PrevHash: master.E.Hash,
		Txs:      accepted,
		Fee:      s.handler.TotalFee(accepted, tx_handler.NewLedgerPool(master.L)),
	}
	e.Hash = utils.ComputeEpochHash(e)
	w := s.chain.Append(e, snapshot.Ledger)

	if s.metrics != nil {
		s.metrics.height.Set(float64(w.Height))
		s.metrics.ledgerSize.Set(float64(snapshot.Size()))
	}
	log.Infof("Epoch %d (%s): accepted %d of %d transactions, fee %f",
		w.Height, e.Hash, len(accepted), len(batch), e.Fee)
	return e
}

// IsValidTx checks tx against the master ledger.
func (s *Scrooge) IsValidTx(tx *model.Transaction) bool {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.handler.IsValidTx(tx, s.chain.Tail.L)
}

// Return a deep copy of the master ledger.
func (s *Scrooge) GetLedgerSnapshot() *model.Ledger {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.chain.Tail.L.Fork()
}

// Return all utxo the public key owns in the master ledger.
func (s *Scrooge) GetUtxoForPublicKey(pk []byte) *model.Ledger {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.chain.Tail.L.UtxosForPublicKey(pk)
}

func (s *Scrooge) GetHeight() int64 {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.chain.Tail.Height
}

func (s *Scrooge) GetTail() *model.EpochWrapper {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.chain.Tail
}

// PendingTransactions returns the transactions proposed so far in arrival order.
func (s *Scrooge) PendingTransactions() []*model.Transaction {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.txPool.Batch()
}
