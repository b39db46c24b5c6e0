package tx_handler

import (
	"testing"

	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMaxFeeTxsPicksHigherFee(t *testing.T) {
	e := newTestEnv(t)
	u := e.mint("alice", 10)
	x := e.spend("alice", []model.UTXO{u}, e.out("bob", 9))
	y := e.spend("alice", []model.UTXO{u}, e.out("carol", 5))

	for _, batch := range [][]*model.Transaction{{x, y}, {y, x}} {
		l := e.ledger.Fork()
		accepted, _ := newTestHandler().HandleMaxFeeTxs(batch, NewLedgerPool(l))

		assert.Equal(t, []*model.Transaction{y}, accepted)
		assert.True(t, l.Contains(outputOf(y, 0)))
		assert.False(t, l.Contains(outputOf(x, 0)))
		assert.False(t, l.Contains(u))
	}
}

func TestHandleMaxFeeTxsResolvesDependencies(t *testing.T) {
	e := newTestEnv(t)
	u := e.mint("alice", 10)
	a := e.spend("alice", []model.UTXO{u}, e.out("bob", 9))
	b := e.spend("bob", []model.UTXO{outputOf(a, 0)}, e.out("carol", 8))
	c := e.spend("carol", []model.UTXO{outputOf(b, 0)}, e.out("dave", 8))

	accepted, p := newTestHandler().HandleMaxFeeTxs([]*model.Transaction{c, b, a}, e.pool())

	assert.Equal(t, hashes([]*model.Transaction{a, b, c}), hashes(accepted))
	assert.True(t, p.Contains(outputOf(c, 0)))
	assert.Equal(t, 1, e.ledger.Size())
}

func TestHandleMaxFeeTxsEmptyTransaction(t *testing.T) {
	e := newTestEnv(t)
	e.mint("alice", 10)
	before := snapshotKeys(e.ledger)
	empty := utils.Finalize(utils.NewTransaction())

	accepted, _ := newTestHandler().HandleMaxFeeTxs([]*model.Transaction{empty}, e.pool())

	assert.Equal(t, []*model.Transaction{empty}, accepted)
	assert.Equal(t, before, snapshotKeys(e.ledger))
}

func TestHandleMaxFeeTxsNilBatch(t *testing.T) {
	e := newTestEnv(t)
	e.mint("alice", 10)
	before := snapshotKeys(e.ledger)

	accepted, _ := newTestHandler().HandleMaxFeeTxs(nil, e.pool())

	assert.NotNil(t, accepted)
	assert.Empty(t, accepted)
	assert.Equal(t, before, snapshotKeys(e.ledger))
}

func TestHandleMaxFeeTxsTieGoesToLaterTransaction(t *testing.T) {
	e := newTestEnv(t)
	u := e.mint("alice", 10)
	x := e.spend("alice", []model.UTXO{u}, e.out("bob", 8))
	y := e.spend("alice", []model.UTXO{u}, e.out("carol", 8))

	// Leaving x out is as good as taking it, so the exclude branch keeps y.
	accepted, _ := newTestHandler().HandleMaxFeeTxs([]*model.Transaction{x, y}, e.pool())

	assert.Equal(t, []*model.Transaction{y}, accepted)
}

// buildOverlap returns a batch where the greedy selector takes y and misses x+z:
// y spends u1 and u2 for fee 3, x spends u1 for fee 2, z spends u2 for fee 2.
func buildOverlap(e *testEnv) []*model.Transaction {
	u1 := e.mint("alice", 10)
	u2 := e.mint("alice", 10)
	y := e.spend("alice", []model.UTXO{u1, u2}, e.out("bob", 17))
	x := e.spend("alice", []model.UTXO{u1}, e.out("carol", 8))
	z := e.spend("alice", []model.UTXO{u2}, e.out("dave", 8))
	return []*model.Transaction{y, x, z}
}

func TestMaxFeeBeatsGreedyOnConflicts(t *testing.T) {
	e := newTestEnv(t)
	batch := buildOverlap(e)
	h := newTestHandler()

	greedyLedger := e.ledger.Fork()
	greedy := h.TotalFee(batch, NewLedgerPool(greedyLedger))
	greedyAccepted, _ := h.HandleTxs(batch, NewLedgerPool(greedyLedger))

	maxFeeLedger := e.ledger.Fork()
	base := NewLedgerPool(maxFeeLedger.Fork())
	maxFeeAccepted, _ := h.HandleMaxFeeTxs(batch, NewLedgerPool(maxFeeLedger))

	assert.Equal(t, []*model.Transaction{batch[0]}, greedyAccepted)
	assert.Equal(t, 3.0, greedy)
	assert.Equal(t, hashes(batch[1:]), hashes(maxFeeAccepted))
	assert.Equal(t, 4.0, h.TotalFee(maxFeeAccepted, base))
}

func TestMaxFeeEqualsGreedyWithoutConflicts(t *testing.T) {
	e := newTestEnv(t)
	u1 := e.mint("alice", 10)
	u2 := e.mint("bob", 5)
	a := e.spend("alice", []model.UTXO{u1}, e.out("bob", 9))
	b := e.spend("bob", []model.UTXO{u2, outputOf(a, 0)}, e.out("carol", 12))
	c := e.spend("bob", []model.UTXO{}, e.out("carol", 0))
	batch := []*model.Transaction{b, c, a}
	h := newTestHandler()

	greedyAccepted, _ := h.HandleTxs(batch, NewLedgerPool(e.ledger.Fork()))
	maxFeeAccepted, _ := h.HandleMaxFeeTxs(batch, NewLedgerPool(e.ledger.Fork()))

	assert.Len(t, greedyAccepted, 3)
	assert.Len(t, maxFeeAccepted, 3)
	assert.Equal(t, h.TotalFee(greedyAccepted, e.pool()), h.TotalFee(maxFeeAccepted, e.pool()))
	assert.Equal(t, 3.0, h.TotalFee(batch, e.pool()))
}

func TestFindMaxFeeSetLeavesPoolUntouched(t *testing.T) {
	e := newTestEnv(t)
	batch := buildOverlap(e)
	before := e.ledger.Fork()
	h := newTestHandler()

	best := h.findMaxFeeSet(e.pool(), orderByDependency(batch))

	assert.Equal(t, before.L, e.ledger.L)
	assert.InDelta(t, 4.0, best.fee, feeEpsilon)
	assert.InDelta(t, best.fee, h.TotalFee(best.txs, e.pool()), feeEpsilon)
}

func TestHandleMaxFeeTxsFallsBackToGreedy(t *testing.T) {
	e := newTestEnv(t)
	batch := buildOverlap(e)

	accepted, _ := newTestHandler(WithMaxSearchSize(2)).HandleMaxFeeTxs(batch, e.pool())

	assert.Equal(t, []*model.Transaction{batch[0]}, accepted)
}

func TestHandleMaxFeeTxsMetrics(t *testing.T) {
	e := newTestEnv(t)
	batch := buildOverlap(e)
	m := NewMetrics(prometheus.NewRegistry())

	newTestHandler(WithMetrics(m)).HandleMaxFeeTxs(batch, e.pool())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.accepted.WithLabelValues(selectorMaxFee)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues(selectorMaxFee)))
	assert.InDelta(t, 4.0, testutil.ToFloat64(m.fees.WithLabelValues(selectorMaxFee)), feeEpsilon)
	assert.Greater(t, testutil.ToFloat64(m.searchNodes), 0.0)
}

func TestOrderByDependency(t *testing.T) {
	e := newTestEnv(t)
	u := e.mint("alice", 10)
	other := e.mint("dave", 1)
	a := e.spend("alice", []model.UTXO{u}, e.out("bob", 9))
	b := e.spend("bob", []model.UTXO{outputOf(a, 0)}, e.out("carol", 9))
	c := e.spend("carol", []model.UTXO{outputOf(b, 0)}, e.out("alice", 9))
	d := e.spend("dave", []model.UTXO{other}, e.out("alice", 1))

	ordered := orderByDependency([]*model.Transaction{c, d, b, a})

	assert.Equal(t, hashes([]*model.Transaction{d, a, b, c}), hashes(ordered))
}

func TestWithoutConflicts(t *testing.T) {
	e := newTestEnv(t)
	u1 := e.mint("alice", 10)
	u2 := e.mint("alice", 10)
	x := e.spend("alice", []model.UTXO{u1}, e.out("bob", 1))
	y := e.spend("alice", []model.UTXO{u2, u1}, e.out("bob", 1))
	z := e.spend("alice", []model.UTXO{u2}, e.out("bob", 1))

	rest := withoutConflicts([]*model.Transaction{y, z}, x)

	require.Len(t, rest, 1)
	assert.Equal(t, z, rest[0])
}
