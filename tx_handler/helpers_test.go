package tx_handler

import (
	"fmt"
	"testing"

	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// testEnv holds a genesis ledger and one secp256k1 key per named owner.
type testEnv struct {
	t      *testing.T
	ledger *model.Ledger
	keys   map[string]*signature.Secp256k1Signer
	minted int
}

func newTestEnv(t *testing.T) *testEnv {
	return &testEnv{
		t:      t,
		ledger: model.NewLedger(),
		keys:   make(map[string]*signature.Secp256k1Signer),
	}
}

func (e *testEnv) pool() LedgerPool {
	return NewLedgerPool(e.ledger)
}

func (e *testEnv) key(owner string) *signature.Secp256k1Signer {
	if k, ok := e.keys[owner]; ok {
		return k
	}
	k, err := signature.NewSecp256k1Signer()
	require.NoError(e.t, err)
	e.keys[owner] = k
	return k
}

// mint puts a coin of value owned by owner straight into the ledger.
func (e *testEnv) mint(owner string, value float64) model.UTXO {
	e.minted++
	u := model.UTXO{
		PrevTxHash: chainhash.HashH([]byte(fmt.Sprintf("genesis-%d", e.minted))),
		Index:      0,
	}
	e.ledger.Insert(u, model.Output{Value: value, PublicKey: e.key(owner).PublicKey()})
	return u
}

func (e *testEnv) out(owner string, value float64) *model.Output {
	return &model.Output{Value: value, PublicKey: e.key(owner).PublicKey()}
}

// spend builds a transaction claiming utxos, every input signed by from.
func (e *testEnv) spend(from string, utxos []model.UTXO, outputs ...*model.Output) *model.Transaction {
	tx := utils.NewTransaction(outputs...)
	for _, u := range utxos {
		utils.AddInput(tx, u)
	}
	for i := range utxos {
		require.NoError(e.t, utils.SignInput(tx, i, e.key(from).Sign))
	}
	return utils.Finalize(tx)
}

func outputOf(tx *model.Transaction, index uint32) model.UTXO {
	return model.UTXO{PrevTxHash: tx.Hash, Index: index}
}

func newTestHandler(opts ...Option) *TxHandler {
	return NewTxHandler(signature.Secp256k1Verifier{}, opts...)
}

func hashes(txs []*model.Transaction) []chainhash.Hash {
	res := make([]chainhash.Hash, 0, len(txs))
	for _, tx := range txs {
		res = append(res, tx.Hash)
	}
	return res
}

// snapshotKeys copies the set of unspent identifiers of l.
func snapshotKeys(l *model.Ledger) map[model.UTXO]struct{} {
	res := make(map[model.UTXO]struct{}, len(l.L))
	for u := range l.L {
		res[u] = struct{}{}
	}
	return res
}
