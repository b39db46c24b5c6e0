package scenario

import (
	"testing"

	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/tx_handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/conflict.yaml", signature.SchemeSecp256k1)
	require.NoError(t, err)

	require.Len(t, s.Batch, 4)
	assert.Equal(t, 2, s.Genesis.Size())
	assert.Equal(t, 15.0, s.Genesis.TotalValue())
	assert.Equal(t, "bob_to_carol", s.Name(s.Batch[0].Hash))
	assert.Equal(t, "pay_bob", s.Name(s.Batch[1].Hash))
	assert.Equal(t, s.Batch[1].Hash, s.Batch[0].Inputs[0].PrevTxHash)
	assert.Equal(t, "carol", s.Owner(s.Batch[0].Outputs[0].PublicKey))
	assert.Equal(t, "unknown", s.Owner([]byte{1}))
}

func TestLoadSelectors(t *testing.T) {
	s, err := Load("testdata/conflict.yaml", signature.SchemeSecp256k1)
	require.NoError(t, err)
	h := tx_handler.NewTxHandler(signature.Secp256k1Verifier{})

	// forged is signed by mallory, not bob.
	assert.False(t, h.IsValidTx(s.Batch[3], s.Genesis))

	greedy, _ := h.HandleTxs(s.Batch, tx_handler.NewLedgerPool(s.Genesis.Fork()))
	assert.Equal(t, []string{"pay_bob", "bob_to_carol"}, names(s, greedy))

	maxFee, _ := h.HandleMaxFeeTxs(s.Batch, tx_handler.NewLedgerPool(s.Genesis.Fork()))
	assert.Equal(t, []string{"pay_dave"}, names(s, maxFee))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		file File
		err  error
	}{
		{
			name: "unknown reference",
			file: File{Transactions: []TxSpec{{Name: "a", Inputs: []InputSpec{{From: "b"}}}}},
			err:  ErrUnknownReference,
		},
		{
			name: "cycle",
			file: File{Transactions: []TxSpec{
				{Name: "a", Inputs: []InputSpec{{From: "b", Signer: "x"}}},
				{Name: "b", Inputs: []InputSpec{{From: "a", Signer: "x"}}},
			}},
			err: ErrReferenceCycle,
		},
		{
			name: "duplicate name",
			file: File{Transactions: []TxSpec{{Name: "a"}, {Name: "a"}}},
			err:  ErrDuplicateName,
		},
		{
			name: "reserved name",
			file: File{Transactions: []TxSpec{{Name: GenesisName}}},
			err:  ErrDuplicateName,
		},
		{
			name: "no signer",
			file: File{
				Genesis:      []Coin{{Owner: "alice", Value: 1}},
				Transactions: []TxSpec{{Name: "a", Inputs: []InputSpec{{From: GenesisName, Index: 4}}}},
			},
			err: ErrNoSigner,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.file, signature.SchemeSecp256k1)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBuildUnknownScheme(t *testing.T) {
	_, err := Build(File{Genesis: []Coin{{Owner: "alice", Value: 1}}}, "dsa")
	assert.ErrorIs(t, err, signature.ErrUnknownScheme)
}

func names(s *Scenario, txs []*model.Transaction) []string {
	res := make([]string, 0, len(txs))
	for _, tx := range txs {
		res = append(res, s.Name(tx.Hash))
	}
	return res
}
