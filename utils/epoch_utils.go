package utils

import (
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// GetEpochBytes serializes an epoch for hashing: previous hash, every transaction hash in order,
// then the fee.
func GetEpochBytes(e *model.Epoch) []byte {
	var raw []byte
	raw = append(raw, e.PrevHash[:]...)
	raw = append(raw, Int64ToBytes(int64(len(e.Txs)))...)
	for _, tx := range e.Txs {
		raw = append(raw, tx.Hash[:]...)
	}
	raw = append(raw, Float64ToBytes(e.Fee)...)
	return raw
}

func ComputeEpochHash(e *model.Epoch) chainhash.Hash {
	return chainhash.DoubleHashH(GetEpochBytes(e))
}
