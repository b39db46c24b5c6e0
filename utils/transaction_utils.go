package utils

import (
	"github.com/Luismorlan/scrooge_in_go/model"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// ErrInputIndex is returned when asking for the signable data of an input that doesn't exist.
var ErrInputIndex = errors.New("input index is out of the range")

// GetInputBytes converts input to byte slice. With or without the signature.
func GetInputBytes(input *model.Input, withSig bool) []byte {
	var data []byte
	data = append(data, input.PrevTxHash[:]...)
	data = append(data, Uint32ToBytes(input.Index)...)
	if withSig {
		data = append(data, input.Signature...)
	}
	return data
}

func GetOutputBytes(output *model.Output) []byte {
	var data []byte
	data = append(data, Float64ToBytes(output.Value)...)
	data = append(data, output.PublicKey...)
	return data
}

// Concat all inputs and outputs raw data in byte slices. Nil entries are skipped.
func GetTransactionBytes(t *model.Transaction, withSig bool) []byte {
	var data []byte
	for _, input := range t.Inputs {
		if input == nil {
			continue
		}
		data = append(data, GetInputBytes(input, withSig)...)
	}
	for _, output := range t.Outputs {
		if output == nil {
			continue
		}
		data = append(data, GetOutputBytes(output)...)
	}
	return data
}

// GetInputDataToSignByIndex returns the bytes the owner of the index-th input signs: that input
// without its signature followed by every output.
func GetInputDataToSignByIndex(t *model.Transaction, index int) ([]byte, error) {
	if index < 0 || len(t.Inputs)-1 < index || t.Inputs[index] == nil {
		return nil, errors.Wrapf(ErrInputIndex, "index %d, %d inputs", index, len(t.Inputs))
	}
	// Don't include signature since we haven't signed it yet.
	data := GetInputBytes(t.Inputs[index], false /*withSig=*/)
	for _, output := range t.Outputs {
		if output == nil {
			continue
		}
		data = append(data, GetOutputBytes(output)...)
	}
	return data, nil
}

// ComputeTxHash hashes the complete transaction, signatures included.
func ComputeTxHash(t *model.Transaction) chainhash.Hash {
	return chainhash.DoubleHashH(GetTransactionBytes(t, true /*withSig=*/))
}

// NewTransaction creates an unsigned transaction with the given outputs.
func NewTransaction(outputs ...*model.Output) *model.Transaction {
	return &model.Transaction{
		Outputs: outputs,
	}
}

// AddInput appends an unsigned input claiming the given UTXO.
func AddInput(t *model.Transaction, utxo model.UTXO) {
	t.Inputs = append(t.Inputs, &model.Input{
		PrevTxHash: utxo.PrevTxHash,
		Index:      utxo.Index,
	})
}

// AddOutput appends an output paying value to pk.
func AddOutput(t *model.Transaction, value float64, pk []byte) {
	t.Outputs = append(t.Outputs, &model.Output{
		Value:     value,
		PublicKey: pk,
	})
}

// SignInput signs the index-th input with sign, which receives the signable data.
func SignInput(t *model.Transaction, index int, sign func(msg []byte) ([]byte, error)) error {
	msg, err := GetInputDataToSignByIndex(t, index)
	if err != nil {
		return err
	}
	sig, err := sign(msg)
	if err != nil {
		return errors.Wrapf(err, "sign input %d", index)
	}
	t.Inputs[index].Signature = sig
	return nil
}

// Finalize computes and sets the transaction hash. Must be called after all inputs are signed.
func Finalize(t *model.Transaction) *model.Transaction {
	t.Hash = ComputeTxHash(t)
	return t
}
