package signature

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
)

// Secp256k1Verifier verifies DER encoded ECDSA signatures over the SHA256 of the message.
type Secp256k1Verifier struct{}

func (Secp256k1Verifier) Verify(publicKey, message, signature []byte) bool {
	pk, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		log.Tracef("Invalid secp256k1 public key: %v", err)
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		log.Tracef("Invalid DER signature: %v", err)
		return false
	}
	return sig.Verify(chainhash.HashB(message), pk)
}

type Secp256k1Signer struct {
	key *btcec.PrivateKey
}

func NewSecp256k1Signer() (*Secp256k1Signer, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate secp256k1 key")
	}
	return &Secp256k1Signer{key: key}, nil
}

func (s *Secp256k1Signer) PublicKey() []byte {
	return s.key.PubKey().SerializeCompressed()
}

func (s *Secp256k1Signer) Sign(message []byte) ([]byte, error) {
	return ecdsa.Sign(s.key, chainhash.HashB(message)).Serialize(), nil
}
