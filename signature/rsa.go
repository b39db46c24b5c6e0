package signature

import (
	"crypto/rsa"

	"github.com/Luismorlan/scrooge_in_go/utils"
)

const defaultRSABits = 2048

// RSAVerifier verifies RSA-PSS signatures against PKIX encoded public keys.
type RSAVerifier struct{}

func (RSAVerifier) Verify(publicKey, message, signature []byte) bool {
	pk := utils.BytesToPublicKey(publicKey)
	if pk == nil {
		log.Trace("Invalid bytes when reconstructing public key.")
		return false
	}
	return utils.Verify(message, pk, signature)
}

type RSASigner struct {
	key *rsa.PrivateKey
}

func NewRSASigner(bits int) (*RSASigner, error) {
	sk, _, err := utils.GenerateKeyPair(bits)
	if err != nil {
		return nil, err
	}
	return &RSASigner{key: sk}, nil
}

func (s *RSASigner) PublicKey() []byte {
	return utils.PublicKeyToBytes(&s.key.PublicKey)
}

func (s *RSASigner) Sign(message []byte) ([]byte, error) {
	return utils.Sign(message, s.key)
}
