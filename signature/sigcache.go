package signature

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

// sigInfo represents an entry in the SigCache. Entries in the sigcache are a
// 3-tuple: (msgHash, sig, pubKey).
type sigInfo struct {
	msgHash chainhash.Hash
	sig     string
	pubKey  string
}

// SigCache is a Verifier remembering the signatures it already found valid. Only valid
// signatures are added, so an invalid signature is checked again every time. The max-fee search
// validates the same transaction in many branches, and this saves the repeated work.
//
// The least recently used entry is evicted once maxEntries is reached.
type SigCache struct {
	verifier  Verifier
	validSigs lru.Cache
}

func NewSigCache(v Verifier, maxEntries uint) *SigCache {
	return &SigCache{
		verifier:  v,
		validSigs: lru.NewCache(maxEntries),
	}
}

func (s *SigCache) Verify(publicKey, message, signature []byte) bool {
	info := sigInfo{
		msgHash: chainhash.HashH(message),
		sig:     string(signature),
		pubKey:  string(publicKey),
	}
	if s.validSigs.Contains(info) {
		return true
	}
	if !s.verifier.Verify(publicKey, message, signature) {
		return false
	}
	s.validSigs.Add(info)
	return true
}
