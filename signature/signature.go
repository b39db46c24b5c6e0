// Package signature provides the signature schemes Scrooge can verify inputs with.
package signature

import (
	"github.com/cockroachdb/errors"
)

const (
	// SchemeSecp256k1 signs with ECDSA over secp256k1, keys are compressed public keys.
	SchemeSecp256k1 = "secp256k1"
	// SchemeRSA signs with RSA-PSS over SHA256, keys are PKIX encoded.
	SchemeRSA = "rsa"
)

// ErrUnknownScheme is returned for a signature scheme name that is not supported.
var ErrUnknownScheme = errors.New("unknown signature scheme")

// Verifier checks that signature was produced over message by the owner of publicKey.
type Verifier interface {
	Verify(publicKey, message, signature []byte) bool
}

// Signer produces signatures verifiable with the matching Verifier.
type Signer interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// NewVerifier returns the verifier for scheme. A positive cacheSize wraps it in a SigCache.
func NewVerifier(scheme string, cacheSize uint) (Verifier, error) {
	var v Verifier
	switch scheme {
	case SchemeSecp256k1:
		v = Secp256k1Verifier{}
	case SchemeRSA:
		v = RSAVerifier{}
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
	if cacheSize > 0 {
		return NewSigCache(v, cacheSize), nil
	}
	return v, nil
}

// NewSigner generates a fresh key for scheme.
func NewSigner(scheme string) (Signer, error) {
	switch scheme {
	case SchemeSecp256k1:
		return NewSecp256k1Signer()
	case SchemeRSA:
		return NewRSASigner(defaultRSABits)
	default:
		return nil, errors.Wrapf(ErrUnknownScheme, "%q", scheme)
	}
}
