// Package cryptoutil implements the four external crypto primitives
// spec.md §6 names as out-of-scope-but-interfaced collaborators: signing
// keypairs and detached signatures, and symmetric/asymmetric sealed boxes.
// It is a thin naming layer over golang.org/x/crypto's NaCl-compatible
// sign/secretbox/box packages rather than a hand-rolled primitive - the
// spec's API shape (keypair_sign/keypair_box, sign/verify, seal/open, plus
// a "boxed" variant taking a receiver public key and sender secret key)
// maps directly onto NaCl's sign, secretbox, and box packages.
package cryptoutil

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/nacl/sign"
)

// SignPublicKeySize and SignPrivateKeySize are the NaCl sign keypair sizes.
const (
	SignPublicKeySize  = 32
	SignPrivateKeySize = 64
	SignatureSize      = 64

	BoxPublicKeySize  = 32
	BoxPrivateKeySize = 32
	BoxNonceSize      = 24

	SecretKeySize = 32
)

var errOpenFailed = errors.New("cryptoutil: authentication failed")

// KeypairSign generates a new Ed25519-based signing keypair.
func KeypairSign() (publicKey [SignPublicKeySize]byte, privateKey [SignPrivateKeySize]byte, err error) {
	pub, priv, err := sign.GenerateKey(rand.Reader)
	if err != nil {
		return publicKey, privateKey, err
	}
	return *pub, *priv, nil
}

// KeypairBox generates a new Curve25519-based box keypair.
func KeypairBox() (publicKey [BoxPublicKeySize]byte, privateKey [BoxPrivateKeySize]byte, err error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return publicKey, privateKey, err
	}
	return *pub, *priv, nil
}

// Sign returns msg's detached signature under privateKey.
func Sign(msg []byte, privateKey [SignPrivateKeySize]byte) []byte {
	signed := sign.Sign(nil, msg, &privateKey)
	// sign.Sign prepends the 64-byte signature to msg; detach it.
	return signed[:SignatureSize]
}

// Verify reports whether sig is msg's valid signature under publicKey.
func Verify(msg []byte, publicKey [SignPublicKeySize]byte, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	signed := append(append([]byte{}, sig...), msg...)
	_, ok := sign.Open(nil, signed, &publicKey)
	return ok
}

// padNonce zero-pads a short nonce out to size, matching spec.md §6's
// "nonces shorter than the required length are zero-padded" rule.
func padNonce(nonce []byte, size int) []byte {
	if len(nonce) >= size {
		return nonce[:size]
	}
	out := make([]byte, size)
	copy(out, nonce)
	return out
}

// Seal symmetrically encrypts-and-authenticates msg under key and nonce
// using XSalsa20-Poly1305 (nacl/secretbox).
func Seal(msg []byte, key [SecretKeySize]byte, nonce []byte) []byte {
	var n [24]byte
	copy(n[:], padNonce(nonce, 24))
	return secretbox.Seal(nil, msg, &n, &key)
}

// Open is Seal's inverse; it returns an error if authentication fails.
func Open(sealed []byte, key [SecretKeySize]byte, nonce []byte) ([]byte, error) {
	var n [24]byte
	copy(n[:], padNonce(nonce, 24))
	out, ok := secretbox.Open(nil, sealed, &n, &key)
	if !ok {
		return nil, errOpenFailed
	}
	return out, nil
}

// SealBox asymmetrically encrypts-and-authenticates msg for peerPublicKey
// using senderPrivateKey and nonce (nacl/box).
func SealBox(msg []byte, nonce []byte, peerPublicKey [BoxPublicKeySize]byte, senderPrivateKey [BoxPrivateKeySize]byte) []byte {
	var n [BoxNonceSize]byte
	copy(n[:], padNonce(nonce, BoxNonceSize))
	return box.Seal(nil, msg, &n, &peerPublicKey, &senderPrivateKey)
}

// OpenBox is SealBox's inverse; it returns an error if authentication
// fails or the sender is not who senderPublicKey claims.
func OpenBox(sealed []byte, nonce []byte, senderPublicKey [BoxPublicKeySize]byte, receiverPrivateKey [BoxPrivateKeySize]byte) ([]byte, error) {
	var n [BoxNonceSize]byte
	copy(n[:], padNonce(nonce, BoxNonceSize))
	out, ok := box.Open(nil, sealed, &n, &senderPublicKey, &receiverPrivateKey)
	if !ok {
		return nil, errOpenFailed
	}
	return out, nil
}
