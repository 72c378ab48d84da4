// Package cryptoutil provides the small set of digest, hex, and RSA/PEM
// primitives shared by the key manager and the block model. Nothing here
// is stateful: every function is a pure transform over bytes or strings.
package cryptoutil

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

var (
	// ErrNotHex is returned when a string is not valid, even-length hex.
	ErrNotHex = errors.New("cryptoutil: not a valid hex string")
	// ErrNotPublicKeyPEM is returned when a PEM block isn't a public key block.
	ErrNotPublicKeyPEM = errors.New("cryptoutil: PEM block is not a public key")
	// ErrNotRSAKey is returned when a parsed public key isn't RSA.
	ErrNotRSAKey = errors.New("cryptoutil: public key is not an RSA key")
	// ErrKeySizeOutOfRange is returned when an RSA key is outside 2048-4096 bits.
	ErrKeySizeOutOfRange = errors.New("cryptoutil: RSA key size outside the 2048-4096 bit range")
	// ErrVerificationFailed is returned when a signature fails to verify.
	ErrVerificationFailed = errors.New("cryptoutil: signature verification failed")
)

const (
	minRSABits = 2048
	maxRSABits = 4096
)

// Sha256 returns the raw 32-byte SHA-256 digest of data.
func Sha256(data []byte) [sha256.Size]byte {
	return sha256.Sum256(data)
}

// HashHex returns the lowercase 64-char hex SHA-256 digest of data.
func HashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BytesToHex lowercases and hex-encodes b.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes an even-length, case-insensitive hex string. It
// rejects odd-length or non-hex input with an error that wraps ErrNotHex
// (prefixed with the stdlib's own error text), so callers can classify the
// failure uniformly with errors.Is.
func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrNotHex)
	}
	return b, nil
}

// ParsePublicKeyPEM decodes a SubjectPublicKeyInfo PEM block and returns
// the contained RSA public key. Keys outside the 2048-4096 bit range are
// rejected; this implementation never blesses keys the enclave shouldn't
// trust as signer material.
func ParsePublicKeyPEM(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, ErrNotPublicKeyPEM
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse SubjectPublicKeyInfo: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	bits := rsaPub.N.BitLen()
	if bits < minRSABits || bits > maxRSABits {
		return nil, fmt.Errorf("key is %d bits: %w", bits, ErrKeySizeOutOfRange)
	}
	return rsaPub, nil
}

// PublicKeyToPEM encodes pub as a standard SubjectPublicKeyInfo PEM block.
func PublicKeyToPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal SubjectPublicKeyInfo: %w", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return string(pem.EncodeToMemory(block)), nil
}

// VerifyWith hashes data with SHA-256 and verifies hexSig as an
// RSASSA-PKCS1-v1_5-SHA256 signature by pub over that digest.
func VerifyWith(pub *rsa.PublicKey, data []byte, hexSig string) error {
	sig, err := HexToBytes(hexSig)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(data)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return ErrVerificationFailed
	}
	return nil
}
