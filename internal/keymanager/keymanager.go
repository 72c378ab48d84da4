// Package keymanager owns the enclave's RSA-2048 identity: lazy
// generation on first use, sealed persistence, and the sign/verify/
// decrypt primitives every command handler ultimately calls down into
// (spec.md §4.1, §4.2).
package keymanager

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"sync"

	"github.com/empower1/trustchain/internal/cryptoutil"
	"github.com/empower1/trustchain/internal/sealedstore"
)

// KeyBits is the enclave keypair's modulus size, per spec.md §4.1.
const KeyBits = 2048

const pemBlockType = "RSA PRIVATE KEY"

// ErrNoKey indicates the manager has not yet produced or loaded a keypair;
// callers should not observe this outside of construction.
var ErrNoKey = errors.New("keymanager: no key material loaded")

// Manager holds the enclave's single RSA keypair, sealed at rest via a
// sealedstore.Store and held decrypted in memory for the process lifetime
// — mirroring load_or_generate_key_pair's open-or-create shape from the
// original TA, minus the TEE_ObjectHandle bookkeeping a userspace process
// doesn't need. A freshly generated key is kept in memory as generated;
// it is not read back from the store after sealing.
type Manager struct {
	mu    sync.RWMutex
	store *sealedstore.Store
	priv  *rsa.PrivateKey
}

// New loads the sealed keypair from store, generating and sealing a fresh
// RSA-2048 keypair on first run.
func New(store *sealedstore.Store) (*Manager, error) {
	m := &Manager{store: store}
	if err := m.ensureKey(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) ensureKey() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(sealedstore.ObjectUUID)
	if err == nil {
		priv, perr := x509.ParsePKCS1PrivateKey(decodePEM(raw))
		if perr != nil {
			return fmt.Errorf("keymanager: parse sealed key: %w", perr)
		}
		m.priv = priv
		return nil
	}
	if !errors.Is(err, sealedstore.ErrNotFound) {
		return fmt.Errorf("keymanager: load sealed key: %w", err)
	}

	priv, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return fmt.Errorf("keymanager: generate key: %w", err)
	}
	block := &pem.Block{Type: pemBlockType, Bytes: x509.MarshalPKCS1PrivateKey(priv)}
	if err := m.store.Put(sealedstore.ObjectUUID, pem.EncodeToMemory(block)); err != nil {
		return fmt.Errorf("keymanager: seal generated key: %w", err)
	}
	m.priv = priv
	return nil
}

func decodePEM(raw []byte) []byte {
	block, _ := pem.Decode(raw)
	if block == nil {
		return raw
	}
	return block.Bytes
}

// SignData hashes data with SHA-256 and returns the hex-encoded
// RSASSA-PKCS1-v1_5 signature over the digest (spec.md §4.2).
func (m *Manager) SignData(data []byte) (string, error) {
	digest := cryptoutil.Sha256(data)
	return m.signDigest(digest[:])
}

// SignHash signs a pre-computed hex-encoded SHA-256 digest, used when the
// caller (a block's Hash()) has already done the hashing.
func (m *Manager) SignHash(hashHex string) (string, error) {
	digest, err := cryptoutil.HexToBytes(hashHex)
	if err != nil {
		return "", fmt.Errorf("keymanager: decode hash: %w", err)
	}
	return m.signDigest(digest)
}

func (m *Manager) signDigest(digest []byte) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.priv == nil {
		return "", ErrNoKey
	}
	sig, err := rsa.SignPKCS1v15(rand.Reader, m.priv, crypto.SHA256, digest)
	if err != nil {
		return "", fmt.Errorf("keymanager: sign: %w", err)
	}
	return cryptoutil.BytesToHex(sig), nil
}

// VerifyInternal verifies sigHex against data using the enclave's own
// public key.
func (m *Manager) VerifyInternal(data []byte, sigHex string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.priv == nil {
		return ErrNoKey
	}
	return cryptoutil.VerifyWith(&m.priv.PublicKey, data, sigHex)
}

// Decrypt performs RSAES-PKCS1-v1_5 decryption of a hex-encoded
// ciphertext, returning the hex-encoded plaintext (mirroring the
// original TA's tee_decrypt_data hex-in/hex-out convention).
func (m *Manager) Decrypt(cipherHex string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.priv == nil {
		return "", ErrNoKey
	}
	ciphertext, err := cryptoutil.HexToBytes(cipherHex)
	if err != nil {
		return "", fmt.Errorf("keymanager: decode ciphertext: %w", err)
	}
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, m.priv, ciphertext)
	if err != nil {
		return "", fmt.Errorf("keymanager: decrypt: %w", err)
	}
	return cryptoutil.BytesToHex(plaintext), nil
}

// PublicKeyPEM returns the enclave's public key, PEM-encoded, for
// GetTeePublicKey (spec.md §4.5.5).
func (m *Manager) PublicKeyPEM() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.priv == nil {
		return "", ErrNoKey
	}
	return cryptoutil.PublicKeyToPEM(&m.priv.PublicKey)
}
