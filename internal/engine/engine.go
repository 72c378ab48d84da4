// Package engine implements the trust engine's five command handlers —
// InitRepo, AccessControl, Commit, GetLatestHash, GetTeePublicKey — the
// validate → authorize → mutate → sign → commit pipeline spec.md §4.5
// describes.
package engine

import (
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/empower1/trustchain/internal/block"
	"github.com/empower1/trustchain/internal/cryptoutil"
	"github.com/empower1/trustchain/internal/keymanager"
	"github.com/empower1/trustchain/internal/registry"
)

// Engine wraps the enclave key manager and the repository registry
// behind the coarse dispatch lock spec.md §5 requires: "An implementation
// targeting a multithreaded host MUST enforce this with a coarse-grained
// mutex around the command dispatcher."
type Engine struct {
	mu   sync.Mutex
	keys *keymanager.Manager
	reg  *registry.Registry
	log  slog.Logger
}

// New builds an Engine over an already-initialized key manager and
// registry.
func New(keys *keymanager.Manager, reg *registry.Registry, logger slog.Logger) *Engine {
	return &Engine{keys: keys, reg: reg, log: logger}
}

// signHash signs an already-computed block hash with the enclave key,
// the step every handler performs identically right before committing.
func (e *Engine) signHash(hash string) (string, error) {
	sig, err := e.keys.SignHash(hash)
	if err != nil {
		return "", newErr(CryptoFailure, "enclave sign failed", err)
	}
	return sig, nil
}

// canonicalMessage builds the "{rep_id}:{op}:{...}" string an incoming
// request's signature is verified over — distinct from a block's own
// Canonical() preimage, which includes height/parent_hash/timestamp.
func canonicalMessage(parts ...string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += ":"
		}
		s += p
	}
	return s
}

// verifyRequestSignature checks that sigHex is sigkey's valid
// RSASSA-PKCS1-v1_5-SHA256 signature over msg.
func verifyRequestSignature(sigkeyPEM, msg, sigHex string) error {
	pub, err := cryptoutil.ParsePublicKeyPEM(sigkeyPEM)
	if err != nil {
		return newErr(BadFormat, "sigkey is not a valid PEM public key", err)
	}
	if err := cryptoutil.VerifyWith(pub, []byte(msg), sigHex); err != nil {
		return newErr(SecurityFailure, "signature verification failed", err)
	}
	return nil
}

// fmtRepoID renders a repo_id the way canonical messages expect it:
// decimal, no leading zeros.
func fmtRepoID(repoID uint32) string {
	return fmt.Sprintf("%d", repoID)
}
