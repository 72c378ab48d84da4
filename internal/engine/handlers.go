package engine

import (
	"errors"
	"fmt"

	"github.com/empower1/trustchain/internal/block"
	"github.com/empower1/trustchain/internal/cryptoutil"
	"github.com/empower1/trustchain/internal/registry"
)

// LatestHashReply is the read-only reply GetLatestHash binds a caller's
// nonce to, before the whole thing is enclave-signed.
type LatestHashReply struct {
	Nonce      uint32
	LatestHash string
}

// Bytes renders the reply in the exact form its signature covers:
// "nonce:latest_hash".
func (r LatestHashReply) Bytes() []byte {
	return []byte(fmt.Sprintf("%d:%s", r.Nonce, r.LatestHash))
}

// InitRepo creates a fresh repository with adminKeyPEM as its sole admin
// and returns the signed genesis Access block (spec.md §4.5.1).
func (e *Engine) InitRepo(adminKeyPEM string) (uint32, *block.AccessBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := cryptoutil.ParsePublicKeyPEM(adminKeyPEM); err != nil {
		return 0, nil, newErr(BadFormat, "admin_key is not a valid PEM public key", err)
	}

	repo, err := e.reg.Create(adminKeyPEM)
	if err != nil {
		if errors.Is(err, registry.ErrOutOfCapacity) {
			return 0, nil, newErr(OutOfCapacity, "repository registry is full", err)
		}
		return 0, nil, newErr(CryptoFailure, "failed to allocate repository", err)
	}

	blk := &block.AccessBlock{
		Header: block.Header{
			Height:     1,
			ParentHash: block.ZeroHash,
			Op:         block.OpAdd,
			SigKey:     adminKeyPEM,
			Signature:  "",
			Timestamp:  block.Now(),
		},
		Role:   block.RoleAdmin,
		PubKey: adminKeyPEM,
	}

	hash := blk.Hash()
	sig, err := e.signHash(hash)
	if err != nil {
		return 0, nil, err
	}
	blk.TeeSig = sig
	repo.Advance(hash)

	e.log.Infof("InitRepo: repo_id=%d admin=%.16s...", repo.ID, adminKeyPEM)
	return repo.ID, blk, nil
}

// AccessControl applies a role grant or revocation to repoID, subject to
// admin authorization and signature verification (spec.md §4.5.2).
func (e *Engine) AccessControl(repoID uint32, op block.Op, role block.Role, pubkeyPEM, sigkeyPEM, sigHex string) (*block.AccessBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !op.IsAccessOp() {
		return nil, newErr(BadParameters, "op is not a valid access operation", nil)
	}
	if !role.IsValid() {
		return nil, newErr(BadParameters, "role is not ADMIN or WRITER", nil)
	}

	repo, err := e.reg.Get(repoID)
	if err != nil {
		return nil, newErr(NotFound, "unknown repo_id", err)
	}

	if !repo.IsAdmin(sigkeyPEM) {
		return nil, newErr(AccessDenied, "sigkey is not a repository admin", nil)
	}

	msg := canonicalMessage(fmtRepoID(repoID), opCode(op), roleCode(role), pubkeyPEM)
	if err := verifyRequestSignature(sigkeyPEM, msg, sigHex); err != nil {
		return nil, err
	}

	if err := applyRoleTransition(repo, op, role, pubkeyPEM); err != nil {
		return nil, newErr(BadParameters, "role transition rejected", err)
	}

	blk := &block.AccessBlock{
		Header: block.Header{
			Height:     repo.Height() + 1,
			ParentHash: repo.LatestHash(),
			Op:         op,
			SigKey:     sigkeyPEM,
			Signature:  sigHex,
			Timestamp:  block.Now(),
		},
		Role:   role,
		PubKey: pubkeyPEM,
	}

	hash := blk.Hash()
	sig, err := e.signHash(hash)
	if err != nil {
		return nil, err
	}
	blk.TeeSig = sig
	repo.Advance(hash)

	e.log.Infof("AccessControl: repo_id=%d op=%s role=%s height=%d", repoID, op, role, blk.Height)
	return blk, nil
}

// applyRoleTransition maps an (op, role) pair onto the corresponding
// Repository mutation per the transition table in spec.md §4.5.2.
func applyRoleTransition(repo *registry.Repository, op block.Op, role block.Role, pubkey string) error {
	switch {
	case op == block.OpAdd && role == block.RoleAdmin:
		return repo.AddAdmin(pubkey)
	case op == block.OpAdd && role == block.RoleWriter:
		return repo.AddWriter(pubkey)
	case op == block.OpDelete && role == block.RoleAdmin:
		return repo.RemoveAdmin(pubkey)
	case op == block.OpDelete && role == block.RoleWriter:
		return repo.RemoveWriter(pubkey)
	default:
		return fmt.Errorf("unreachable op/role combination: %s/%s", op, role)
	}
}

// Commit records a push or PR merge, decrypting the accompanying
// encrypted blob with the enclave key (spec.md §4.5.3).
func (e *Engine) Commit(repoID uint32, op block.Op, commitHash, sigkeyPEM, sigHex, encryptedHex string) (*block.ContributionBlock, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !op.IsCommitOp() {
		return nil, "", newErr(BadParameters, "op is not a valid commit operation", nil)
	}

	repo, err := e.reg.Get(repoID)
	if err != nil {
		return nil, "", newErr(NotFound, "unknown repo_id", err)
	}

	if !repo.IsAdminOrWriter(sigkeyPEM) {
		return nil, "", newErr(AccessDenied, "sigkey is neither admin nor writer", nil)
	}

	msg := canonicalMessage(fmtRepoID(repoID), opCode(op), commitHash)
	if err := verifyRequestSignature(sigkeyPEM, msg, sigHex); err != nil {
		return nil, "", err
	}

	// Decrypt before touching chain state: a decryption failure must
	// abort without advancing (latest_hash, block_height).
	decryptedHex, err := e.keys.Decrypt(encryptedHex)
	if err != nil {
		return nil, "", newErr(CryptoFailure, "failed to decrypt commit payload", err)
	}

	blk := &block.ContributionBlock{
		Header: block.Header{
			Height:     repo.Height() + 1,
			ParentHash: repo.LatestHash(),
			Op:         op,
			SigKey:     sigkeyPEM,
			Signature:  sigHex,
			Timestamp:  block.Now(),
		},
		CommitHash: commitHash,
	}

	hash := blk.Hash()
	sig, err := e.signHash(hash)
	if err != nil {
		return nil, "", err
	}
	blk.TeeSig = sig
	repo.Advance(hash)

	e.log.Infof("Commit: repo_id=%d op=%s height=%d", repoID, op, blk.Height)
	return blk, decryptedHex, nil
}

// GetLatestHash returns the repository's current chain head bound to a
// caller-chosen nonce, enclave-signed over the reply bytes (spec.md §4.5.4).
func (e *Engine) GetLatestHash(repoID uint32, nonce uint32) (LatestHashReply, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	repo, err := e.reg.Get(repoID)
	if err != nil {
		return LatestHashReply{}, "", newErr(NotFound, "unknown repo_id", err)
	}

	reply := LatestHashReply{Nonce: nonce, LatestHash: repo.LatestHash()}
	sig, err := e.keys.SignData(reply.Bytes())
	if err != nil {
		return LatestHashReply{}, "", newErr(CryptoFailure, "enclave sign failed", err)
	}
	return reply, sig, nil
}

// GetTeePublicKey exports the enclave's public key as SubjectPublicKeyInfo
// PEM (spec.md §4.5.5).
func (e *Engine) GetTeePublicKey() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pemStr, err := e.keys.PublicKeyPEM()
	if err != nil {
		return "", newErr(CryptoFailure, "failed to export public key", err)
	}
	return pemStr, nil
}

func opCode(op block.Op) string   { return fmt.Sprintf("%d", uint8(op)) }
func roleCode(r block.Role) string { return fmt.Sprintf("%d", uint8(r)) }
