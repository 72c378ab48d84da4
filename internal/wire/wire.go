// Package wire defines the command surface's integer opcodes, wire-level
// length constants, and the JSON-tagged request/response shapes the HTTP
// façade marshals at its boundary (spec.md §6). Nothing here is
// security-relevant; it exists purely to keep the host-facing contract in
// one place.
package wire

import "github.com/empower1/trustchain/internal/block"

// Opcode identifies one of the five dispatchable commands.
type Opcode uint8

const (
	// InitRepoOp creates a repository.
	InitRepoOp Opcode = 0
	// deleteRepoOp (opcode 1) existed in an older variant and was
	// withdrawn from dispatch; it is declared here only so the gap in
	// the opcode numbering is not mistaken for an oversight.
	deleteRepoOp Opcode = 1 //nolint:unused
	// AccessControlOp grants or revokes a role.
	AccessControlOp Opcode = 2
	// GetLatestHashOp reads a repository's chain head.
	GetLatestHashOp Opcode = 3
	// CommitOp records a push or PR merge.
	CommitOp Opcode = 4
	// GetTeePubKeyOp exports the enclave public key.
	GetTeePubKeyOp Opcode = 5
)

// Wire-level size limits shared with the host shim. MaxKeyLength is
// standardized on 512 per spec.md §9 (two conflicting headers declared
// 256 and 512; 512 is required to hold a PEM-encoded 2048-bit RSA key).
const (
	MaxRepoID          = 1000
	MaxKeyLength       = 512
	MaxHashLength      = 64
	MaxSignatureLength = 512
	MaxBranchLength    = 128
)

// InitRepoRequest is the JSON body of POST /init-repo.
type InitRepoRequest struct {
	AdminKey string `json:"admin_key"`
}

// InitRepoResponse is the JSON reply to POST /init-repo.
type InitRepoResponse struct {
	RepoID uint32           `json:"repo_id"`
	Block  AccessBlockWire  `json:"block"`
}

// AccessControlRequest is the JSON body of POST /access-control.
type AccessControlRequest struct {
	RepoID      uint32 `json:"repo_id"`
	Operation   uint8  `json:"operation"`
	Role        uint8  `json:"role"`
	PublicKey   string `json:"public_key"`
	SignatureKey string `json:"signature_key"`
	Signature   string `json:"signature"`
}

// AccessControlResponse is the JSON reply to POST /access-control.
type AccessControlResponse struct {
	Block AccessBlockWire `json:"block"`
}

// CommitRequest is the JSON body of POST /commit.
type CommitRequest struct {
	RepoID       uint32 `json:"repo_id"`
	Operation    uint8  `json:"operation"`
	CommitHash   string `json:"commit_hash"`
	PubKey       string `json:"pubkey"`
	Branch       string `json:"branch"`
	SignatureKey string `json:"signature_key"`
	Signature    string `json:"signature"`
	Encrypted    string `json:"encrypted"`
}

// CommitResponse is the JSON reply to POST /commit.
type CommitResponse struct {
	Block     ContributionBlockWire `json:"block"`
	Decrypted string                `json:"decrypted"`
}

// LatestHashResponse is the JSON reply to GET /latest-hash/{repo_id}.
type LatestHashResponse struct {
	Nonce      uint32 `json:"nonce"`
	LatestHash string `json:"latest_hash"`
	Signature  string `json:"signature"`
}

// TeePublicKeyResponse is the JSON reply for the enclave public key export.
type TeePublicKeyResponse struct {
	PemBytes string `json:"pem_bytes"`
	PemLength int    `json:"pem_length"`
}

// AccessBlockWire is the over-the-wire rendering of an Access block.
type AccessBlockWire struct {
	Height     uint64 `json:"height"`
	ParentHash string `json:"parent_hash"`
	Op         uint8  `json:"op"`
	SigKey     string `json:"sigkey"`
	Signature  string `json:"signature"`
	TsSec      int64  `json:"ts_sec"`
	TsMillis   int32  `json:"ts_millis"`
	Role       uint8  `json:"role"`
	PubKey     string `json:"pubkey"`
	TeeSig     string `json:"tee_sig"`
}

// ContributionBlockWire is the over-the-wire rendering of a Contribution block.
type ContributionBlockWire struct {
	Height     uint64 `json:"height"`
	ParentHash string `json:"parent_hash"`
	Op         uint8  `json:"op"`
	SigKey     string `json:"sigkey"`
	Signature  string `json:"signature"`
	TsSec      int64  `json:"ts_sec"`
	TsMillis   int32  `json:"ts_millis"`
	CommitHash string `json:"commit_hash"`
	TeeSig     string `json:"tee_sig"`
}

// ErrorResponse is the JSON body returned on any handler failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// FromAccessBlock renders an Access block for the wire.
func FromAccessBlock(b *block.AccessBlock) AccessBlockWire {
	return AccessBlockWire{
		Height:     b.Height,
		ParentHash: b.ParentHash,
		Op:         uint8(b.Op),
		SigKey:     b.SigKey,
		Signature:  b.Signature,
		TsSec:      b.Timestamp.Seconds(),
		TsMillis:   b.Timestamp.Millis(),
		Role:       uint8(b.Role),
		PubKey:     b.PubKey,
		TeeSig:     b.TeeSig,
	}
}

// FromContributionBlock renders a Contribution block for the wire.
func FromContributionBlock(b *block.ContributionBlock) ContributionBlockWire {
	return ContributionBlockWire{
		Height:     b.Height,
		ParentHash: b.ParentHash,
		Op:         uint8(b.Op),
		SigKey:     b.SigKey,
		Signature:  b.Signature,
		TsSec:      b.Timestamp.Seconds(),
		TsMillis:   b.Timestamp.Millis(),
		CommitHash: b.CommitHash,
		TeeSig:     b.TeeSig,
	}
}
