// Package block defines the two block variants a repository chain is
// built from — Access (role grants/revocations) and Contribution (pushes
// and PR merges) — and the deterministic, field-level serialization used
// as each block's hash preimage (spec.md §3).
package block

import (
	"strconv"
	"strings"

	"github.com/empower1/trustchain/internal/cryptoutil"
)

// ZeroHash is the 64-character all-zero hex string a fresh repository's
// latest_hash starts at, before any block has been accepted.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Op identifies the kind of state transition a block records.
type Op uint8

const (
	OpAdd    Op = 0
	OpDelete Op = 1
	OpPush   Op = 2
	OpPR     Op = 3
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "ADD"
	case OpDelete:
		return "DELETE"
	case OpPush:
		return "PUSH"
	case OpPR:
		return "PR"
	default:
		return "UNKNOWN"
	}
}

// IsAccessOp reports whether o is a valid AccessControl operation.
func (o Op) IsAccessOp() bool { return o == OpAdd || o == OpDelete }

// IsCommitOp reports whether o is a valid Commit operation.
func (o Op) IsCommitOp() bool { return o == OpPush || o == OpPR }

// Role identifies the roster a subject key is granted or removed from.
type Role uint8

const (
	RoleAdmin  Role = 1
	RoleWriter Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleWriter:
		return "WRITER"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether r is one of the two defined roles.
func (r Role) IsValid() bool { return r == RoleAdmin || r == RoleWriter }

// Header holds the fields every block variant shares, in the exact order
// they appear in both canonical preimages.
type Header struct {
	Height    uint64
	ParentHash string
	Op         Op
	SigKey     string
	Signature  string
	Timestamp  Timestamp
}

// AccessBlock records a role grant or revocation.
type AccessBlock struct {
	Header
	Role   Role
	PubKey string
	TeeSig string
}

// ContributionBlock records a push or pull-request merge.
type ContributionBlock struct {
	Header
	CommitHash string
	TeeSig     string
}

// Canonical returns the hash preimage for an Access block:
// "height:parent_hash:op:sigkey:signature:ts_sec:ts_millis:role:pubkey".
// TeeSig is deliberately excluded — it signs the hash of this string, so
// it cannot also be an input to it.
func (b *AccessBlock) Canonical() string {
	var sb strings.Builder
	writeHeaderFields(&sb, &b.Header)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(b.Role), 10))
	sb.WriteByte(':')
	sb.WriteString(b.PubKey)
	return sb.String()
}

// Hash returns the lowercase hex SHA-256 of Canonical().
func (b *AccessBlock) Hash() string {
	return cryptoutil.HashHex([]byte(b.Canonical()))
}

// Canonical returns the hash preimage for a Contribution block:
// "height:parent_hash:op:sigkey:signature:ts_sec:ts_millis:commit_hash".
func (b *ContributionBlock) Canonical() string {
	var sb strings.Builder
	writeHeaderFields(&sb, &b.Header)
	sb.WriteByte(':')
	sb.WriteString(b.CommitHash)
	return sb.String()
}

// Hash returns the lowercase hex SHA-256 of Canonical().
func (b *ContributionBlock) Hash() string {
	return cryptoutil.HashHex([]byte(b.Canonical()))
}

func writeHeaderFields(sb *strings.Builder, h *Header) {
	sb.WriteString(strconv.FormatUint(h.Height, 10))
	sb.WriteByte(':')
	sb.WriteString(h.ParentHash)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(uint64(h.Op), 10))
	sb.WriteByte(':')
	sb.WriteString(h.SigKey)
	sb.WriteByte(':')
	sb.WriteString(h.Signature)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(h.Timestamp.Seconds(), 10))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(int64(h.Timestamp.Millis()), 10))
}
