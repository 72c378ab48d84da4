// Package registry implements the bounded, in-memory table mapping small
// integer repository IDs to repository metadata (spec.md §4.4), along with
// the role-transition primitives AccessControl and Commit mutate through.
//
// Persistence is an explicit, documented gap (spec.md §9): the registry
// lives only in process memory and is lost on restart. Only the enclave
// keypair is durable (see internal/sealedstore).
package registry

import (
	"errors"
	"sync"

	"github.com/empower1/trustchain/internal/block"
	"github.com/empower1/trustchain/internal/keylist"
)

var (
	// ErrOutOfCapacity is returned when the registry already holds the
	// maxRepos entries it was created with.
	ErrOutOfCapacity = errors.New("registry: out of capacity")
	// ErrNotFound is returned for an unassigned repo_id.
	ErrNotFound = errors.New("registry: repository not found")
	// ErrAlreadyAdmin is returned when a key already holds the admin role.
	ErrAlreadyAdmin = errors.New("registry: key already an admin")
	// ErrAlreadyWriter is returned when a key already holds the writer role.
	ErrAlreadyWriter = errors.New("registry: key already a writer")
	// ErrNotAdmin is returned when a DELETE ADMIN targets a key that isn't one.
	ErrNotAdmin = errors.New("registry: key is not an admin")
	// ErrNotWriter is returned when a DELETE WRITER targets a key that isn't one.
	ErrNotWriter = errors.New("registry: key is not a writer")
	// ErrLastAdmin is returned when a removal would leave admin_keys empty
	// (spec.md §9 I2 — this implementation closes the gap rather than
	// reproducing it; see DESIGN.md).
	ErrLastAdmin = errors.New("registry: cannot remove the last admin")
)

// Repository is the governed entity spec.md §3 defines: a founder-bootstrapped
// roster of admin/writer keys plus the chain-head pointer.
type Repository struct {
	mu sync.Mutex

	ID         uint32
	FounderKey string
	AdminKeys  *keylist.KeyList
	WriterKeys *keylist.KeyList

	height     uint64
	latestHash string
}

// Height returns the repository's current block height.
func (r *Repository) Height() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.height
}

// LatestHash returns the repository's current chain head.
func (r *Repository) LatestHash() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latestHash
}

// Advance atomically sets (latest_hash, block_height) to the result of
// accepting a new block at height+1 with the given hash. Callers must
// already have validated and signed the block; Advance only updates the
// two fields invariant I3/I4 govern.
func (r *Repository) Advance(newHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.height++
	r.latestHash = newHash
}

// AddAdmin applies the ADD/ADMIN row of the role-transition table
// (spec.md §4.5.2): promotes a writer, or adds a fresh key, to admin.
// Adding a key that is already an admin is rejected.
func (r *Repository) AddAdmin(pubkey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AdminKeys.Contains(pubkey) {
		return ErrAlreadyAdmin
	}
	r.WriterKeys.FindAndRemove(pubkey)
	r.AdminKeys.Insert(pubkey)
	return nil
}

// AddWriter applies the ADD/WRITER row: adds a fresh key to writer. A key
// already holding either role is rejected — admins are not demoted by an
// ADD/WRITER request (spec.md §4.5.2 table).
func (r *Repository) AddWriter(pubkey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AdminKeys.Contains(pubkey) {
		return ErrAlreadyAdmin
	}
	if r.WriterKeys.Contains(pubkey) {
		return ErrAlreadyWriter
	}
	r.WriterKeys.Insert(pubkey)
	return nil
}

// RemoveAdmin applies the DELETE/ADMIN row, enforcing I2: removing the
// last admin is rejected with ErrLastAdmin rather than bricking the
// repository (spec.md §9 open question, resolved — see DESIGN.md).
func (r *Repository) RemoveAdmin(pubkey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.AdminKeys.Contains(pubkey) {
		return ErrNotAdmin
	}
	if r.AdminKeys.Len() <= 1 {
		return ErrLastAdmin
	}
	_ = r.AdminKeys.Remove(pubkey)
	return nil
}

// RemoveWriter applies the DELETE/WRITER row.
func (r *Repository) RemoveWriter(pubkey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.WriterKeys.Contains(pubkey) {
		return ErrNotWriter
	}
	_ = r.WriterKeys.Remove(pubkey)
	return nil
}

// IsAdmin reports whether pubkey currently holds the admin role.
func (r *Repository) IsAdmin(pubkey string) bool {
	return r.AdminKeys.Contains(pubkey)
}

// IsWriter reports whether pubkey currently holds the writer role.
func (r *Repository) IsWriter(pubkey string) bool {
	return r.WriterKeys.Contains(pubkey)
}

// IsAdminOrWriter reports whether pubkey holds either role.
func (r *Repository) IsAdminOrWriter(pubkey string) bool {
	return r.IsAdmin(pubkey) || r.IsWriter(pubkey)
}

// Registry is the fixed-capacity, dense-ID-assigned table of repositories.
// IDs are never reused after assignment; deletion is not a supported
// operation in the active surface (spec.md §4.4, §9).
type Registry struct {
	mu       sync.RWMutex
	repos    []*Repository
	maxRepos uint32
}

// New returns an empty Registry capped at maxRepos entries.
func New(maxRepos uint32) *Registry {
	return &Registry{maxRepos: maxRepos}
}

// Create allocates the next repository ID and returns the new Repository
// seeded with founderKey as its sole admin, per InitRepo (spec.md §4.5.1).
func (reg *Registry) Create(founderKey string) (*Repository, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	nextID := uint32(len(reg.repos))
	if nextID >= reg.maxRepos {
		return nil, ErrOutOfCapacity
	}

	repo := &Repository{
		ID:         nextID,
		FounderKey: founderKey,
		AdminKeys:  keylist.New(),
		WriterKeys: keylist.New(),
		latestHash: block.ZeroHash,
	}
	repo.AdminKeys.Insert(founderKey)
	reg.repos = append(reg.repos, repo)
	return repo, nil
}

// Get resolves repoID to its Repository, or ErrNotFound if unassigned.
func (reg *Registry) Get(repoID uint32) (*Repository, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if repoID >= uint32(len(reg.repos)) {
		return nil, ErrNotFound
	}
	return reg.repos[repoID], nil
}

// Len returns the number of repositories created so far.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.repos)
}
