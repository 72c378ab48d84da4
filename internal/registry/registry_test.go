package registry

import (
	"testing"

	"github.com/empower1/trustchain/internal/block"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsDenseIDs(t *testing.T) {
	reg := New(2)

	r0, err := reg.Create("FOUNDER_0")
	require.NoError(t, err)
	require.Equal(t, uint32(0), r0.ID)
	require.True(t, r0.IsAdmin("FOUNDER_0"))
	require.Equal(t, block.ZeroHash, r0.LatestHash())
	require.Equal(t, uint64(0), r0.Height())

	r1, err := reg.Create("FOUNDER_1")
	require.NoError(t, err)
	require.Equal(t, uint32(1), r1.ID)

	_, err = reg.Create("FOUNDER_2")
	require.ErrorIs(t, err, ErrOutOfCapacity)
}

func TestGetUnassignedReturnsNotFound(t *testing.T) {
	reg := New(10)
	_, err := reg.Create("FOUNDER")
	require.NoError(t, err)

	_, err = reg.Get(5)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := reg.Get(0)
	require.NoError(t, err)
	require.Equal(t, "FOUNDER", got.FounderKey)
}

func TestAdvanceBumpsHeightAndHash(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")

	repo.Advance("h1")
	require.Equal(t, uint64(1), repo.Height())
	require.Equal(t, "h1", repo.LatestHash())

	repo.Advance("h2")
	require.Equal(t, uint64(2), repo.Height())
	require.Equal(t, "h2", repo.LatestHash())
}

func TestAddAdminPromotesWriter(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")

	require.NoError(t, repo.AddWriter("K_W"))
	require.True(t, repo.IsWriter("K_W"))

	require.NoError(t, repo.AddAdmin("K_W"))
	require.True(t, repo.IsAdmin("K_W"))
	require.False(t, repo.IsWriter("K_W"))
}

func TestAddAdminRejectsExistingAdmin(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")
	require.ErrorIs(t, repo.AddAdmin("FOUNDER"), ErrAlreadyAdmin)
}

func TestAddWriterRejectsAdminOrExistingWriter(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")

	require.ErrorIs(t, repo.AddWriter("FOUNDER"), ErrAlreadyAdmin)

	require.NoError(t, repo.AddWriter("K_W"))
	require.ErrorIs(t, repo.AddWriter("K_W"), ErrAlreadyWriter)
}

func TestRemoveAdminEnforcesLastAdminInvariant(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")

	require.ErrorIs(t, repo.RemoveAdmin("FOUNDER"), ErrLastAdmin)

	require.NoError(t, repo.AddAdmin("K_A2"))
	require.NoError(t, repo.RemoveAdmin("FOUNDER"))
	require.False(t, repo.IsAdmin("FOUNDER"))
	require.True(t, repo.IsAdmin("K_A2"))
}

func TestRemoveAdminNotAdmin(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")
	require.ErrorIs(t, repo.RemoveAdmin("K_X"), ErrNotAdmin)
}

func TestRemoveWriterNotWriter(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")
	require.ErrorIs(t, repo.RemoveWriter("K_X"), ErrNotWriter)
}

func TestRemoveWriterSucceeds(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")
	require.NoError(t, repo.AddWriter("K_W"))
	require.NoError(t, repo.RemoveWriter("K_W"))
	require.False(t, repo.IsWriter("K_W"))
}

func TestIsAdminOrWriter(t *testing.T) {
	reg := New(10)
	repo, _ := reg.Create("FOUNDER")
	require.True(t, repo.IsAdminOrWriter("FOUNDER"))
	require.False(t, repo.IsAdminOrWriter("K_X"))
	require.NoError(t, repo.AddWriter("K_W"))
	require.True(t, repo.IsAdminOrWriter("K_W"))
}

func TestRegistryLen(t *testing.T) {
	reg := New(10)
	require.Equal(t, 0, reg.Len())
	_, _ = reg.Create("A")
	_, _ = reg.Create("B")
	require.Equal(t, 2, reg.Len())
}
