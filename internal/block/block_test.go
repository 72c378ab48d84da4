package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroHashLength(t *testing.T) {
	require.Len(t, ZeroHash, 64)
}

func TestAccessBlockCanonicalExcludesTeeSig(t *testing.T) {
	b := &AccessBlock{
		Header: Header{
			Height:     1,
			ParentHash: ZeroHash,
			Op:         OpAdd,
			SigKey:     "K_A",
			Signature:  "",
			Timestamp:  NewTimestamp(1000, 5),
		},
		Role:   RoleAdmin,
		PubKey: "K_A",
		TeeSig: "should-not-appear",
	}
	got := b.Canonical()
	want := "1:" + ZeroHash + ":0:K_A::1000:5:1:K_A"
	require.Equal(t, want, got)
	require.NotContains(t, got, "should-not-appear")
}

func TestContributionBlockCanonical(t *testing.T) {
	b := &ContributionBlock{
		Header: Header{
			Height:     4,
			ParentHash: "deadbeef",
			Op:         OpPush,
			SigKey:     "K_B",
			Signature:  "sig",
			Timestamp:  NewTimestamp(2000, 123),
		},
		CommitHash: "H",
	}
	want := "4:deadbeef:2:K_B:sig:2000:123:H"
	require.Equal(t, want, b.Canonical())
}

func TestHashIsDeterministic(t *testing.T) {
	b := &AccessBlock{
		Header: Header{
			Height:     2,
			ParentHash: ZeroHash,
			Op:         OpAdd,
			SigKey:     "K_A",
			Signature:  "sig",
			Timestamp:  NewTimestamp(10, 0),
		},
		Role:   RoleWriter,
		PubKey: "K_B",
	}
	h1 := b.Hash()
	h2 := b.Hash()
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}

func TestOpClassification(t *testing.T) {
	require.True(t, OpAdd.IsAccessOp())
	require.True(t, OpDelete.IsAccessOp())
	require.False(t, OpPush.IsAccessOp())

	require.True(t, OpPush.IsCommitOp())
	require.True(t, OpPR.IsCommitOp())
	require.False(t, OpAdd.IsCommitOp())
}

func TestRoleIsValid(t *testing.T) {
	require.True(t, RoleAdmin.IsValid())
	require.True(t, RoleWriter.IsValid())
	require.False(t, Role(0).IsValid())
}

func TestTimestampAccessors(t *testing.T) {
	ts := NewTimestamp(1700000000, 42)
	require.Equal(t, int64(1700000000), ts.Seconds())
	require.Equal(t, int32(42), ts.Millis())
}
