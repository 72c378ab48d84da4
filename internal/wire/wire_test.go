package wire

import (
	"testing"

	"github.com/empower1/trustchain/internal/block"
	"github.com/stretchr/testify/require"
)

func TestFromAccessBlock(t *testing.T) {
	b := &block.AccessBlock{
		Header: block.Header{
			Height:     1,
			ParentHash: block.ZeroHash,
			Op:         block.OpAdd,
			SigKey:     "K_A",
			Signature:  "",
			Timestamp:  block.NewTimestamp(1000, 5),
		},
		Role:   block.RoleAdmin,
		PubKey: "K_A",
		TeeSig: "sig",
	}

	w := FromAccessBlock(b)
	require.Equal(t, uint64(1), w.Height)
	require.Equal(t, uint8(block.OpAdd), w.Op)
	require.Equal(t, uint8(block.RoleAdmin), w.Role)
	require.Equal(t, int64(1000), w.TsSec)
	require.Equal(t, int32(5), w.TsMillis)
	require.Equal(t, "sig", w.TeeSig)
}

func TestFromContributionBlock(t *testing.T) {
	b := &block.ContributionBlock{
		Header: block.Header{
			Height:     4,
			ParentHash: "deadbeef",
			Op:         block.OpPush,
			SigKey:     "K_B",
			Signature:  "sig",
			Timestamp:  block.NewTimestamp(2000, 123),
		},
		CommitHash: "H",
		TeeSig:     "teesig",
	}

	w := FromContributionBlock(b)
	require.Equal(t, uint64(4), w.Height)
	require.Equal(t, "H", w.CommitHash)
	require.Equal(t, "teesig", w.TeeSig)
}

func TestOpcodeConstants(t *testing.T) {
	require.Equal(t, Opcode(0), InitRepoOp)
	require.Equal(t, Opcode(2), AccessControlOp)
	require.Equal(t, Opcode(3), GetLatestHashOp)
	require.Equal(t, Opcode(4), CommitOp)
	require.Equal(t, Opcode(5), GetTeePubKeyOp)
}
