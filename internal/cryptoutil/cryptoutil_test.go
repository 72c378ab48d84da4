package cryptoutil

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"00",
		"deadbeef",
		strings.Repeat("ab", 32),
	}
	for _, c := range cases {
		b, err := HexToBytes(c)
		require.NoError(t, err)
		require.Equal(t, c, BytesToHex(b))
	}
}

func TestHexToBytesRejectsOddLengthAndNonHex(t *testing.T) {
	_, err := HexToBytes("abc")
	require.ErrorIs(t, err, ErrNotHex)

	_, err = HexToBytes("zz")
	require.ErrorIs(t, err, ErrNotHex)
}

func TestHexToBytesTolerantOfCase(t *testing.T) {
	lower, err := HexToBytes("deadbeef")
	require.NoError(t, err)
	upper, err := HexToBytes("DEADBEEF")
	require.NoError(t, err)
	require.Equal(t, lower, upper)
}

func TestPublicKeyPEMRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemStr, err := PublicKeyToPEM(&priv.PublicKey)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----"))
	require.True(t, strings.HasSuffix(pemStr, "-----END PUBLIC KEY-----\n"))

	parsed, err := ParsePublicKeyPEM(pemStr)
	require.NoError(t, err)
	require.Zero(t, parsed.N.Cmp(priv.PublicKey.N))
	require.Equal(t, priv.PublicKey.E, parsed.E)
}

func TestParsePublicKeyPEMRejectsUndersizedKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	pemStr, err := PublicKeyToPEM(&priv.PublicKey)
	require.NoError(t, err)

	_, err = ParsePublicKeyPEM(pemStr)
	require.ErrorIs(t, err, ErrKeySizeOutOfRange)
}

func TestVerifyWith(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	data := []byte("0:0:2:some-pubkey-pem")
	digest := Sha256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	require.NoError(t, err)
	hexSig := BytesToHex(sig)

	require.NoError(t, VerifyWith(&priv.PublicKey, data, hexSig))

	tampered := []byte("0:0:2:some-other-pubkey-pem")
	require.ErrorIs(t, VerifyWith(&priv.PublicKey, tampered, hexSig), ErrVerificationFailed)
}
