package eckey

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	generatorCompressed = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce" +
		"28d959f2815b16f81798"
	generatorUncompressed = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2d" +
		"ce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b4" +
		"48a68554199c47d08ffb10d4b8"
	curveOrder = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd2" +
		"5e8cd0364141"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

// scalarOne returns the private key 1, whose public key is the generator.
func scalarOne(t *testing.T) PrivateKey {
	t.Helper()

	b := make([]byte, PrivateKeySize)
	b[PrivateKeySize-1] = 1

	priv, err := NewPrivateKey(b)
	require.NoError(t, err)

	return priv
}

// TestNewPrivateKey checks scalar validation.
func TestNewPrivateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scalar []byte
		expErr error
	}{
		{
			name:   "short",
			scalar: make([]byte, 31),
			expErr: btcerr.ErrInvalidDataSize,
		},
		{
			name:   "zero",
			scalar: make([]byte, 32),
			expErr: btcerr.ErrInvalidPrivateKey,
		},
		{
			name:   "curve order",
			scalar: mustHex(t, curveOrder),
			expErr: btcerr.ErrInvalidPrivateKey,
		},
		{
			name:   "all ones",
			scalar: bytes.Repeat([]byte{0xff}, 32),
			expErr: btcerr.ErrInvalidPrivateKey,
		},
		{
			name:   "one",
			scalar: append(make([]byte, 31), 1),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			priv, err := NewPrivateKey(test.scalar)
			if test.expErr != nil {
				require.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.scalar, priv.Serialize())
			require.True(t, priv.IsPrivate())
		})
	}
}

// TestPrivateKeyRedacted checks that formatting never leaks the scalar.
func TestPrivateKeyRedacted(t *testing.T) {
	t.Parallel()

	priv := scalarOne(t)
	for _, s := range []string{
		fmt.Sprintf("%v", priv), fmt.Sprintf("%s", priv),
		fmt.Sprintf("%#v", priv),
	} {
		require.NotContains(t, s, "0001")
		require.Contains(t, s, "redacted")
	}
}

// TestDerivePublicKey checks scalar multiplication against the generator.
func TestDerivePublicKey(t *testing.T) {
	t.Parallel()

	priv := scalarOne(t)

	compressed, err := DeriveCompressedPublicKey(priv)
	require.NoError(t, err)
	require.Equal(t, generatorCompressed, compressed.String())
	require.True(t, compressed.IsCompressed())

	uncompressed, err := DeriveUncompressedPublicKey(priv)
	require.NoError(t, err)
	require.Equal(t, generatorUncompressed, uncompressed.String())
	require.False(t, uncompressed.IsCompressed())

	_, err = DeriveCompressedPublicKey(PrivateKey{})
	require.ErrorIs(t, err, btcerr.ErrInvalidPrivateKey)
}

// TestCompressDecompress checks conversion between the two encodings.
func TestCompressDecompress(t *testing.T) {
	t.Parallel()

	compressed, err := NewCompressedPublicKey(
		mustHex(t, generatorCompressed),
	)
	require.NoError(t, err)

	uncompressed, err := compressed.Decompress()
	require.NoError(t, err)
	require.Equal(t, generatorUncompressed, uncompressed.String())

	again, err := uncompressed.Compress()
	require.NoError(t, err)
	require.Equal(t, compressed, again)

	same, err := compressed.Compress()
	require.NoError(t, err)
	require.Equal(t, compressed, same)

	same, err = uncompressed.Decompress()
	require.NoError(t, err)
	require.Equal(t, uncompressed, same)

	_, err = PublicKey{compressed: true}.Decompress()
	require.ErrorIs(t, err, btcerr.ErrInvalidPoint)
}

// TestParsePublicKey checks the length and point validation of public keys.
func TestParsePublicKey(t *testing.T) {
	t.Parallel()

	offCurve := make([]byte, CompressedSize)
	offCurve[0] = 0x02
	offCurve[CompressedSize-1] = 5

	tests := []struct {
		name   string
		key    []byte
		expErr error
	}{
		{
			name: "compressed",
			key:  mustHex(t, generatorCompressed),
		},
		{
			name: "uncompressed",
			key:  mustHex(t, generatorUncompressed),
		},
		{
			name:   "bad length",
			key:    make([]byte, 40),
			expErr: btcerr.ErrInvalidFormat,
		},
		{
			name:   "not on curve",
			key:    offCurve,
			expErr: btcerr.ErrInvalidPoint,
		},
		{
			name: "hybrid prefix",
			key: append(
				[]byte{0x06},
				mustHex(t, generatorUncompressed)[1:]...,
			),
			expErr: btcerr.ErrInvalidPoint,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			pub, err := ParsePublicKey(test.key)
			if test.expErr != nil {
				require.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.key, pub.Serialize())
			require.False(t, pub.IsPrivate())
		})
	}

	_, err := NewCompressedPublicKey(mustHex(t, generatorUncompressed))
	require.ErrorIs(t, err, btcerr.ErrInvalidDataSize)

	_, err = NewUncompressedPublicKey(mustHex(t, generatorCompressed))
	require.ErrorIs(t, err, btcerr.ErrInvalidDataSize)
}

// TestCompressInverse checks that compression undoes decompression for
// every valid key.
func TestCompressInverse(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		scalar := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "scalar")
		priv, err := NewPrivateKey(scalar)
		if err != nil {
			t.Skip("scalar out of range")
		}

		pub, err := DeriveCompressedPublicKey(priv)
		require.NoError(t, err)

		full, err := pub.Decompress()
		require.NoError(t, err)
		require.Len(t, full.Serialize(), UncompressedSize)

		back, err := full.Compress()
		require.NoError(t, err)
		require.Equal(t, pub, back)

		uncompressed, err := DeriveUncompressedPublicKey(priv)
		require.NoError(t, err)
		require.Equal(t, uncompressed, full)
	})
}

// TestKeyInterface checks that both key types satisfy Key.
func TestKeyInterface(t *testing.T) {
	t.Parallel()

	priv := scalarOne(t)
	pub, err := DeriveCompressedPublicKey(priv)
	require.NoError(t, err)

	keys := []Key{priv, pub}
	require.True(t, keys[0].IsPrivate())
	require.False(t, keys[1].IsPrivate())
	require.Len(t, keys[0].Serialize(), PrivateKeySize)
	require.Len(t, keys[1].Serialize(), CompressedSize)

	btcecPriv, err := priv.BTCEC()
	require.NoError(t, err)

	fromBTCEC, err := NewPrivateKeyFromBTCEC(btcecPriv)
	require.NoError(t, err)
	require.Equal(t, priv, fromBTCEC)

	btcecPub, err := pub.BTCEC()
	require.NoError(t, err)
	require.Equal(t, pub, NewPublicKeyFromBTCEC(btcecPub, true))
	require.True(t, btcecPub.IsEqual(btcecPriv.PubKey()))
}
