package chain

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/tlv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testHash = digest.Digest{
	0x51, 0xb6, 0x37, 0xd8, 0xfc, 0xd2, 0xc6, 0xda,
	0x48, 0x59, 0xe6, 0x96, 0x31, 0x13, 0xa1, 0x17,
	0x2d, 0xe7, 0x93, 0xe4, 0xb7, 0x25, 0xb8, 0x4d,
	0x1f, 0x0b, 0x4c, 0xf9, 0x9e, 0xc5, 0x8c, 0xe9,
}

func genOutputPoint(t *rapid.T) OutputPoint {
	var o OutputPoint
	copy(o.Hash[:], rapid.SliceOfN(
		rapid.Byte(), digest.Size, digest.Size,
	).Draw(t, "hash"))
	o.Index = rapid.Uint32().Draw(t, "index")

	return o
}

// TestOutputPointValidity checks that only the null point is invalid.
func TestOutputPointValidity(t *testing.T) {
	t.Parallel()

	require.False(t, NewOutputPoint().IsValid())
	require.False(t, NewOutputPointFrom(digest.Digest{}, NullIndex).IsValid())

	require.True(t, OutputPoint{}.IsValid())
	require.True(t, NewOutputPointFrom(digest.Digest{}, 0).IsValid())
	require.True(t, NewOutputPointFrom(testHash, NullIndex).IsValid())
	require.True(t, NewOutputPointFrom(testHash, 9).IsValid())
}

// TestOutputPointCopy checks that copies are independent.
func TestOutputPointCopy(t *testing.T) {
	t.Parallel()

	a := NewOutputPointFrom(testHash, 9)
	b := a
	b.Index = 10
	b.Hash[0] = 0

	require.EqualValues(t, 9, a.Index)
	require.Equal(t, testHash, a.Hash)
	require.NotEqual(t, a, b)

	c := a
	require.Equal(t, a, c)
	require.True(t, a == c)
}

// TestOutputPointSerialization checks the 36-byte layout: the hash in
// natural order followed by the little-endian index.
func TestOutputPointSerialization(t *testing.T) {
	t.Parallel()

	o := NewOutputPointFrom(testHash, 0x01020304)
	b, err := o.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, OutputPointSize)
	require.Equal(t, testHash[:], b[:digest.Size])
	require.Equal(t, "04030201", hex.EncodeToString(b[digest.Size:]))

	decoded, err := FromBytes(b)
	require.NoError(t, err)
	require.Equal(t, o, decoded)

	var buf bytes.Buffer
	require.NoError(t, o.Encode(&buf))
	require.Equal(t, b, buf.Bytes())

	var read OutputPoint
	require.NoError(t, read.Decode(&buf))
	require.Equal(t, o, read)

	_, err = FromBytes(b[:35])
	require.ErrorIs(t, err, btcerr.ErrInvalidDataSize)

	_, err = FromBytes(append(b, 0))
	require.ErrorIs(t, err, btcerr.ErrInvalidDataSize)

	untouched := NewOutputPoint()
	err = untouched.Decode(bytes.NewReader(b[:20]))
	require.ErrorIs(t, err, btcerr.ErrInvalidDataSize)
	require.Equal(t, NewOutputPoint(), untouched)
}

// TestOutputPointString checks the display form.
func TestOutputPointString(t *testing.T) {
	t.Parallel()

	o := NewOutputPointFrom(testHash, 9)
	require.Equal(
		t, "OutputPoint(hash: e98cc59ef94c0b1f4db825b7e493e72d17a113"+
			"3196e65948dac6d2fcd837b651, index: 9)", o.String(),
	)
}

// TestOutputPointWire checks conversion to and from wire.OutPoint, and that
// both serialize identically.
func TestOutputPointWire(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		o := genOutputPoint(t)

		op := o.ToWire()
		require.Equal(t, o, FromWire(op))
		require.Equal(t, o.Hash.String(), op.Hash.String())

		// A transaction input starts with the previous output point.
		tx := wire.NewMsgTx(wire.TxVersion)
		tx.AddTxIn(wire.NewTxIn(&op, nil, nil))

		var txBuf bytes.Buffer
		require.NoError(t, tx.SerializeNoWitness(&txBuf))

		b, err := o.MarshalBinary()
		require.NoError(t, err)

		// Skip the 4-byte version and the 1-byte input count.
		require.Equal(t, b, txBuf.Bytes()[5:5+OutputPointSize])
	})
}

// TestOutputPointRecord checks the TLV record round trip.
func TestOutputPointRecord(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		o := genOutputPoint(t)

		stream, err := tlv.NewStream(o.Record(1))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, stream.Encode(&buf))

		// Type and length are single byte varints.
		require.Equal(t, 2+OutputPointSize, buf.Len())

		var decoded OutputPoint
		stream, err = tlv.NewStream(decoded.Record(1))
		require.NoError(t, err)
		require.NoError(t, stream.Decode(&buf))
		require.Equal(t, o, decoded)
	})
}

// TestOutputPointRoundTrip checks binary round trips.
func TestOutputPointRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		o := genOutputPoint(t)

		b, err := o.MarshalBinary()
		require.NoError(t, err)

		decoded, err := FromBytes(b)
		require.NoError(t, err)
		require.Equal(t, o, decoded)
		require.Equal(
			t, !(o.Hash.IsZero() && o.Index == NullIndex),
			decoded.IsValid(),
		)
	})
}
