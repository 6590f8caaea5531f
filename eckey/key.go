// Package eckey holds secp256k1 private and public keys as plain values, and
// converts public keys into payment addresses and private keys to and from
// wallet import format.
package eckey

import (
	"errors"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// PrivateKeySize is the length of a private scalar in bytes.
	PrivateKeySize = btcec.PrivKeyBytesLen

	// CompressedSize is the length of a compressed public key.
	CompressedSize = btcec.PubKeyBytesLenCompressed

	// UncompressedSize is the length of an uncompressed public key.
	UncompressedSize = secp256k1.PubKeyBytesLenUncompressed
)

// Key is implemented by PrivateKey and PublicKey.
type Key interface {
	// Serialize returns the raw key bytes.
	Serialize() []byte

	// IsPrivate reports whether the key holds secret material.
	IsPrivate() bool
}

// PrivateKey is a secp256k1 secret scalar. The zero value is not a usable
// key.
type PrivateKey struct {
	scalar [PrivateKeySize]byte
}

// A compile time check to ensure both key types implement Key.
var (
	_ Key = PrivateKey{}
	_ Key = PublicKey{}
)

// NewPrivateKey builds a private key from its 32-byte big-endian scalar. The
// scalar must lie in [1, n) where n is the curve order.
func NewPrivateKey(b []byte) (PrivateKey, error) {
	const op = "eckey.NewPrivateKey"

	var k PrivateKey
	if len(b) != PrivateKeySize {
		return k, btcerr.Errorf(
			op, btcerr.InvalidDataSize, "got %d bytes, want %d",
			len(b), PrivateKeySize,
		)
	}
	if err := validScalar(b); err != nil {
		return k, btcerr.Wrap(op, btcerr.InvalidPrivateKey, err)
	}
	copy(k.scalar[:], b)

	return k, nil
}

// NewPrivateKeyFromBTCEC copies a btcec private key.
func NewPrivateKeyFromBTCEC(priv *btcec.PrivateKey) (PrivateKey, error) {
	return NewPrivateKey(priv.Serialize())
}

// validScalar checks that b is a non-zero scalar below the curve order.
func validScalar(b []byte) error {
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(b); overflow {
		return errors.New("scalar is not below the curve order")
	}
	if s.IsZero() {
		return errors.New("scalar is zero")
	}

	return nil
}

// Serialize returns a copy of the 32-byte scalar.
func (k PrivateKey) Serialize() []byte {
	b := make([]byte, PrivateKeySize)
	copy(b, k.scalar[:])

	return b
}

// IsPrivate always returns true.
func (k PrivateKey) IsPrivate() bool {
	return true
}

// BTCEC returns the key as a btcec private key.
func (k PrivateKey) BTCEC() (*btcec.PrivateKey, error) {
	if err := validScalar(k.scalar[:]); err != nil {
		return nil, btcerr.Wrap(
			"eckey.PrivateKey.BTCEC", btcerr.InvalidPrivateKey, err,
		)
	}
	priv, _ := btcec.PrivKeyFromBytes(k.scalar[:])

	return priv, nil
}

// String never reveals the scalar.
func (k PrivateKey) String() string {
	return "PrivateKey(<redacted>)"
}

// GoString never reveals the scalar.
func (k PrivateKey) GoString() string {
	return k.String()
}

// PublicKey is a secp256k1 point in either its 33-byte compressed or its
// 65-byte uncompressed encoding. Keys compare equal with == exactly when
// both the point and the encoding match.
type PublicKey struct {
	raw        [UncompressedSize]byte
	compressed bool
}

// newPublicKey serializes pub in the requested encoding.
func newPublicKey(pub *btcec.PublicKey, compressed bool) PublicKey {
	k := PublicKey{compressed: compressed}
	if compressed {
		copy(k.raw[:], pub.SerializeCompressed())
	} else {
		copy(k.raw[:], pub.SerializeUncompressed())
	}

	return k
}

// NewPublicKeyFromBTCEC serializes a btcec public key in the requested
// encoding.
func NewPublicKeyFromBTCEC(pub *btcec.PublicKey, compressed bool) PublicKey {
	return newPublicKey(pub, compressed)
}

// NewCompressedPublicKey parses a 33-byte compressed key. Other lengths fail
// with InvalidDataSize, bytes that do not encode a curve point with
// InvalidPoint.
func NewCompressedPublicKey(b []byte) (PublicKey, error) {
	return parsePublicKey("eckey.NewCompressedPublicKey", b, true)
}

// NewUncompressedPublicKey parses a 65-byte uncompressed key.
func NewUncompressedPublicKey(b []byte) (PublicKey, error) {
	return parsePublicKey("eckey.NewUncompressedPublicKey", b, false)
}

// ParsePublicKey parses a public key in either encoding, telling them apart
// by length. Lengths other than 33 and 65 fail with InvalidFormat.
func ParsePublicKey(b []byte) (PublicKey, error) {
	switch len(b) {
	case CompressedSize:
		return NewCompressedPublicKey(b)

	case UncompressedSize:
		return NewUncompressedPublicKey(b)

	default:
		return PublicKey{}, btcerr.Errorf(
			"eckey.ParsePublicKey", btcerr.InvalidFormat,
			"%d bytes is neither a compressed nor an uncompressed "+
				"key", len(b),
		)
	}
}

func parsePublicKey(op string, b []byte, compressed bool) (PublicKey, error) {
	want := UncompressedSize
	if compressed {
		want = CompressedSize
	}
	if len(b) != want {
		return PublicKey{}, btcerr.Errorf(
			op, btcerr.InvalidDataSize, "got %d bytes, want %d",
			len(b), want,
		)
	}

	// btcec accepts the hybrid 0x06/0x07 prefixes, only the standard
	// ones are allowed here.
	switch {
	case compressed && b[0] != 0x02 && b[0] != 0x03:
		return PublicKey{}, btcerr.Errorf(
			op, btcerr.InvalidPoint, "bad prefix %#x", b[0],
		)

	case !compressed && b[0] != 0x04:
		return PublicKey{}, btcerr.Errorf(
			op, btcerr.InvalidPoint, "bad prefix %#x", b[0],
		)
	}

	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return PublicKey{}, btcerr.Wrap(op, btcerr.InvalidPoint, err)
	}

	return newPublicKey(pub, compressed), nil
}

// Serialize returns a copy of the key in its own encoding.
func (k PublicKey) Serialize() []byte {
	n := UncompressedSize
	if k.compressed {
		n = CompressedSize
	}
	b := make([]byte, n)
	copy(b, k.raw[:n])

	return b
}

// IsPrivate always returns false.
func (k PublicKey) IsPrivate() bool {
	return false
}

// IsCompressed reports whether the key uses the 33-byte encoding.
func (k PublicKey) IsCompressed() bool {
	return k.compressed
}

// BTCEC returns the key as a btcec public key.
func (k PublicKey) BTCEC() (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(k.Serialize())
	if err != nil {
		return nil, btcerr.Wrap(
			"eckey.PublicKey.BTCEC", btcerr.InvalidPoint, err,
		)
	}

	return pub, nil
}

// Compress returns the compressed encoding of the key, or the key itself if
// it is already compressed.
func (k PublicKey) Compress() (PublicKey, error) {
	if k.compressed {
		return k, nil
	}

	pub, err := k.BTCEC()
	if err != nil {
		return PublicKey{}, err
	}

	return newPublicKey(pub, true), nil
}

// Decompress reconstructs the full point from the x coordinate and parity
// of a compressed key. Keys that do not lie on the curve fail with
// InvalidPoint.
func (k PublicKey) Decompress() (PublicKey, error) {
	if !k.compressed {
		return k, nil
	}

	pub, err := k.BTCEC()
	if err != nil {
		return PublicKey{}, err
	}

	return newPublicKey(pub, false), nil
}

// Hash160 returns the hash of the key in its own encoding. Compressed and
// uncompressed encodings of one point hash differently.
func (k PublicKey) Hash160() digest.ShortDigest {
	return digest.Hash160(k.Serialize())
}

// String returns the hex encoding of the key.
func (k PublicKey) String() string {
	return codec.EncodeBase16(k.Serialize())
}

// DeriveCompressedPublicKey multiplies the base point by the private scalar
// and returns the compressed encoding.
func DeriveCompressedPublicKey(priv PrivateKey) (PublicKey, error) {
	return derivePublicKey(priv, true)
}

// DeriveUncompressedPublicKey multiplies the base point by the private
// scalar and returns the uncompressed encoding.
func DeriveUncompressedPublicKey(priv PrivateKey) (PublicKey, error) {
	return derivePublicKey(priv, false)
}

func derivePublicKey(priv PrivateKey, compressed bool) (PublicKey, error) {
	key, err := priv.BTCEC()
	if err != nil {
		return PublicKey{}, err
	}

	pub := newPublicKey(key.PubKey(), compressed)
	log.Tracef("Derived public key %v", pub)

	return pub, nil
}
