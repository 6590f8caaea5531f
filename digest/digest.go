// Package digest provides the fixed size hash types shared by the other
// packages, along with the hash functions Bitcoin builds addresses and
// identifiers from.
package digest

import (
	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"
)

const (
	// Size is the length of a Digest in bytes.
	Size = chainhash.HashSize

	// ShortSize is the length of a ShortDigest in bytes.
	ShortSize = 20
)

// Digest is a 32-byte hash in natural (internal) byte order.
type Digest [Size]byte

// FromBytes copies b into a Digest. Any length other than Size fails with
// InvalidDataSize.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, btcerr.Errorf(
			"digest.FromBytes", btcerr.InvalidDataSize,
			"got %d bytes, want %d", len(b), Size,
		)
	}
	copy(d[:], b)

	return d, nil
}

// FromString parses the display form of a digest: 64 hex characters in
// reversed byte order, as printed by block explorers and bitcoind.
func FromString(s string) (Digest, error) {
	const op = "digest.FromString"

	var d Digest
	if len(s) != 2*Size {
		return d, btcerr.Errorf(
			op, btcerr.InvalidDataSize, "got %d characters, want %d",
			len(s), 2*Size,
		)
	}

	var h chainhash.Hash
	if err := chainhash.Decode(&h, s); err != nil {
		return d, btcerr.Wrap(op, btcerr.InvalidCharacter, err)
	}

	return Digest(h), nil
}

// FromHash converts a chainhash.Hash.
func FromHash(h chainhash.Hash) Digest {
	return Digest(h)
}

// Hash returns the digest as a chainhash.Hash.
func (d Digest) Hash() chainhash.Hash {
	return chainhash.Hash(d)
}

// Bytes returns a copy of the digest in natural byte order.
func (d Digest) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, d[:])

	return b
}

// String returns the display form of the digest, the hex encoding of the
// reversed bytes.
func (d Digest) String() string {
	return chainhash.Hash(d).String()
}

// IsZero reports whether every byte of the digest is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// ShortDigest is a 20-byte hash, the output of RIPEMD-160 and Hash160.
type ShortDigest [ShortSize]byte

// ShortFromBytes copies b into a ShortDigest. Any length other than ShortSize
// fails with InvalidDataSize.
func ShortFromBytes(b []byte) (ShortDigest, error) {
	var d ShortDigest
	if len(b) != ShortSize {
		return d, btcerr.Errorf(
			"digest.ShortFromBytes", btcerr.InvalidDataSize,
			"got %d bytes, want %d", len(b), ShortSize,
		)
	}
	copy(d[:], b)

	return d, nil
}

// Bytes returns a copy of the digest.
func (d ShortDigest) Bytes() []byte {
	b := make([]byte, ShortSize)
	copy(b, d[:])

	return b
}

// String returns the hex encoding of the digest in natural order. Unlike
// Digest, short digests are never displayed reversed.
func (d ShortDigest) String() string {
	return codec.EncodeBase16(d[:])
}

// Sha256 returns SHA-256(data).
func Sha256(data []byte) Digest {
	return Digest(chainhash.HashH(data))
}

// DoubleSha256 returns SHA-256(SHA-256(data)), the hash used for
// transaction and block identifiers and base58Check checksums.
func DoubleSha256(data []byte) Digest {
	return Digest(chainhash.DoubleHashH(data))
}

// Ripemd160 returns RIPEMD-160(data).
func Ripemd160(data []byte) ShortDigest {
	h := ripemd160.New()
	h.Write(data)

	var d ShortDigest
	copy(d[:], h.Sum(nil))

	return d
}

// Hash160 returns RIPEMD-160(SHA-256(data)), the hash committed to by
// pay-to-pubkey-hash and pay-to-script-hash outputs.
func Hash160(data []byte) ShortDigest {
	var d ShortDigest
	copy(d[:], btcutil.Hash160(data))

	return d
}
