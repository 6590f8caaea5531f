package codec

import (
	"bytes"
	"errors"
	"strings"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// base58Alphabet is the Bitcoin base58 alphabet. It omits 0, O, I and l.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZ" +
	"abcdefghijkmnopqrstuvwxyz"

// checksumSize is the size of the double-SHA256 checksum appended by
// base58Check.
const checksumSize = 4

// IsBase58Char reports whether c belongs to the base58 alphabet.
func IsBase58Char(c rune) bool {
	return strings.ContainsRune(base58Alphabet, c)
}

// IsBase58 reports whether every character of s belongs to the base58
// alphabet.
func IsBase58(s string) bool {
	return firstNonBase58(s) < 0
}

// firstNonBase58 returns the byte offset of the first character outside the
// alphabet, or -1.
func firstNonBase58(s string) int {
	for i, c := range s {
		if !IsBase58Char(c) {
			return i
		}
	}

	return -1
}

// EncodeBase58 returns the base58 encoding of data. Leading zero bytes are
// encoded as leading '1' characters.
func EncodeBase58(data []byte) string {
	return base58.Encode(data)
}

// DecodeBase58 decodes a base58 string, failing with InvalidCharacter if the
// string contains characters outside the alphabet.
func DecodeBase58(s string) ([]byte, error) {
	if i := firstNonBase58(s); i >= 0 {
		return nil, btcerr.Errorf(
			"codec.DecodeBase58", btcerr.InvalidCharacter,
			"%q at position %d", s[i], i,
		)
	}

	return base58.Decode(s), nil
}

// checksum returns the first four bytes of the double SHA256 of data.
func checksum(data []byte) []byte {
	return chainhash.DoubleHashB(data)[:checksumSize]
}

// EncodeBase58Check appends a four byte double-SHA256 checksum to data and
// base58 encodes the result.
func EncodeBase58Check(data []byte) string {
	buf := make([]byte, 0, len(data)+checksumSize)
	buf = append(buf, data...)
	buf = append(buf, checksum(data)...)

	return base58.Encode(buf)
}

// DecodeBase58Check decodes a base58Check string and strips its checksum.
// Strings too short to hold a checksum fail with InvalidFormat, a wrong
// checksum fails with ChecksumMismatch.
func DecodeBase58Check(s string) ([]byte, error) {
	const op = "codec.DecodeBase58Check"

	raw, err := DecodeBase58(s)
	if err != nil {
		return nil, err
	}

	if len(raw) < checksumSize {
		return nil, btcerr.Errorf(
			op, btcerr.InvalidFormat, "%d bytes cannot hold a "+
				"checksum", len(raw),
		)
	}

	payload := raw[:len(raw)-checksumSize]
	if !bytes.Equal(checksum(payload), raw[len(raw)-checksumSize:]) {
		return nil, btcerr.New(op, btcerr.ChecksumMismatch)
	}

	return payload, nil
}

// EncodeBase58CheckVersion base58Check encodes version || payload, the layout
// used by payment addresses and WIF keys.
func EncodeBase58CheckVersion(version byte, payload []byte) string {
	return base58.CheckEncode(payload, version)
}

// DecodeBase58CheckVersion decodes a versioned base58Check string into its
// version byte and payload.
func DecodeBase58CheckVersion(s string) (byte, []byte, error) {
	const op = "codec.DecodeBase58CheckVersion"

	if i := firstNonBase58(s); i >= 0 {
		return 0, nil, btcerr.Errorf(
			op, btcerr.InvalidCharacter, "%q at position %d", s[i], i,
		)
	}

	payload, version, err := base58.CheckDecode(s)
	switch {
	case errors.Is(err, base58.ErrChecksum):
		return 0, nil, btcerr.Wrap(op, btcerr.ChecksumMismatch, err)

	case err != nil:
		return 0, nil, btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	return version, payload, nil
}
