package codec

import (
	"errors"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Base32Separator separates the human-readable prefix from the payload of a
// bech32 string.
const Base32Separator = '1'

// EncodeBase32 encodes a prefix and a payload of 5-bit symbols as a bech32
// string, appending the six character checksum. The prefix is lowercased.
// Symbols outside [0, 32) fail with InvalidFormat.
func EncodeBase32(prefix string, data []byte) (string, error) {
	const op = "codec.EncodeBase32"

	if err := validatePrefix(op, prefix); err != nil {
		return "", err
	}

	s, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	return s, nil
}

// DecodeBase32 splits a bech32 string on the last separator, verifies the
// checksum and returns the lowercase prefix and the payload as 5-bit
// symbols.
func DecodeBase32(s string) (string, []byte, error) {
	const op = "codec.DecodeBase32"

	prefix, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", nil, bech32Error(op, err)
	}

	log.Tracef("Decoded bech32 string with prefix %q and %d symbols",
		prefix, len(data))

	return prefix, data, nil
}

// EncodeBase32Bytes regroups an arbitrary byte payload into 5-bit symbols,
// padding the final group, and bech32 encodes it.
func EncodeBase32Bytes(prefix string, data []byte) (string, error) {
	const op = "codec.EncodeBase32Bytes"

	symbols, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	return EncodeBase32(prefix, symbols)
}

// DecodeBase32Bytes is the inverse of EncodeBase32Bytes. Payloads whose
// padding bits are not zero fail with InvalidFormat.
func DecodeBase32Bytes(s string) (string, []byte, error) {
	const op = "codec.DecodeBase32Bytes"

	prefix, symbols, err := DecodeBase32(s)
	if err != nil {
		return "", nil, err
	}

	data, err := bech32.ConvertBits(symbols, 5, 8, false)
	if err != nil {
		return "", nil, btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	return prefix, data, nil
}

// validatePrefix checks that the human-readable prefix is non-empty and made
// of printable US-ASCII.
func validatePrefix(op, prefix string) error {
	if prefix == "" {
		return btcerr.Errorf(op, btcerr.InvalidFormat, "empty prefix")
	}

	for i := 0; i < len(prefix); i++ {
		if prefix[i] < 33 || prefix[i] > 126 {
			return btcerr.Errorf(
				op, btcerr.InvalidCharacter,
				"prefix byte %#x at position %d", prefix[i], i,
			)
		}
	}

	return nil
}

// bech32Error maps a bech32 package error onto the error kinds of this
// module.
func bech32Error(op string, err error) error {
	var (
		sepErr      bech32.ErrInvalidSeparatorIndex
		charErr     bech32.ErrInvalidCharacter
		nonCharErr  bech32.ErrNonCharsetChar
		checksumErr bech32.ErrInvalidChecksum
	)

	switch {
	case errors.As(err, &sepErr) && int(sepErr) < 0:
		return btcerr.Wrap(op, btcerr.MissingSeparator, err)

	case errors.As(err, &charErr), errors.As(err, &nonCharErr):
		return btcerr.Wrap(op, btcerr.InvalidCharacter, err)

	case errors.As(err, &checksumErr):
		return btcerr.Wrap(op, btcerr.ChecksumMismatch, err)

	default:
		return btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}
}
