package codec

import (
	"encoding/hex"

	"github.com/blockchaincommons/btckit/btcerr"
)

// EncodeBase16 returns the lowercase hex encoding of data.
func EncodeBase16(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeBase16 decodes a hex string. Upper and lower case digits are both
// accepted. Non-hex characters fail with InvalidCharacter, an odd number of
// characters with OddLength.
func DecodeBase16(s string) ([]byte, error) {
	const op = "codec.DecodeBase16"

	for i := 0; i < len(s); i++ {
		if !isBase16Char(s[i]) {
			return nil, btcerr.Errorf(
				op, btcerr.InvalidCharacter,
				"%q at position %d", s[i], i,
			)
		}
	}

	if len(s)%2 != 0 {
		return nil, btcerr.New(op, btcerr.OddLength)
	}

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	return data, nil
}

// IsBase16 reports whether s is a well formed hex string.
func IsBase16(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBase16Char(s[i]) {
			return false
		}
	}

	return true
}

func isBase16Char(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}

	return false
}
