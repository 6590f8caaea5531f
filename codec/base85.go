package codec

import (
	"encoding/binary"
	"math"

	"github.com/blockchaincommons/btckit/btcerr"
)

// base85Alphabet is the Z85 alphabet. Unlike Ascii85 it avoids quotes and
// backslashes so encodings can be embedded in source and JSON strings.
const base85Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#"

const (
	base85GroupBytes = 4
	base85GroupChars = 5
)

// base85Values maps a character to its digit value, or -1.
var base85Values = func() [256]int8 {
	var values [256]int8
	for i := range values {
		values[i] = -1
	}
	for i := 0; i < len(base85Alphabet); i++ {
		values[base85Alphabet[i]] = int8(i)
	}

	return values
}()

// EncodeBase85 returns the Z85 encoding of data. Every four byte group
// becomes five characters. A trailing group of n < 4 bytes is encoded as
// n+1 characters, so any length can be encoded.
func EncodeBase85(data []byte) string {
	out := make([]byte, 0, (len(data)*base85GroupChars+3)/base85GroupBytes)

	for len(data) > 0 {
		n := min(len(data), base85GroupBytes)

		var group [base85GroupBytes]byte
		copy(group[:], data[:n])
		value := binary.BigEndian.Uint32(group[:])

		var chars [base85GroupChars]byte
		for i := base85GroupChars - 1; i >= 0; i-- {
			chars[i] = base85Alphabet[value%85]
			value /= 85
		}

		out = append(out, chars[:n+1]...)
		data = data[n:]
	}

	return string(out)
}

// DecodeBase85 decodes a Z85 string produced by EncodeBase85. Characters
// outside the alphabet fail with InvalidCharacter. Groups that overflow 32
// bits, and a trailing group of a single character, fail with InvalidFormat.
func DecodeBase85(s string) ([]byte, error) {
	const op = "codec.DecodeBase85"

	for i := 0; i < len(s); i++ {
		if base85Values[s[i]] < 0 {
			return nil, btcerr.Errorf(
				op, btcerr.InvalidCharacter,
				"%q at position %d", s[i], i,
			)
		}
	}

	if len(s)%base85GroupChars == 1 {
		return nil, btcerr.Errorf(
			op, btcerr.InvalidFormat, "dangling final character",
		)
	}

	out := make([]byte, 0, len(s)*base85GroupBytes/base85GroupChars)
	for len(s) > 0 {
		n := min(len(s), base85GroupChars)

		// Short groups are padded with the highest digit so the
		// truncated bytes come back unchanged.
		var value uint64
		for i := 0; i < base85GroupChars; i++ {
			digit := uint64(84)
			if i < n {
				digit = uint64(base85Values[s[i]])
			}
			value = value*85 + digit
		}
		if value > math.MaxUint32 {
			return nil, btcerr.Errorf(
				op, btcerr.InvalidFormat,
				"group %q overflows 32 bits", s[:n],
			)
		}

		var group [base85GroupBytes]byte
		binary.BigEndian.PutUint32(group[:], uint32(value))
		out = append(out, group[:n-1]...)

		s = s[n:]
	}

	return out, nil
}
