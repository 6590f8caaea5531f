package codec

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/blockchaincommons/btckit/btcerr"
)

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz0123456789+/"

// base64Encoding is the padded standard alphabet with strict decoding, so
// non-zero trailing bits are rejected and every encoding is canonical.
var base64Encoding = base64.StdEncoding.Strict()

// EncodeBase64 returns the padded standard base64 encoding of data.
func EncodeBase64(data []byte) string {
	return base64Encoding.EncodeToString(data)
}

// DecodeBase64 decodes padded standard base64. Characters outside the
// alphabet fail with InvalidCharacter; bad padding or grouping fails with
// InvalidFormat.
func DecodeBase64(s string) ([]byte, error) {
	const op = "codec.DecodeBase64"

	data, err := base64Encoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) && int(corrupt) < len(s) {
		c := s[corrupt]
		if c != '=' && !strings.ContainsRune(base64Alphabet, rune(c)) {
			return nil, btcerr.Wrap(op, btcerr.InvalidCharacter, err)
		}
	}

	return nil, btcerr.Wrap(op, btcerr.InvalidFormat, err)
}
