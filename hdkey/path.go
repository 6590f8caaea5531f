package hdkey

import (
	"strconv"
	"strings"

	"github.com/blockchaincommons/btckit/btcerr"
)

// Path is a sequence of child indexes below a master key. Hardened steps
// carry the HardenedKeyStart offset.
type Path []uint32

// ParsePath parses a derivation path such as "m/44'/0'/0'/0/5". Hardened
// steps are marked with a trailing ', h or H. The leading "m" is required;
// "m" alone is the empty path.
func ParsePath(s string) (Path, error) {
	const op = "hdkey.ParsePath"

	parts := strings.Split(s, "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, btcerr.Errorf(
			op, btcerr.InvalidDerivationPath, "%q does not start "+
				"with m", s,
		)
	}

	path := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		var hardened bool
		switch {
		case strings.HasSuffix(part, "'"),
			strings.HasSuffix(part, "h"),
			strings.HasSuffix(part, "H"):

			hardened = true
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || index >= HardenedKeyStart {
			return nil, btcerr.Errorf(
				op, btcerr.InvalidDerivationPath, "step %q "+
					"out of range in %q", part, s,
			)
		}

		if hardened {
			index += HardenedKeyStart
		}
		path = append(path, uint32(index))
	}

	return path, nil
}

// String renders the path with ' marking hardened steps.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, i := range p {
		b.WriteString("/")
		if i >= HardenedKeyStart {
			b.WriteString(strconv.FormatUint(
				uint64(i-HardenedKeyStart), 10,
			))
			b.WriteString("'")

			continue
		}
		b.WriteString(strconv.FormatUint(uint64(i), 10))
	}

	return b.String()
}

// Child returns a copy of the path extended by one step. An index at or
// above HardenedKeyStart fails with InvalidFormat.
func (p Path) Child(index uint32, hardened bool) (Path, error) {
	i, err := childIndex("hdkey.Path.Child", index, hardened)
	if err != nil {
		return nil, err
	}

	child := make(Path, len(p), len(p)+1)
	copy(child, p)

	return append(child, i), nil
}
