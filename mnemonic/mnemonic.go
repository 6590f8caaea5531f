// Package mnemonic implements BIP39: encoding entropy as a sentence of
// dictionary words with a checksum, and stretching a sentence into a seed.
package mnemonic

import (
	"strings"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

const (
	// SeedMultiple is the granularity of entropy lengths in bytes.
	SeedMultiple = 4

	// WordMultiple is the granularity of mnemonic lengths in words:
	// three words carry 32 bits of entropy and one checksum bit.
	WordMultiple = 3

	// MinEntropySize is the shortest entropy accepted, 128 bits.
	MinEntropySize = 16

	// MaxEntropySize is the longest entropy accepted, 256 bits.
	MaxEntropySize = 32

	// SeedSize is the length of the seed derived from a mnemonic.
	SeedSize = 64

	bitsPerWord = 11
)

// Mnemonic is a sentence of words from one dictionary.
type Mnemonic []string

// Parse splits a sentence on white space, including the ideographic space
// used by Japanese mnemonics.
func Parse(sentence string) Mnemonic {
	return Mnemonic(strings.Fields(sentence))
}

// Join renders the mnemonic with the separator of the given language.
func (m Mnemonic) Join(l Language) string {
	return strings.Join(m, l.separator())
}

// String renders the mnemonic with plain spaces.
func (m Mnemonic) String() string {
	return strings.Join(m, " ")
}

func lookupDictionary(op string, l Language) (*dictionary, error) {
	d, ok := dictionaries[l]
	if !ok {
		return nil, btcerr.Errorf(
			op, btcerr.UnsupportedLanguage, "no word list for %v", l,
		)
	}

	return d, nil
}

// checksumBits returns the number of checksum bits for entropy of n bytes.
func checksumBits(n int) int {
	return n * 8 / 32
}

// bit returns bit i of data counting from the most significant bit.
func bit(data []byte, i int) int {
	return int(data[i/8]>>(7-uint(i%8))) & 1
}

// New encodes entropy as a mnemonic in the given language. The entropy
// length must be a multiple of SeedMultiple between MinEntropySize and
// MaxEntropySize, failing with InvalidSeedSize otherwise.
func New(entropy []byte, l Language) (Mnemonic, error) {
	const op = "mnemonic.New"

	if len(entropy)%SeedMultiple != 0 || len(entropy) < MinEntropySize ||
		len(entropy) > MaxEntropySize {

		return nil, btcerr.Errorf(
			op, btcerr.InvalidSeedSize, "entropy of %d bytes",
			len(entropy),
		)
	}

	d, err := lookupDictionary(op, l)
	if err != nil {
		return nil, err
	}

	// The checksum is at most 8 bits, so the first hash byte covers it.
	hash := digest.Sha256(entropy)
	data := make([]byte, 0, len(entropy)+1)
	data = append(data, entropy...)
	data = append(data, hash[0])

	totalBits := len(entropy)*8 + checksumBits(len(entropy))
	m := make(Mnemonic, 0, totalBits/bitsPerWord)
	for offset := 0; offset < totalBits; offset += bitsPerWord {
		var index int
		for i := 0; i < bitsPerWord; i++ {
			index = index<<1 | bit(data, offset+i)
		}
		m = append(m, d.words[index])
	}

	log.Debugf("Created %d word %v mnemonic", len(m), l)

	return m, nil
}

// ToEntropy recovers the entropy of a mnemonic and verifies its checksum.
// A bad word count or an unknown word fails with InvalidFormat, a wrong
// checksum with ChecksumMismatch.
func ToEntropy(m Mnemonic, l Language) ([]byte, error) {
	const op = "mnemonic.ToEntropy"

	d, err := lookupDictionary(op, l)
	if err != nil {
		return nil, err
	}

	minWords := MinEntropySize * 8 * WordMultiple / 32
	maxWords := MaxEntropySize * 8 * WordMultiple / 32
	if len(m)%WordMultiple != 0 || len(m) < minWords || len(m) > maxWords {
		return nil, btcerr.Errorf(
			op, btcerr.InvalidFormat, "%d words", len(m),
		)
	}

	totalBits := len(m) * bitsPerWord
	entropySize := totalBits * 32 / 33 / 8
	data := make([]byte, entropySize+1)
	for w, word := range m {
		index, ok := d.lookup(word)
		if !ok {
			return nil, btcerr.Errorf(
				op, btcerr.InvalidFormat, "word %d is not in "+
					"the %v word list", w+1, l,
			)
		}

		for i := 0; i < bitsPerWord; i++ {
			if index>>(bitsPerWord-1-i)&1 == 1 {
				pos := w*bitsPerWord + i
				data[pos/8] |= 1 << (7 - uint(pos%8))
			}
		}
	}

	entropy := data[:entropySize]
	csBits := checksumBits(entropySize)
	want := digest.Sha256(entropy)[0] >> (8 - csBits)
	got := data[entropySize] >> (8 - csBits)
	if want != got {
		return nil, btcerr.New(op, btcerr.ChecksumMismatch)
	}

	return entropy, nil
}

// Validate checks the words and checksum of a mnemonic.
func Validate(m Mnemonic, l Language) error {
	_, err := ToEntropy(m, l)
	return err
}

// ToSeed stretches a mnemonic into a 64-byte seed with PBKDF2-HMAC-SHA512,
// 2048 rounds and the salt "mnemonic" || passphrase, both inputs in NFKD
// form. Every word must be in the language's word list (InvalidFormat) but
// the checksum is not verified, so seeds of mnemonics created elsewhere
// with nonstandard checksums can still be recovered.
func ToSeed(m Mnemonic, l Language, passphrase string) ([]byte, error) {
	const op = "mnemonic.ToSeed"

	d, err := lookupDictionary(op, l)
	if err != nil {
		return nil, err
	}
	if len(m) == 0 || !d.contains(m) {
		return nil, btcerr.Errorf(
			op, btcerr.InvalidFormat, "mnemonic is not made of %v "+
				"words", l,
		)
	}

	return stretch(m, passphrase), nil
}

func stretch(m Mnemonic, passphrase string) []byte {
	sentence := norm.NFKD.String(m.String())
	salt := norm.NFKD.String(passphrase)

	return bip39.NewSeed(sentence, salt)
}

// DetectLanguage picks the language of a mnemonic. Among the languages
// whose word list contains every word, the first one in Languages order
// under which the checksum is valid wins; failing that, the first one
// containing every word. Word lists overlap, so a mnemonic with a bad
// checksum may be attributed to the wrong language.
func DetectLanguage(m Mnemonic) fn.Option[Language] {
	if len(m) == 0 {
		return fn.None[Language]()
	}

	candidate := fn.None[Language]()
	for _, l := range Languages {
		d, ok := dictionaries[l]
		if !ok || !d.contains(m) {
			continue
		}

		if Validate(m, l) == nil {
			return fn.Some(l)
		}
		if candidate.IsNone() {
			candidate = fn.Some(l)
		}
	}

	return candidate
}

// ToSeedWithPassphrase stretches a mnemonic of unknown language into a
// seed, picking the language with DetectLanguage. A mnemonic matching no
// word list fails with InvalidFormat.
func ToSeedWithPassphrase(m Mnemonic, passphrase string) ([]byte, error) {
	const op = "mnemonic.ToSeedWithPassphrase"

	l, err := DetectLanguage(m).UnwrapOrErr(btcerr.Errorf(
		op, btcerr.InvalidFormat, "no word list contains every word",
	))
	if err != nil {
		return nil, err
	}

	log.Debugf("Detected %v mnemonic", l)

	return ToSeed(m, l, passphrase)
}
