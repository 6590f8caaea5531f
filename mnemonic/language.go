package mnemonic

import (
	"fmt"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// Language identifies a BIP39 word list.
type Language uint8

// Languages in the order automatic detection tries them.
const (
	English Language = iota
	Spanish
	Japanese
	Italian
	French
	Czech
	Russian
	Ukrainian
	ChineseSimplified
	ChineseTraditional
	Korean
)

// Languages lists every language in detection order.
var Languages = []Language{
	English, Spanish, Japanese, Italian, French, Czech, Russian, Ukrainian,
	ChineseSimplified, ChineseTraditional, Korean,
}

var languageCodes = map[Language]string{
	English:            "en",
	Spanish:            "es",
	Japanese:           "ja",
	Italian:            "it",
	French:             "fr",
	Czech:              "cs",
	Russian:            "ru",
	Ukrainian:          "uk",
	ChineseSimplified:  "zh_Hans",
	ChineseTraditional: "zh_Hant",
	Korean:             "ko",
}

// String returns the language code.
func (l Language) String() string {
	if code, ok := languageCodes[l]; ok {
		return code
	}

	return fmt.Sprintf("language(%d)", uint8(l))
}

// ParseLanguage returns the language with the given code.
func ParseLanguage(code string) (Language, error) {
	const op = "mnemonic.ParseLanguage"

	for _, l := range Languages {
		if languageCodes[l] == code {
			return l, nil
		}
	}

	return 0, btcerr.Errorf(
		op, btcerr.UnsupportedLanguage, "unknown language code: %v",
		code,
	)
}

// separator returns the string placed between words when a mnemonic of the
// language is rendered.
func (l Language) separator() string {
	if l == Japanese {
		return "\u3000"
	}

	return " "
}

// dictionary is an immutable BIP39 word list with a reverse index. Words
// are indexed in NFKD form so that differently composed input still
// matches.
type dictionary struct {
	words []string
	index map[string]int
}

func newDictionary(words []string) *dictionary {
	d := &dictionary{
		words: words,
		index: make(map[string]int, len(words)),
	}
	for i, w := range words {
		d.index[norm.NFKD.String(w)] = i
	}

	return d
}

// lookup returns the index of word.
func (d *dictionary) lookup(word string) (int, bool) {
	i, ok := d.index[norm.NFKD.String(word)]
	return i, ok
}

// contains reports whether every word of m is in the dictionary.
func (d *dictionary) contains(m Mnemonic) bool {
	for _, w := range m {
		if _, ok := d.lookup(w); !ok {
			return false
		}
	}

	return true
}

// dictionaries holds the word lists shipped with go-bip39. Russian and
// Ukrainian have none. The map is never written after package init.
var dictionaries = map[Language]*dictionary{
	English:            newDictionary(wordlists.English),
	Spanish:            newDictionary(wordlists.Spanish),
	Japanese:           newDictionary(wordlists.Japanese),
	Italian:            newDictionary(wordlists.Italian),
	French:             newDictionary(wordlists.French),
	Czech:              newDictionary(wordlists.Czech),
	ChineseSimplified:  newDictionary(wordlists.ChineseSimplified),
	ChineseTraditional: newDictionary(wordlists.ChineseTraditional),
	Korean:             newDictionary(wordlists.Korean),
}

// Supported reports whether a word list exists for the language.
func (l Language) Supported() bool {
	_, ok := dictionaries[l]
	return ok
}

// Words returns a copy of the language's word list.
func Words(l Language) ([]string, error) {
	d, err := lookupDictionary("mnemonic.Words", l)
	if err != nil {
		return nil, err
	}

	return append([]string(nil), d.words...), nil
}
