package mnemonic

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39/wordlists"
	"pgregory.net/rapid"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)

	return b
}

func repeat(word string, n int, last string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n) + last)
}

// englishVectors are taken from the reference BIP39 test vectors, which use
// the passphrase "TREZOR".
var englishVectors = []struct {
	entropy  string
	mnemonic string
	seed     string
}{
	{
		entropy:  "00000000000000000000000000000000",
		mnemonic: repeat("abandon", 11, "about"),
		seed: "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708" +
			"e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c8" +
			"1b2f001698e7463b04",
	},
	{
		entropy: "7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f7f",
		mnemonic: "legal winner thank year wave sausage worth useful " +
			"legal winner thank yellow",
		seed: "2e8905819b8723fe2c1d161860e5ee1830318dbf49a83bd451cfb844" +
			"0c28bd6fa457fe1296106559a3c80937a1c1069be3a3a5bd381ee6" +
			"260e8d9739fce1f607",
	},
	{
		entropy: "80808080808080808080808080808080",
		mnemonic: "letter advice cage absurd amount doctor acoustic " +
			"avoid letter advice cage above",
	},
	{
		entropy:  "ffffffffffffffffffffffffffffffff",
		mnemonic: repeat("zoo", 11, "wrong"),
	},
	{
		entropy: "0000000000000000000000000000000000000000000000000000" +
			"000000000000",
		mnemonic: repeat("abandon", 23, "art"),
		seed: "bda85446c68413707090a52022edd26a1c9462295029f2e60cd7c4f2" +
			"bbd3097170af7a4d73245cafa9c3cca8d561a7c3de6f5d4a10be8e" +
			"d2a5e608d68f92fcc8",
	},
	{
		entropy: "ffffffffffffffffffffffffffffffffffffffffffffffffffff" +
			"ffffffffffff",
		mnemonic: repeat("zoo", 23, "vote"),
	},
	{
		entropy: "9e885d952ad362caeb4efe34a8e91bd2",
		mnemonic: "ozone drill grab fiber curtain grace pudding thank " +
			"cruise elder eight picnic",
	},
}

// TestEnglishVectors checks entropy, mnemonic and seed against the
// reference vectors.
func TestEnglishVectors(t *testing.T) {
	t.Parallel()

	for _, v := range englishVectors {
		entropy := mustHex(t, v.entropy)

		m, err := New(entropy, English)
		require.NoError(t, err)
		require.Equal(t, v.mnemonic, m.Join(English))
		require.Equal(t, Parse(v.mnemonic), m)

		recovered, err := ToEntropy(m, English)
		require.NoError(t, err)
		require.Equal(t, entropy, recovered)
		require.NoError(t, Validate(m, English))

		if v.seed == "" {
			continue
		}

		seed, err := ToSeed(m, English, "TREZOR")
		require.NoError(t, err)
		require.Equal(t, v.seed, hex.EncodeToString(seed))

		seed, err = ToSeedWithPassphrase(m, "TREZOR")
		require.NoError(t, err)
		require.Equal(t, v.seed, hex.EncodeToString(seed))
	}
}

// TestJapanese checks the ideographic space separator and NFKD handling of
// both words and passphrase.
func TestJapanese(t *testing.T) {
	t.Parallel()

	m, err := New(make([]byte, 16), Japanese)
	require.NoError(t, err)
	require.Len(t, m, 12)
	require.Equal(t, wordlists.Japanese[0], m[0])
	require.Equal(t, wordlists.Japanese[3], m[11])

	sentence := m.Join(Japanese)
	require.Contains(t, sentence, "　")
	require.NotContains(t, sentence, " ")
	require.Equal(t, m, Parse(sentence))

	seed, err := ToSeed(m, Japanese, "㍍ガバヴァぱばぐゞちぢ十人十色")
	require.NoError(t, err)
	require.Equal(
		t, "a262d6fb6122ecf45be09c50492b31f92e9beb7d9a845987a02cefda57"+
			"a15f9c467a17872029a9e92299b5cbdf306e3a0ee620245cbd5089"+
			"59b6cb7ca637bd55",
		hex.EncodeToString(seed),
	)

	require.Equal(t, Japanese, DetectLanguage(m).UnwrapOrFail(t))
}

// TestNewErrors checks entropy size and language validation.
func TestNewErrors(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 4, 12, 15, 17, 30, 36} {
		_, err := New(make([]byte, size), English)
		require.ErrorIs(t, err, btcerr.ErrInvalidSeedSize, size)
	}

	for _, l := range []Language{Russian, Ukrainian, Language(200)} {
		_, err := New(make([]byte, 16), l)
		require.ErrorIs(t, err, btcerr.ErrUnsupportedLanguage, l)

		_, err = ToSeed(Parse(repeat("abandon", 11, "about")), l, "")
		require.ErrorIs(t, err, btcerr.ErrUnsupportedLanguage, l)

		_, err = Words(l)
		require.ErrorIs(t, err, btcerr.ErrUnsupportedLanguage, l)
	}
}

// TestToEntropyErrors checks word count, membership and checksum
// validation.
func TestToEntropyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mnemonic string
		expErr   error
	}{
		{
			name:     "too few words",
			mnemonic: repeat("abandon", 8, "about"),
			expErr:   btcerr.ErrInvalidFormat,
		},
		{
			name:     "not a multiple of three",
			mnemonic: repeat("abandon", 12, "about"),
			expErr:   btcerr.ErrInvalidFormat,
		},
		{
			name:     "too many words",
			mnemonic: repeat("abandon", 26, "about"),
			expErr:   btcerr.ErrInvalidFormat,
		},
		{
			name:     "unknown word",
			mnemonic: repeat("abandon", 11, "bitcoins"),
			expErr:   btcerr.ErrInvalidFormat,
		},
		{
			name:     "bad checksum",
			mnemonic: repeat("abandon", 11, "abandon"),
			expErr:   btcerr.ErrChecksumMismatch,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := ToEntropy(Parse(test.mnemonic), English)
			require.ErrorIs(t, err, test.expErr)
			require.ErrorIs(
				t, Validate(Parse(test.mnemonic), English),
				test.expErr,
			)
		})
	}
}

// TestToSeedSkipsChecksum checks that seeds are derived from mnemonics with
// bad checksums as long as every word is known.
func TestToSeedSkipsChecksum(t *testing.T) {
	t.Parallel()

	m := Parse(repeat("abandon", 11, "abandon"))
	require.Error(t, Validate(m, English))

	seed, err := ToSeed(m, English, "")
	require.NoError(t, err)
	require.Len(t, seed, SeedSize)

	again, err := ToSeedWithPassphrase(m, "")
	require.NoError(t, err)
	require.Equal(t, seed, again)

	// The language guess falls back to membership alone.
	l := DetectLanguage(m).UnwrapOrFail(t)
	if Validate(m, l) != nil {
		require.Equal(t, English, l)
	}

	_, err = ToSeed(Parse("abandon bitcoins"), English, "")
	require.ErrorIs(t, err, btcerr.ErrInvalidFormat)

	_, err = ToSeed(nil, English, "")
	require.ErrorIs(t, err, btcerr.ErrInvalidFormat)

	_, err = ToSeedWithPassphrase(Parse("qwertyuiop asdfghjkl"), "")
	require.ErrorIs(t, err, btcerr.ErrInvalidFormat)
	require.True(t, DetectLanguage(nil).IsNone())
}

// TestDetectPrefersChecksum builds a mnemonic out of words shared by two
// word lists that is only checksum valid in the later language, and checks
// that detection skips the earlier one.
func TestDetectPrefersChecksum(t *testing.T) {
	t.Parallel()

	for i, first := range Languages {
		for _, second := range Languages[i+1:] {
			if !first.Supported() || !second.Supported() {
				continue
			}

			shared := sharedWords(first, second)
			if len(shared) == 0 {
				continue
			}

			for _, last := range shared {
				m := make(Mnemonic, 0, 12)
				for j := 0; j < 11; j++ {
					m = append(m, shared[0])
				}
				m = append(m, last)

				if Validate(m, second) != nil ||
					Validate(m, first) == nil {

					continue
				}

				l := DetectLanguage(m).UnwrapOrFail(t)
				require.NotEqual(t, first, l)
				require.NoError(t, Validate(m, l))

				return
			}
		}
	}

	t.Skip("no word lists share enough words")
}

func sharedWords(a, b Language) []string {
	var shared []string
	for _, w := range dictionaries[a].words {
		if _, ok := dictionaries[b].lookup(w); ok {
			shared = append(shared, w)
		}
	}

	return shared
}

// TestLanguages checks language codes and word lists.
func TestLanguages(t *testing.T) {
	t.Parallel()

	require.Len(t, Languages, 11)
	for _, l := range Languages {
		parsed, err := ParseLanguage(l.String())
		require.NoError(t, err)
		require.Equal(t, l, parsed)

		if !l.Supported() {
			continue
		}

		words, err := Words(l)
		require.NoError(t, err)
		require.Len(t, words, 2048, l)
	}
	require.Equal(t, "zh_Hans", ChineseSimplified.String())

	_, err := ParseLanguage("xx")
	require.ErrorIs(t, err, btcerr.ErrUnsupportedLanguage)
}

// TestMnemonicRoundTrip checks entropy round trips and word counts for
// every supported language.
func TestMnemonicRoundTrip(t *testing.T) {
	t.Parallel()

	supported := make([]Language, 0, len(Languages))
	for _, l := range Languages {
		if l.Supported() {
			supported = append(supported, l)
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(4, 8).Draw(t, "words") * SeedMultiple
		entropy := rapid.SliceOfN(rapid.Byte(), size, size).Draw(
			t, "entropy",
		)
		l := rapid.SampledFrom(supported).Draw(t, "language")

		m, err := New(entropy, l)
		require.NoError(t, err)
		require.Len(t, m, size*WordMultiple/SeedMultiple)

		recovered, err := ToEntropy(Parse(m.Join(l)), l)
		require.NoError(t, err)
		require.True(t, bytes.Equal(entropy, recovered))
	})
}
