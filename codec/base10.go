package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// BTCDecimalPlaces is the number of decimal places of a satoshi
	// amount expressed in bitcoin.
	BTCDecimalPlaces uint8 = 8

	// MBTCDecimalPlaces is the number of decimal places of a satoshi
	// amount expressed in millibitcoin.
	MBTCDecimalPlaces uint8 = 5

	// UBTCDecimalPlaces is the number of decimal places of a satoshi
	// amount expressed in microbitcoin (bits).
	UBTCDecimalPlaces uint8 = 2
)

// DecimalPlacesForUnit returns the number of decimal places needed to express
// a satoshi amount in the given btcutil unit. Units smaller than a satoshi
// are rejected.
func DecimalPlacesForUnit(unit btcutil.AmountUnit) (uint8, error) {
	places := int(unit) + int(BTCDecimalPlaces)
	if places < 0 {
		return 0, btcerr.Errorf(
			"codec.DecimalPlacesForUnit", btcerr.InvalidFormat,
			"unit %v is smaller than a satoshi", unit,
		)
	}

	return uint8(places), nil
}

// EncodeBase10 renders an integer amount as a decimal string.
func EncodeBase10(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

// EncodeBase10Decimal renders an integer amount as a fixed-point decimal
// string with the point shifted left by places. Trailing fractional zeros and
// a dangling point are trimmed, so 1012345678 at 8 places is "10.12345678"
// and 100000000 at 8 places is "1".
func EncodeBase10Decimal(amount uint64, places uint8) string {
	digits := strconv.FormatUint(amount, 10)
	if places == 0 {
		return digits
	}

	width := int(places) + 1
	if len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}

	point := len(digits) - int(places)
	s := digits[:point] + "." + digits[point:]
	s = strings.TrimRight(s, "0")

	return strings.TrimSuffix(s, ".")
}

// DecodeBase10 parses a decimal integer string.
func DecodeBase10(s string) (uint64, error) {
	return decodeBase10("codec.DecodeBase10", s, 0, true)
}

// DecodeBase10Decimal parses a fixed-point decimal string into an integer
// amount scaled by 10^places. A string with more fractional digits than
// places fails with PrecisionExceeded; a string that is not a decimal number
// fails with InvalidFormat.
func DecodeBase10Decimal(s string, places uint8) (uint64, error) {
	return decodeBase10("codec.DecodeBase10Decimal", s, places, true)
}

// DecodeBase10Rounded is the lenient form of DecodeBase10Decimal: surplus
// fractional digits are dropped and any non-zero surplus rounds the result
// up.
func DecodeBase10Rounded(s string, places uint8) (uint64, error) {
	return decodeBase10("codec.DecodeBase10Rounded", s, places, false)
}

func decodeBase10(op, s string, places uint8, strict bool) (uint64, error) {
	whole, frac, hasPoint := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, btcerr.Errorf(op, btcerr.InvalidFormat, "no digits")
	}
	if hasPoint && strings.Contains(frac, ".") {
		return 0, btcerr.Errorf(
			op, btcerr.InvalidFormat, "more than one decimal point",
		)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, btcerr.Errorf(
			op, btcerr.InvalidFormat, "%q is not a decimal number", s,
		)
	}

	var roundUp bool
	if len(frac) > int(places) {
		surplus := frac[places:]
		if strict {
			return 0, btcerr.Errorf(
				op, btcerr.PrecisionExceeded, "%d fractional "+
					"digits exceed %d decimal places",
				len(frac), places,
			)
		}

		frac = frac[:places]
		roundUp = strings.TrimRight(surplus, "0") != ""
	}
	frac += strings.Repeat("0", int(places)-len(frac))

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		digits = "0"
	}

	value, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, btcerr.Wrap(op, btcerr.InvalidFormat, err)
	}

	if roundUp {
		if value == math.MaxUint64 {
			return 0, btcerr.Errorf(
				op, btcerr.InvalidFormat, "amount overflows",
			)
		}
		value++
	}

	log.Tracef("Decoded %q at %d places as %d", s, places, value)

	return value, nil
}

// isDigits reports whether s consists only of ASCII decimal digits. The
// empty string qualifies.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
