// Package btcerr defines the error taxonomy shared by every btckit package.
//
// Each failure carries a stable Kind that callers branch on with errors.Is
// against the package sentinels, or by extracting the *Error with errors.As.
// Error strings are meant for humans and may change between versions.
package btcerr

import (
	"errors"
	"fmt"
)

// Kind is a stable category of failure.
type Kind uint8

const (
	// KindUnknown is never produced by btckit. It is what KindOf reports
	// for foreign errors.
	KindUnknown Kind = iota

	// InvalidDataSize is returned when a byte buffer does not have the
	// exact length a type requires.
	InvalidDataSize

	// InvalidFormat is returned when input is structurally malformed.
	InvalidFormat

	// InvalidCharacter is returned when a string contains a character
	// outside the encoding's alphabet.
	InvalidCharacter

	// OddLength is returned when a base16 string has an odd number of
	// characters.
	OddLength

	// MissingSeparator is returned when a bech32 string has no usable
	// prefix separator.
	MissingSeparator

	// ChecksumMismatch is returned when an embedded checksum does not
	// match the payload.
	ChecksumMismatch

	// PrecisionExceeded is returned when a decimal amount has more
	// fractional digits than the configured decimal places allow.
	PrecisionExceeded

	// UnsupportedLanguage is returned when no mnemonic dictionary exists
	// for a language.
	UnsupportedLanguage

	// InvalidSeedSize is returned when mnemonic entropy or an HD seed has
	// a length that is not permitted.
	InvalidSeedSize

	// SeedTooShort is returned when an HD seed is shorter than the
	// minimum seed size.
	SeedTooShort

	// VersionMismatch is returned when an extended key's version bytes
	// match neither the public nor private version of a network.
	VersionMismatch

	// InvalidPoint is returned when public key bytes do not describe a
	// point on the curve.
	InvalidPoint

	// InvalidPrivateKey is returned when a private scalar is zero or not
	// below the curve order.
	InvalidPrivateKey

	// PrivateKeyRequired is returned when an operation needs private key
	// material but was handed a public extended key.
	PrivateKeyRequired

	// HardenedDerivationRequiresPrivateKey is returned when hardened
	// child derivation is requested from a public extended key.
	HardenedDerivationRequiresPrivateKey

	// InvalidChildKey is returned for the BIP32 case where a derived
	// child scalar or point is invalid. The caller should move on to the
	// next index.
	InvalidChildKey

	// InvalidExtendedKeyFormat is returned when an extended key string
	// cannot be decoded.
	InvalidExtendedKeyFormat

	// InvalidDerivationPath is returned when a textual derivation path
	// cannot be parsed.
	InvalidDerivationPath
)

var kindNames = map[Kind]string{
	KindUnknown:                          "unknown error",
	InvalidDataSize:                      "invalid data size",
	InvalidFormat:                        "invalid format",
	InvalidCharacter:                     "invalid character",
	OddLength:                            "odd length",
	MissingSeparator:                     "missing separator",
	ChecksumMismatch:                     "checksum mismatch",
	PrecisionExceeded:                    "precision exceeded",
	UnsupportedLanguage:                  "unsupported language",
	InvalidSeedSize:                      "invalid seed size",
	SeedTooShort:                         "seed too short",
	VersionMismatch:                      "version mismatch",
	InvalidPoint:                         "invalid point",
	InvalidPrivateKey:                    "invalid private key",
	PrivateKeyRequired:                   "private key required",
	HardenedDerivationRequiresPrivateKey: "hardened derivation requires private key",
	InvalidChildKey:                      "invalid child key",
	InvalidExtendedKeyFormat:             "invalid extended key format",
	InvalidDerivationPath:                "invalid derivation path",
}

// String returns a human readable description of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the structured error returned by btckit operations.
type Error struct {
	// Kind is the stable failure category.
	Kind Kind

	// Op names the operation that failed, e.g. "codec.DecodeBase16".
	Op string

	// Detail is an optional human readable elaboration.
	Detail string

	// Cause is the underlying error reported by a library, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Cause
}

// Is reports whether target is a *Error of the same kind. Op, Detail and
// Cause are ignored so that the package sentinels match any error of their
// kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}

	return e.Kind == t.Kind
}

// New returns an error of the given kind raised by op.
func New(op string, kind Kind) error {
	return &Error{Kind: kind, Op: op}
}

// Errorf returns an error of the given kind with a formatted detail.
func Errorf(op string, kind Kind, format string, args ...interface{}) error {
	return &Error{
		Kind:   kind,
		Op:     op,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an error of the given kind that wraps cause.
func Wrap(op string, kind Kind, cause error) error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown if err is not (and does not
// wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}

	return e.Kind
}

// IsKind reports whether err is, or wraps, an error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Sentinels for errors.Is comparisons, one per kind.
var (
	ErrInvalidDataSize          = &Error{Kind: InvalidDataSize}
	ErrInvalidFormat            = &Error{Kind: InvalidFormat}
	ErrInvalidCharacter         = &Error{Kind: InvalidCharacter}
	ErrOddLength                = &Error{Kind: OddLength}
	ErrMissingSeparator         = &Error{Kind: MissingSeparator}
	ErrChecksumMismatch         = &Error{Kind: ChecksumMismatch}
	ErrPrecisionExceeded        = &Error{Kind: PrecisionExceeded}
	ErrUnsupportedLanguage      = &Error{Kind: UnsupportedLanguage}
	ErrInvalidSeedSize          = &Error{Kind: InvalidSeedSize}
	ErrSeedTooShort             = &Error{Kind: SeedTooShort}
	ErrVersionMismatch          = &Error{Kind: VersionMismatch}
	ErrInvalidPoint             = &Error{Kind: InvalidPoint}
	ErrInvalidPrivateKey        = &Error{Kind: InvalidPrivateKey}
	ErrPrivateKeyRequired       = &Error{Kind: PrivateKeyRequired}
	ErrInvalidChildKey          = &Error{Kind: InvalidChildKey}
	ErrInvalidExtendedKeyFormat = &Error{Kind: InvalidExtendedKeyFormat}
	ErrInvalidDerivationPath    = &Error{Kind: InvalidDerivationPath}

	ErrHardenedDerivationRequiresPrivateKey = &Error{
		Kind: HardenedDerivationRequiresPrivateKey,
	}
)
