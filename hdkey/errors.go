package hdkey

import (
	"errors"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// keychainError maps an hdkeychain error onto the error kinds of this
// module.
func keychainError(op string, err error) error {
	switch {
	case errors.Is(err, hdkeychain.ErrDeriveHardFromPublic):
		return btcerr.Wrap(
			op, btcerr.HardenedDerivationRequiresPrivateKey, err,
		)

	case errors.Is(err, hdkeychain.ErrInvalidChild):
		return btcerr.Wrap(op, btcerr.InvalidChildKey, err)

	case errors.Is(err, hdkeychain.ErrUnusableSeed):
		return btcerr.Wrap(op, btcerr.InvalidPrivateKey, err)

	case errors.Is(err, hdkeychain.ErrInvalidSeedLen):
		return btcerr.Wrap(op, btcerr.InvalidSeedSize, err)

	case errors.Is(err, hdkeychain.ErrDeriveBeyondMaxDepth):
		return btcerr.Wrap(op, btcerr.InvalidFormat, err)

	case errors.Is(err, hdkeychain.ErrNotPrivExtKey):
		return btcerr.Wrap(op, btcerr.PrivateKeyRequired, err)

	default:
		return btcerr.Wrap(op, btcerr.InvalidExtendedKeyFormat, err)
	}
}
