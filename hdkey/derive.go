package hdkey

import (
	"github.com/blockchaincommons/btckit/btcerr"
)

// childIndex maps an index in [0, 2^31) into the hardened or normal range.
func childIndex(op string, index uint32, hardened bool) (uint32, error) {
	if index >= HardenedKeyStart {
		return 0, btcerr.Errorf(
			op, btcerr.InvalidFormat, "index %d is not below %d, "+
				"use the hardened flag instead", index,
			HardenedKeyStart,
		)
	}

	if hardened {
		return index + HardenedKeyStart, nil
	}

	return index, nil
}

// DerivePrivateKey derives the private child of an extended private key.
// Hardened children hash the parent scalar, normal children the parent
// public key. A public parent fails with
// HardenedDerivationRequiresPrivateKey for hardened children and with
// PrivateKeyRequired otherwise. A child scalar outside the curve order
// fails with InvalidChildKey; callers move on to the next index.
func DerivePrivateKey(parent ExtendedKey, index uint32,
	hardened bool) (ExtendedKey, error) {

	const op = "hdkey.DerivePrivateKey"

	i, err := childIndex(op, index, hardened)
	if err != nil {
		return "", err
	}

	key, err := parent.decode(op)
	if err != nil {
		return "", err
	}

	if !key.IsPrivate() {
		kind := btcerr.PrivateKeyRequired
		if hardened {
			kind = btcerr.HardenedDerivationRequiresPrivateKey
		}

		return "", btcerr.Errorf(
			op, kind, "parent is an extended public key",
		)
	}

	child, err := key.Derive(i)
	if err != nil {
		return "", keychainError(op, err)
	}

	log.Tracef("Derived private child %d (hardened=%v) at depth %d",
		index, hardened, child.Depth())

	return ExtendedKey(child.String()), nil
}

// DerivePublicKey derives the public child of an extended key of network
// net. A private parent is derived privately and then neutered, so hardened
// children are reachable; a public parent only yields normal children.
func DerivePublicKey(parent ExtendedKey, index uint32, hardened bool,
	net Network) (ExtendedKey, error) {

	const op = "hdkey.DerivePublicKey"

	i, err := childIndex(op, index, hardened)
	if err != nil {
		return "", err
	}

	key, _, err := parent.decodeFor(op, net)
	if err != nil {
		return "", err
	}

	child, err := key.Derive(i)
	if err != nil {
		return "", keychainError(op, err)
	}

	if child.IsPrivate() {
		child, err = child.Neuter()
		if err != nil {
			return "", keychainError(op, err)
		}
	}

	log.Tracef("Derived public child %d (hardened=%v) at depth %d",
		index, hardened, child.Depth())

	return ExtendedKey(child.String()), nil
}

// DerivePath walks path from k. Private keys yield private descendants,
// public keys public ones; a hardened step below a public key fails with
// HardenedDerivationRequiresPrivateKey.
func DerivePath(k ExtendedKey, path Path) (ExtendedKey, error) {
	const op = "hdkey.DerivePath"

	key, err := k.decode(op)
	if err != nil {
		return "", err
	}

	for _, i := range path {
		key, err = key.Derive(i)
		if err != nil {
			return "", keychainError(op, err)
		}
	}

	log.Debugf("Derived key at %v", path)

	return ExtendedKey(key.String()), nil
}
