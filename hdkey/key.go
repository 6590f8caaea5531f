// Package hdkey implements BIP32 hierarchical deterministic keys on top of
// btcutil's hdkeychain. Extended keys are carried as their base58Check
// strings, so every key is an immutable value and no derivation state is
// kept between calls.
package hdkey

import (
	"encoding/binary"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/eckey"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	// MinSeedSize is the shortest seed accepted by NewMaster.
	MinSeedSize = hdkeychain.MinSeedBytes

	// MaxSeedSize is the longest seed accepted by NewMaster.
	MaxSeedSize = hdkeychain.MaxSeedBytes

	// HardenedKeyStart is the first hardened child index.
	HardenedKeyStart = hdkeychain.HardenedKeyStart

	// ChainCodeSize is the length of a chain code.
	ChainCodeSize = 32

	// serializedKeySize is the length of the record behind an extended
	// key string: version(4) depth(1) parent fingerprint(4) child
	// index(4) chain code(32) key data(33).
	serializedKeySize = 78
)

// ExtendedKey is the base58Check serialization of a BIP32 extended key.
type ExtendedKey string

// String returns the serialized key.
func (k ExtendedKey) String() string {
	return string(k)
}

// decode parses the key into its hdkeychain form.
func (k ExtendedKey) decode(op string) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewKeyFromString(string(k))
	if err != nil {
		return nil, keychainError(op, err)
	}

	// hdkeychain decides privacy from the key data alone, so a known
	// version must agree with it.
	for _, net := range knownNetworks {
		if err := checkTag(op, key, net); err != nil {
			return nil, err
		}
	}

	return key, nil
}

// checkTag rejects a key whose version is a private or public version of
// net while its key data is of the other kind.
func checkTag(op string, key *hdkeychain.ExtendedKey, net Network) error {
	private, ok := net.matches(key.Version())
	if !ok || private == key.IsPrivate() {
		return nil
	}

	return btcerr.Errorf(
		op, btcerr.InvalidExtendedKeyFormat, "%v version %x does not "+
			"match private=%v key data", net, key.Version(),
		key.IsPrivate(),
	)
}

// Parse validates an extended key string: its checksum, its length and its
// key material.
func Parse(s string) (ExtendedKey, error) {
	k := ExtendedKey(s)
	if _, err := k.decode("hdkey.Parse"); err != nil {
		return "", err
	}

	return k, nil
}

// decodeFor parses the key and checks its version against net. It reports
// whether the key is private.
func (k ExtendedKey) decodeFor(op string,
	net Network) (*hdkeychain.ExtendedKey, bool, error) {

	key, err := k.decode(op)
	if err != nil {
		return nil, false, err
	}

	private, ok := net.matches(key.Version())
	if !ok {
		return nil, false, btcerr.Errorf(
			op, btcerr.VersionMismatch, "version %x is not a %v "+
				"extended key version", key.Version(), net,
		)
	}
	if err := checkTag(op, key, net); err != nil {
		return nil, false, err
	}

	return key, private, nil
}

// NewMaster derives the master extended private key of a seed: HMAC-SHA512
// keyed with "Bitcoin seed" split into the master scalar and chain code.
// Seeds shorter than MinSeedSize fail with SeedTooShort, seeds longer than
// MaxSeedSize with InvalidSeedSize.
func NewMaster(seed []byte, net Network) (ExtendedKey, error) {
	const op = "hdkey.NewMaster"

	switch {
	case len(seed) < MinSeedSize:
		return "", btcerr.Errorf(
			op, btcerr.SeedTooShort, "got %d bytes, want at least "+
				"%d", len(seed), MinSeedSize,
		)

	case len(seed) > MaxSeedSize:
		return "", btcerr.Errorf(
			op, btcerr.InvalidSeedSize, "got %d bytes, want at most "+
				"%d", len(seed), MaxSeedSize,
		)
	}

	master, err := hdkeychain.NewMaster(seed, net.Params)
	if err != nil {
		return "", keychainError(op, err)
	}

	log.Debugf("Created %v master key", net)

	return ExtendedKey(master.String()), nil
}

// ToPublicKey strips the private material of an extended private key and
// swaps in the network's public version. Public keys fail with
// PrivateKeyRequired; keys of other networks with VersionMismatch.
func ToPublicKey(k ExtendedKey, net Network) (ExtendedKey, error) {
	const op = "hdkey.ToPublicKey"

	key, private, err := k.decodeFor(op, net)
	if err != nil {
		return "", err
	}
	if !private {
		return "", btcerr.Errorf(
			op, btcerr.PrivateKeyRequired, "key is already public",
		)
	}

	pub, err := key.Neuter()
	if err != nil {
		return "", keychainError(op, err)
	}

	return ExtendedKey(pub.String()), nil
}

// ToECKey extracts the key material of an extended key: an
// eckey.PrivateKey for private versions, a compressed eckey.PublicKey for
// public ones. Versions of neither kind fail with VersionMismatch.
func ToECKey(k ExtendedKey, net Network) (eckey.Key, error) {
	const op = "hdkey.ToECKey"

	key, private, err := k.decodeFor(op, net)
	if err != nil {
		return nil, err
	}

	if private {
		priv, err := key.ECPrivKey()
		if err != nil {
			return nil, keychainError(op, err)
		}

		return eckey.NewPrivateKeyFromBTCEC(priv)
	}

	pub, err := key.ECPubKey()
	if err != nil {
		return nil, keychainError(op, err)
	}

	return eckey.NewPublicKeyFromBTCEC(pub, true), nil
}

// KeyInfo holds the fields of the serialized extended key record.
type KeyInfo struct {
	// Version is the four byte version prefix.
	Version [4]byte

	// Depth is 0 for master keys and grows by one per derivation.
	Depth uint8

	// ParentFingerprint is the first four bytes of the Hash160 of the
	// parent public key, zero for master keys.
	ParentFingerprint uint32

	// ChildIndex is the index the key was derived at, including the
	// hardened offset.
	ChildIndex uint32

	// ChainCode is the chain code of the key.
	ChainCode [ChainCodeSize]byte

	// Private is true for extended private keys.
	Private bool
}

// Hardened reports whether the key was derived at a hardened index.
func (i KeyInfo) Hardened() bool {
	return i.ChildIndex >= HardenedKeyStart
}

// Info decodes the fields of an extended key.
func Info(k ExtendedKey) (KeyInfo, error) {
	const op = "hdkey.Info"

	if _, err := k.decode(op); err != nil {
		return KeyInfo{}, err
	}

	record, err := codec.DecodeBase58Check(string(k))
	if err != nil {
		return KeyInfo{}, btcerr.Wrap(
			op, btcerr.InvalidExtendedKeyFormat, err,
		)
	}
	if len(record) != serializedKeySize {
		return KeyInfo{}, btcerr.Errorf(
			op, btcerr.InvalidExtendedKeyFormat, "record is %d "+
				"bytes, want %d", len(record), serializedKeySize,
		)
	}

	info := KeyInfo{
		Depth:             record[4],
		ParentFingerprint: binary.BigEndian.Uint32(record[5:9]),
		ChildIndex:        binary.BigEndian.Uint32(record[9:13]),
		Private:           record[45] == 0x00,
	}
	copy(info.Version[:], record[0:4])
	copy(info.ChainCode[:], record[13:45])

	return info, nil
}

// Fingerprint returns the first four bytes of the Hash160 of the key's
// public key, the value its children carry as their parent fingerprint.
func Fingerprint(k ExtendedKey) (uint32, error) {
	const op = "hdkey.Fingerprint"

	key, err := k.decode(op)
	if err != nil {
		return 0, err
	}

	pub, err := key.ECPubKey()
	if err != nil {
		return 0, keychainError(op, err)
	}
	hash := eckey.NewPublicKeyFromBTCEC(pub, true).Hash160()

	return binary.BigEndian.Uint32(hash[:4]), nil
}
