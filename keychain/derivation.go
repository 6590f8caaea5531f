package keychain

import (
	"fmt"

	"github.com/blockchaincommons/btckit/eckey"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	// BIP0044Purpose is the purpose of legacy pay-to-pubkey-hash wallets.
	BIP0044Purpose uint32 = 44

	// BIP0049Purpose is the purpose of nested segwit wallets.
	BIP0049Purpose uint32 = 49

	// BIP0084Purpose is the purpose of native segwit wallets.
	BIP0084Purpose uint32 = 84
)

// Branch selects one of the two chains below an account.
//
// The key derivation in this package follows the BIP43 hierarchy:
//
//   - m/purpose'/coinType'/account'/branch/index
type Branch uint32

const (
	// ExternalBranch holds the receiving addresses handed out to others.
	ExternalBranch Branch = 0

	// InternalBranch holds change addresses.
	InternalBranch Branch = 1
)

// String returns a human readable name of the branch.
func (b Branch) String() string {
	switch b {
	case ExternalBranch:
		return "external"
	case InternalBranch:
		return "internal"
	default:
		return fmt.Sprintf("branch(%d)", uint32(b))
	}
}

// KeyLocator is a five-tuple that can be used to derive *any* key that has
// ever been used under the key derivation scheme described in this file.
// Purpose, coin type and account are hardened, branch and index are not.
type KeyLocator struct {
	// Purpose is the BIP43 purpose of the wallet the key belongs to.
	Purpose uint32

	// CoinType identifies the chain the key is used on.
	CoinType uint32

	// Account is the account index below the coin type.
	Account uint32

	// Branch is the external or internal chain of the account.
	Branch Branch

	// Index is the precise index of the key being identified.
	Index uint32
}

// Path returns the derivation path the locator points at. A component at or
// above hdkey.HardenedKeyStart fails with InvalidFormat.
func (k KeyLocator) Path() (hdkey.Path, error) {
	path, err := k.AccountPath()
	if err != nil {
		return nil, err
	}

	path, err = path.Child(uint32(k.Branch), false)
	if err != nil {
		return nil, err
	}

	return path.Child(k.Index, false)
}

// AccountPath returns the hardened path of the locator's account.
func (k KeyLocator) AccountPath() (hdkey.Path, error) {
	path := hdkey.Path{}
	for _, index := range []uint32{k.Purpose, k.CoinType, k.Account} {
		var err error
		path, err = path.Child(index, true)
		if err != nil {
			return nil, err
		}
	}

	return path, nil
}

// String returns the derivation path of the locator.
func (k KeyLocator) String() string {
	path, err := k.Path()
	if err != nil {
		return fmt.Sprintf("invalid(%d/%d/%d/%d/%d)", k.Purpose,
			k.CoinType, k.Account, uint32(k.Branch), k.Index)
	}

	return path.String()
}

// KeyDescriptor pairs a KeyLocator with the public key found at it.
type KeyDescriptor struct {
	// KeyLocator is the internal KeyLocator of the descriptor.
	KeyLocator

	// PubKey is the compressed public key found at the locator.
	PubKey eckey.PublicKey
}

// KeyRing is the primary interface that will be used to perform public
// derivation of various keys used within the wallet. Keys are only ever
// identified by their locator, so the whole ring can be restored from the
// master seed.
type KeyRing interface {
	// DeriveKey attempts to derive an arbitrary key specified by the
	// passed KeyLocator. This may be used in several recovery scenarios,
	// or when manually rotating something like our current default node
	// key.
	DeriveKey(keyLoc KeyLocator) (KeyDescriptor, error)

	// DeriveAccountKey returns the extended public key of the account
	// the locator belongs to. Branch and index are ignored.
	DeriveAccountKey(keyLoc KeyLocator) (hdkey.ExtendedKey, error)

	// DeriveAddress returns the pay-to-pubkey-hash address of the key
	// at the locator.
	DeriveAddress(keyLoc KeyLocator) (string, error)
}

// SecretKeyRing is a ring similar to the regular KeyRing interface, but it is
// also able to derive *private keys*. As this is a super-set of the regular
// KeyRing, we also expect the SecretKeyRing to implement the fully KeyRing
// interface.
type SecretKeyRing interface {
	KeyRing

	ECDHRing

	MessageSignerRing

	// DerivePrivKey attempts to derive the private key that corresponds
	// to the passed key locator.
	DerivePrivKey(keyLoc KeyLocator) (eckey.PrivateKey, error)
}

// MessageSignerRing is an interface that abstracts away basic low-level ECDSA
// signing on keys within a key ring.
type MessageSignerRing interface {
	// SignMessage signs the given message, single or double SHA256
	// hashing it first, with the private key described in the key
	// locator.
	SignMessage(keyLoc KeyLocator, msg []byte,
		doubleHash bool) (*ecdsa.Signature, error)

	// SignMessageCompact signs the given message, single or double SHA256
	// hashing it first, with the private key described in the key
	// locator and returns the signature in the compact, public key
	// recoverable format.
	SignMessageCompact(keyLoc KeyLocator, msg []byte,
		doubleHash bool) ([]byte, error)
}

// ECDHRing is an interface that abstracts away basic low-level ECDH shared key
// generation on keys within a key ring.
type ECDHRing interface {
	// ECDH performs a scalar multiplication (ECDH-like operation) between
	// the target key descriptor and remote public key. The output
	// returned will be the sha256 of the resulting shared point serialized
	// in compressed format. If k is our private key, and P is the public
	// key, we perform the following operation:
	//
	//  sx := k*P
	//  s := sha256(sx.SerializeCompressed())
	ECDH(keyLoc KeyLocator, pubKey eckey.PublicKey) ([32]byte, error)
}
