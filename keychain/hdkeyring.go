package keychain

import (
	"sync"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/blockchaincommons/btckit/eckey"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// HDKeyRing is an implementation of both the KeyRing and SecretKeyRing
// interfaces backed by a single BIP32 master private key. Account keys are
// cached after their first derivation since the hardened levels dominate the
// cost of each lookup.
type HDKeyRing struct {
	master hdkey.ExtendedKey
	net    hdkey.Network

	// accounts maps an account path to its extended private key.
	accounts map[string]hdkey.ExtendedKey

	sync.RWMutex
}

// A compile time check to ensure HDKeyRing implements the SecretKeyRing
// interface.
var _ SecretKeyRing = (*HDKeyRing)(nil)

// NewHDKeyRing creates a new key ring from an extended private master key of
// the given network.
func NewHDKeyRing(master hdkey.ExtendedKey,
	net hdkey.Network) (*HDKeyRing, error) {

	const op = "keychain.NewHDKeyRing"

	key, err := hdkey.ToECKey(master, net)
	if err != nil {
		return nil, err
	}
	if !key.IsPrivate() {
		return nil, btcerr.Errorf(
			op, btcerr.PrivateKeyRequired, "key ring needs an "+
				"extended private key",
		)
	}

	return &HDKeyRing{
		master:   master,
		net:      net,
		accounts: make(map[string]hdkey.ExtendedKey),
	}, nil
}

// Network returns the network the ring derives keys for.
func (r *HDKeyRing) Network() hdkey.Network {
	return r.net
}

// Locator returns the locator of a key of this ring's network.
func (r *HDKeyRing) Locator(purpose, account uint32, branch Branch,
	index uint32) KeyLocator {

	return KeyLocator{
		Purpose:  purpose,
		CoinType: r.net.CoinType(),
		Account:  account,
		Branch:   branch,
		Index:    index,
	}
}

// accountKey returns the extended private key of the locator's account,
// deriving and caching it on first use.
func (r *HDKeyRing) accountKey(keyLoc KeyLocator) (hdkey.ExtendedKey, error) {
	// The full path is checked so that an out of range branch or index
	// fails before any derivation.
	if _, err := keyLoc.Path(); err != nil {
		return "", err
	}

	path, err := keyLoc.AccountPath()
	if err != nil {
		return "", err
	}
	id := path.String()

	r.RLock()
	key, ok := r.accounts[id]
	r.RUnlock()
	if ok {
		return key, nil
	}

	key, err = hdkey.DerivePath(r.master, path)
	if err != nil {
		return "", err
	}

	r.Lock()
	r.accounts[id] = key
	r.Unlock()

	log.Debugf("Cached account key %v", id)

	return key, nil
}

// derivePrivKey derives the extended private key at the locator.
func (r *HDKeyRing) derivePrivKey(keyLoc KeyLocator) (eckey.PrivateKey,
	error) {

	account, err := r.accountKey(keyLoc)
	if err != nil {
		return eckey.PrivateKey{}, err
	}

	branch, err := hdkey.DerivePrivateKey(
		account, uint32(keyLoc.Branch), false,
	)
	if err != nil {
		return eckey.PrivateKey{}, err
	}

	child, err := hdkey.DerivePrivateKey(branch, keyLoc.Index, false)
	if err != nil {
		return eckey.PrivateKey{}, err
	}

	key, err := hdkey.ToECKey(child, r.net)
	if err != nil {
		return eckey.PrivateKey{}, err
	}

	return key.(eckey.PrivateKey), nil
}

// DeriveKey attempts to derive an arbitrary key specified by the passed
// KeyLocator.
//
// NOTE: This is part of the keychain.KeyRing interface.
func (r *HDKeyRing) DeriveKey(keyLoc KeyLocator) (KeyDescriptor, error) {
	priv, err := r.derivePrivKey(keyLoc)
	if err != nil {
		return KeyDescriptor{}, err
	}

	pub, err := eckey.DeriveCompressedPublicKey(priv)
	if err != nil {
		return KeyDescriptor{}, err
	}

	return KeyDescriptor{
		KeyLocator: keyLoc,
		PubKey:     pub,
	}, nil
}

// DeriveAccountKey returns the extended public key of the locator's
// account. Wallets hand this key out to watch the account without being able
// to spend from it.
//
// NOTE: This is part of the keychain.KeyRing interface.
func (r *HDKeyRing) DeriveAccountKey(keyLoc KeyLocator) (hdkey.ExtendedKey,
	error) {

	account, err := r.accountKey(keyLoc)
	if err != nil {
		return "", err
	}

	return hdkey.ToPublicKey(account, r.net)
}

// DeriveAddress returns the pay-to-pubkey-hash address of the key at the
// locator.
//
// NOTE: This is part of the keychain.KeyRing interface.
func (r *HDKeyRing) DeriveAddress(keyLoc KeyLocator) (string, error) {
	desc, err := r.DeriveKey(keyLoc)
	if err != nil {
		return "", err
	}

	return eckey.PaymentAddressFor(desc.PubKey, r.net.Params)
}

// DerivePrivKey attempts to derive the private key that corresponds to the
// passed key locator.
//
// NOTE: This is part of the keychain.SecretKeyRing interface.
func (r *HDKeyRing) DerivePrivKey(keyLoc KeyLocator) (eckey.PrivateKey,
	error) {

	return r.derivePrivKey(keyLoc)
}

// btcecKey derives the private key at the locator as a btcec key.
func (r *HDKeyRing) btcecKey(keyLoc KeyLocator) (*btcec.PrivateKey, error) {
	priv, err := r.derivePrivKey(keyLoc)
	if err != nil {
		return nil, err
	}

	return priv.BTCEC()
}

// ECDH performs a scalar multiplication (ECDH-like operation) between the
// key at the locator and a remote public key. The output returned will be
// the sha256 of the resulting shared point serialized in compressed format.
//
// NOTE: This is part of the keychain.ECDHRing interface.
func (r *HDKeyRing) ECDH(keyLoc KeyLocator,
	pubKey eckey.PublicKey) ([32]byte, error) {

	privKey, err := r.btcecKey(keyLoc)
	if err != nil {
		return [32]byte{}, err
	}

	pub, err := pubKey.BTCEC()
	if err != nil {
		return [32]byte{}, err
	}

	var (
		pubJacobian btcec.JacobianPoint
		s           btcec.JacobianPoint
	)
	pub.AsJacobian(&pubJacobian)

	btcec.ScalarMultNonConst(&privKey.Key, &pubJacobian, &s)
	s.ToAffine()
	sPubKey := btcec.NewPublicKey(&s.X, &s.Y)

	return digest.Sha256(sPubKey.SerializeCompressed()), nil
}

// messageDigest hashes msg once or twice with SHA256.
func messageDigest(msg []byte, doubleHash bool) digest.Digest {
	if doubleHash {
		return digest.DoubleSha256(msg)
	}

	return digest.Sha256(msg)
}

// SignMessage signs the given message, single or double SHA256 hashing it
// first, with the private key at the locator.
//
// NOTE: This is part of the keychain.MessageSignerRing interface.
func (r *HDKeyRing) SignMessage(keyLoc KeyLocator, msg []byte,
	doubleHash bool) (*ecdsa.Signature, error) {

	privKey, err := r.btcecKey(keyLoc)
	if err != nil {
		return nil, err
	}

	hash := messageDigest(msg, doubleHash)

	return ecdsa.Sign(privKey, hash[:]), nil
}

// SignMessageCompact signs the given message, single or double SHA256
// hashing it first, with the private key at the locator and returns the
// signature in the compact, public key recoverable format.
//
// NOTE: This is part of the keychain.MessageSignerRing interface.
func (r *HDKeyRing) SignMessageCompact(keyLoc KeyLocator, msg []byte,
	doubleHash bool) ([]byte, error) {

	privKey, err := r.btcecKey(keyLoc)
	if err != nil {
		return nil, err
	}

	hash := messageDigest(msg, doubleHash)

	return ecdsa.SignCompact(privKey, hash[:], true), nil
}
