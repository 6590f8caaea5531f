package eckey

import (
	"errors"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Payment address version bytes.
const (
	MainnetP2KH byte = 0x00
	MainnetP2SH byte = 0x05
	TestnetP2KH byte = 0x6f
	TestnetP2SH byte = 0xc4
)

// AddressVersionFor returns the pay-to-pubkey-hash or pay-to-script-hash
// version byte of a network.
func AddressVersionFor(params *chaincfg.Params, scriptHash bool) byte {
	if scriptHash {
		return params.ScriptHashAddrID
	}

	return params.PubKeyHashAddrID
}

// ToPaymentAddress returns base58Check(version || Hash160(pub)).
func ToPaymentAddress(pub PublicKey, version byte) string {
	hash := pub.Hash160()

	return codec.EncodeBase58CheckVersion(version, hash[:])
}

// PaymentAddressFor returns the pay-to-pubkey-hash address of pub on the
// given network.
func PaymentAddressFor(pub PublicKey, params *chaincfg.Params) (string,
	error) {

	hash := pub.Hash160()
	addr, err := btcutil.NewAddressPubKeyHash(hash[:], params)
	if err != nil {
		return "", btcerr.Wrap(
			"eckey.PaymentAddressFor", btcerr.InvalidFormat, err,
		)
	}

	return addr.EncodeAddress(), nil
}

// ParsePaymentAddress splits a base58Check payment address into its version
// byte and 20-byte hash.
func ParsePaymentAddress(addr string) (byte, digest.ShortDigest, error) {
	version, payload, err := codec.DecodeBase58CheckVersion(addr)
	if err != nil {
		return 0, digest.ShortDigest{}, err
	}

	hash, err := digest.ShortFromBytes(payload)
	if err != nil {
		return 0, digest.ShortDigest{}, err
	}

	return version, hash, nil
}

// EncodeWIF returns the wallet import format of priv for the given network.
// compressPub records whether addresses for the key use the compressed
// public key.
func EncodeWIF(priv PrivateKey, params *chaincfg.Params,
	compressPub bool) (string, error) {

	key, err := priv.BTCEC()
	if err != nil {
		return "", err
	}

	wif, err := btcutil.NewWIF(key, params, compressPub)
	if err != nil {
		return "", btcerr.Wrap(
			"eckey.EncodeWIF", btcerr.InvalidFormat, err,
		)
	}

	return wif.String(), nil
}

// DecodeWIF parses a wallet import format string for the given network and
// reports whether it asks for the compressed public key. A key for another
// network fails with VersionMismatch.
func DecodeWIF(s string, params *chaincfg.Params) (PrivateKey, bool, error) {
	const op = "eckey.DecodeWIF"

	if !codec.IsBase58(s) {
		return PrivateKey{}, false, btcerr.New(op, btcerr.InvalidCharacter)
	}

	wif, err := btcutil.DecodeWIF(s)
	switch {
	case errors.Is(err, btcutil.ErrChecksumMismatch):
		return PrivateKey{}, false, btcerr.Wrap(
			op, btcerr.ChecksumMismatch, err,
		)

	case err != nil:
		return PrivateKey{}, false, btcerr.Wrap(
			op, btcerr.InvalidFormat, err,
		)
	}

	if !wif.IsForNet(params) {
		return PrivateKey{}, false, btcerr.Errorf(
			op, btcerr.VersionMismatch, "key is not for %v",
			params.Name,
		)
	}

	priv, err := NewPrivateKeyFromBTCEC(wif.PrivKey)
	if err != nil {
		return PrivateKey{}, false, err
	}

	return priv, wif.CompressPubKey, nil
}
