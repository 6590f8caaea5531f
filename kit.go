// Package btckit bundles the Bitcoin primitives of its sub-packages behind a
// single configured entry point: mnemonics, HD keys, key rings, payment
// addresses and amounts all use the network, language and units of one
// btcfg.Config.
package btckit

import (
	"github.com/blockchaincommons/btckit/btcfg"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/eckey"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/blockchaincommons/btckit/keychain"
	"github.com/blockchaincommons/btckit/mnemonic"
)

// Kit applies a validated configuration to the primitives. A Kit holds no
// mutable state and is safe for concurrent use.
type Kit struct {
	cfg *btcfg.Config

	net    hdkey.Network
	lang   mnemonic.Language
	places uint8
}

// NewKit validates cfg and returns a kit bound to it.
func NewKit(cfg *btcfg.Config) (*Kit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate already checked each of these.
	net, _ := cfg.HDNetwork()
	lang, _ := cfg.MnemonicLanguage()
	places, _ := cfg.DecimalPlaces()

	log.Debugf("Kit configured for %v, language %v, %d decimal places",
		net, lang, places)

	return &Kit{
		cfg:    cfg,
		net:    net,
		lang:   lang,
		places: places,
	}, nil
}

// Config returns the configuration the kit was built from.
func (k *Kit) Config() *btcfg.Config {
	return k.cfg
}

// Network returns the configured network.
func (k *Kit) Network() hdkey.Network {
	return k.net
}

// Language returns the configured mnemonic language.
func (k *Kit) Language() mnemonic.Language {
	return k.lang
}

// NewMnemonic encodes entropy as a mnemonic of the configured language.
func (k *Kit) NewMnemonic(entropy []byte) (mnemonic.Mnemonic, error) {
	return mnemonic.New(entropy, k.lang)
}

// MnemonicToSeed stretches a mnemonic of the configured language into a
// 64-byte seed.
func (k *Kit) MnemonicToSeed(m mnemonic.Mnemonic,
	passphrase string) ([]byte, error) {

	return mnemonic.ToSeed(m, k.lang, passphrase)
}

// NewMasterKey derives the master extended private key of a seed on the
// configured network.
func (k *Kit) NewMasterKey(seed []byte) (hdkey.ExtendedKey, error) {
	return hdkey.NewMaster(seed, k.net)
}

// NewKeyRing returns a key ring over a master extended private key of the
// configured network.
func (k *Kit) NewKeyRing(master hdkey.ExtendedKey) (*keychain.HDKeyRing,
	error) {

	return keychain.NewHDKeyRing(master, k.net)
}

// PaymentAddress returns the pay-to-pubkey-hash address of pub on the
// configured network.
func (k *Kit) PaymentAddress(pub eckey.PublicKey) (string, error) {
	return eckey.PaymentAddressFor(pub, k.net.Params)
}

// FormatAmount renders a satoshi amount in the configured units.
func (k *Kit) FormatAmount(satoshis uint64) string {
	return codec.EncodeBase10Decimal(satoshis, k.places)
}

// ParseAmount parses an amount in the configured units into satoshis.
// Amounts finer than a satoshi fail with PrecisionExceeded.
func (k *Kit) ParseAmount(s string) (uint64, error) {
	return codec.DecodeBase10Decimal(s, k.places)
}
