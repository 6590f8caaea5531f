package hdkey

import (
	"bytes"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/btcsuite/btcd/chaincfg"
)

// Network binds extended key version bytes to a chain. The version bytes,
// coin type and address versions all come from the chain parameters.
type Network struct {
	// Params are the chain parameters of the network.
	Params *chaincfg.Params
}

var (
	// Mainnet uses xprv/xpub extended keys and coin type 0.
	Mainnet = Network{Params: &chaincfg.MainNetParams}

	// Testnet uses tprv/tpub extended keys and coin type 1.
	Testnet = Network{Params: &chaincfg.TestNet3Params}

	// knownNetworks are the networks whose versions every decoded key
	// is checked against.
	knownNetworks = []Network{Mainnet, Testnet}
)

// NetworkByName returns the network with the given name, "mainnet" or
// "testnet".
func NetworkByName(name string) (Network, error) {
	const op = "hdkey.NetworkByName"

	switch name {
	case "mainnet":
		return Mainnet, nil

	case "testnet", "testnet3":
		return Testnet, nil

	default:
		return Network{}, btcerr.Errorf(
			op, btcerr.InvalidFormat, "unknown network: %v", name,
		)
	}
}

// Name returns the chain name.
func (n Network) Name() string {
	return n.Params.Name
}

// PrivateVersion returns the version prefix of extended private keys.
func (n Network) PrivateVersion() [4]byte {
	return n.Params.HDPrivateKeyID
}

// PublicVersion returns the version prefix of extended public keys.
func (n Network) PublicVersion() [4]byte {
	return n.Params.HDPublicKeyID
}

// CoinType returns the BIP44 coin type of the network.
func (n Network) CoinType() uint32 {
	return n.Params.HDCoinType
}

// String returns the chain name.
func (n Network) String() string {
	return n.Name()
}

// matches reports whether version is one of the network's extended key
// versions, and which.
func (n Network) matches(version []byte) (private, ok bool) {
	priv := n.PrivateVersion()
	pub := n.PublicVersion()

	switch {
	case bytes.Equal(version, priv[:]):
		return true, true

	case bytes.Equal(version, pub[:]):
		return false, true

	default:
		return false, false
	}
}
