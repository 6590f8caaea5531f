package btckit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/btcfg"
	"github.com/blockchaincommons/btckit/build"
	"github.com/blockchaincommons/btckit/chain"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/eckey"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/blockchaincommons/btckit/keychain"
	"github.com/blockchaincommons/btckit/mnemonic"
	"github.com/btcsuite/btclog/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// newTestKit returns a kit over the default config with the given changes.
func newTestKit(t *testing.T, modify func(*btcfg.Config)) *Kit {
	t.Helper()

	cfg := btcfg.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}

	kit, err := NewKit(cfg)
	require.NoError(t, err)

	return kit
}

// TestKitWalletFlow walks entropy to mnemonic to seed to master key to the
// first receiving address, checking each step against the Trezor BIP39
// vector and independently computed BIP44 values.
func TestKitWalletFlow(t *testing.T) {
	t.Parallel()

	kit := newTestKit(t, nil)

	m, err := kit.NewMnemonic(make([]byte, 16))
	require.NoError(t, err)
	require.Equal(
		t, strings.Repeat("abandon ", 11)+"about", m.String(),
	)

	seed, err := kit.MnemonicToSeed(m, "TREZOR")
	require.NoError(t, err)
	require.Equal(
		t, "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e5"+
			"3495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b"+
			"2f001698e7463b04", codec.EncodeBase16(seed),
	)

	master, err := kit.NewMasterKey(seed)
	require.NoError(t, err)
	require.Equal(
		t, hdkey.ExtendedKey("xprv9s21ZrQH143K3h3fDYiay8mocZ3afhfULf"+
			"b5GX8kCBdno77K4HiA15Tg23wpbeF1pLfs1c5SPmYHrEpTuuRhxMw"+
			"vKDwqdKiGJS9XFKzUsAF"), master,
	)

	ring, err := kit.NewKeyRing(master)
	require.NoError(t, err)

	loc := ring.Locator(
		keychain.BIP0044Purpose, 0, keychain.ExternalBranch, 0,
	)
	desc, err := ring.DeriveKey(loc)
	require.NoError(t, err, spew.Sdump(loc))
	require.Equal(
		t, "027440c6c46ec617a202f44bc886a249b10f98a8ff5d8a0aa56a350ab9"+
			"30a0ec79", desc.PubKey.String(),
	)

	addr, err := kit.PaymentAddress(desc.PubKey)
	require.NoError(t, err)
	require.Equal(t, "1PEha8dk5Me5J1rZWpgqSt5F4BroTBLS5y", addr)

	ringAddr, err := ring.DeriveAddress(loc)
	require.NoError(t, err)
	require.Equal(t, addr, ringAddr)
}

// TestKitTestnet checks that the configured network reaches the keys.
func TestKitTestnet(t *testing.T) {
	t.Parallel()

	kit := newTestKit(t, func(c *btcfg.Config) {
		c.Network = "testnet"
	})
	require.Equal(t, hdkey.Testnet, kit.Network())

	seed, err := codec.DecodeBase16("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	master, err := kit.NewMasterKey(seed)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(master.String(), "tprv"))

	// A mainnet master does not fit a testnet kit.
	mainnet := newTestKit(t, nil)
	mainMaster, err := mainnet.NewMasterKey(seed)
	require.NoError(t, err)

	_, err = kit.NewKeyRing(mainMaster)
	require.ErrorIs(t, err, btcerr.ErrVersionMismatch)
}

// TestKitLanguage checks that mnemonics use the configured language.
func TestKitLanguage(t *testing.T) {
	t.Parallel()

	kit := newTestKit(t, func(c *btcfg.Config) {
		c.Language = "es"
	})
	require.Equal(t, mnemonic.Spanish, kit.Language())

	m, err := kit.NewMnemonic(make([]byte, 16))
	require.NoError(t, err)
	words, err := mnemonic.Words(mnemonic.Spanish)
	require.NoError(t, err)
	require.Equal(t, words[0], m[0])
	require.NoError(t, mnemonic.Validate(m, mnemonic.Spanish))

	_, err = kit.NewMnemonic(make([]byte, 15))
	require.ErrorIs(t, err, btcerr.ErrInvalidSeedSize)
}

// TestKitAmounts checks formatting and parsing in each unit.
func TestKitAmounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		units    string
		satoshis uint64
		text     string
	}{
		{units: "btc", satoshis: 1012345678, text: "10.12345678"},
		{units: "btc", satoshis: 100000000, text: "1"},
		{units: "mbtc", satoshis: 150000, text: "1.5"},
		{units: "ubtc", satoshis: 1234, text: "12.34"},
		{units: "sat", satoshis: 42, text: "42"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.units+"/"+test.text, func(t *testing.T) {
			t.Parallel()

			kit := newTestKit(t, func(c *btcfg.Config) {
				c.Units = test.units
			})
			require.Equal(t, test.text, kit.FormatAmount(test.satoshis))

			satoshis, err := kit.ParseAmount(test.text)
			require.NoError(t, err)
			require.Equal(t, test.satoshis, satoshis)
		})
	}

	kit := newTestKit(t, nil)
	_, err := kit.ParseAmount("0.000000001")
	require.ErrorIs(t, err, btcerr.ErrPrecisionExceeded)
}

// TestNewKitInvalidConfig checks that invalid configs are rejected.
func TestNewKitInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := btcfg.DefaultConfig()
	cfg.Units = "gwei"

	_, err := NewKit(cfg)
	require.Error(t, err)
}

// disableLoggers silences every subsystem again after a test installed
// real loggers.
func disableLoggers() {
	DisableLog()
	codec.DisableLog()
	eckey.DisableLog()
	hdkey.DisableLog()
	mnemonic.DisableLog()
	chain.DisableLog()
	keychain.DisableLog()
}

// TestSetupLoggers checks that every subsystem is registered and reacts to
// level changes.
func TestSetupLoggers(t *testing.T) {
	var buf bytes.Buffer
	manager := build.NewSubLoggerManager(
		btclog.NewDefaultHandler(&buf, btclog.WithNoTimestamp()),
	)
	SetupLoggers(manager)
	t.Cleanup(disableLoggers)

	require.ElementsMatch(t, []string{
		"BKIT", "CDEC", "ECKY", "HDKY", "MNEM", "CHAN", "KCHN",
	}, manager.SupportedSubsystems())

	require.NoError(t, build.ParseAndSetDebugLevels(
		"info,HDKY=debug", manager,
	))

	_, err := hdkey.NewMaster(make([]byte, 16), hdkey.Mainnet)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "HDKY")

	buf.Reset()
	_, err = codec.DecodeBase10Decimal("1.5", 8)
	require.NoError(t, err)
	require.Empty(t, buf.String())
}

// TestNewLogging checks that a configured log directory receives the
// output of the subsystem loggers.
func TestNewLogging(t *testing.T) {
	cfg := btcfg.DefaultConfig()
	cfg.LogDir = t.TempDir()
	cfg.DebugLevel = "debug"
	cfg.Log.Console.Disable = true
	require.NoError(t, cfg.Validate())

	logging, err := NewLogging(cfg)
	require.NoError(t, err)
	t.Cleanup(disableLoggers)

	_, err = NewKit(cfg)
	require.NoError(t, err)
	require.NoError(t, logging.SetLogLevels("info,BKIT=debug"))

	require.Error(t, logging.SetLogLevels("info,NOPE=debug"))
	require.NoError(t, logging.Close())

	content, err := os.ReadFile(cfg.LogFile())
	require.NoError(t, err)
	require.Contains(t, string(content), "Kit configured for mainnet")
	require.Equal(
		t, filepath.Join(cfg.LogDir, "logs", "btckit.log"),
		cfg.LogFile(),
	)
}

// TestNewLoggingBadLevel checks that an unknown subsystem in the debug
// level is reported.
func TestNewLoggingBadLevel(t *testing.T) {
	cfg := btcfg.DefaultConfig()
	cfg.Log.Console.Disable = true
	cfg.DebugLevel = "info,NOPE=trace"
	t.Cleanup(disableLoggers)

	_, err := NewLogging(cfg)
	require.Error(t, err)
}
