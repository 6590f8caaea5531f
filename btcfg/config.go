// Package btcfg holds the user facing configuration of btckit: the network
// keys are derived for, the mnemonic language, the amount units and the
// logging setup.
package btcfg

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/blockchaincommons/btckit/build"
	"github.com/blockchaincommons/btckit/codec"
	"github.com/blockchaincommons/btckit/hdkey"
	"github.com/blockchaincommons/btckit/mnemonic"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
)

const (
	// DefaultNetwork is the network used when none is configured.
	DefaultNetwork = "mainnet"

	// DefaultLanguage is the mnemonic language used when none is
	// configured.
	DefaultLanguage = "en"

	// DefaultUnits is the amount unit used when none is configured.
	DefaultUnits = "btc"

	// DefaultDebugLevel is the log level used when none is configured.
	DefaultDebugLevel = "info"

	// DefaultConfigFilename is the name of the INI file read by
	// LoadConfig when no path is given.
	DefaultConfigFilename = "btckit.conf"

	defaultLogDirname = "logs"
)

// units maps each configurable unit to its btcutil amount unit.
var units = map[string]btcutil.AmountUnit{
	"btc":  btcutil.AmountBTC,
	"mbtc": btcutil.AmountMilliBTC,
	"ubtc": btcutil.AmountMicroBTC,
	"sat":  btcutil.AmountSatoshi,
}

// Config is the configuration of btckit.
//
//nolint:lll
type Config struct {
	Network    string `long:"network" description:"The network keys and addresses are derived for." choice:"mainnet" choice:"testnet"`
	Language   string `long:"language" description:"The language of generated mnemonics (en, es, ja, it, fr, cs, zh_Hans, zh_Hant, ko)."`
	Units      string `long:"units" description:"The unit amounts are formatted and parsed in." choice:"btc" choice:"mbtc" choice:"ubtc" choice:"sat"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems."`
	LogDir     string `long:"logdir" description:"Directory to log output."`

	Log *build.LogConfig `group:"Logging" namespace:"logging"`
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() *Config {
	return &Config{
		Network:    DefaultNetwork,
		Language:   DefaultLanguage,
		Units:      DefaultUnits,
		DebugLevel: DefaultDebugLevel,
		Log:        build.DefaultLogConfig(),
	}
}

// Validate checks the given configuration to be sane. Paths are normalized
// in place.
func (c *Config) Validate() error {
	if _, err := c.HDNetwork(); err != nil {
		return err
	}

	lang, err := c.MnemonicLanguage()
	if err != nil {
		return err
	}
	if !lang.Supported() {
		return fmt.Errorf("no word list for language %v", lang)
	}

	if _, err := c.DecimalPlaces(); err != nil {
		return err
	}

	if !validDebugLevel(c.DebugLevel) {
		return fmt.Errorf("invalid debug level: %v", c.DebugLevel)
	}

	if c.Log == nil {
		return errors.New("log config must be set")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}

	c.LogDir = CleanAndExpandPath(c.LogDir)

	return nil
}

// validDebugLevel checks the global level and every subsystem level of a
// debug level string. Subsystem names are only checked once loggers are
// registered.
func validDebugLevel(level string) bool {
	for _, part := range strings.Split(level, ",") {
		if !strings.Contains(part, "=") {
			if !build.ValidLogLevel(part) {
				return false
			}

			continue
		}

		fields := strings.Split(part, "=")
		if len(fields) != 2 || !build.ValidLogLevel(fields[1]) {
			return false
		}
	}

	return true
}

// HDNetwork returns the configured network.
func (c *Config) HDNetwork() (hdkey.Network, error) {
	return hdkey.NetworkByName(c.Network)
}

// MnemonicLanguage returns the configured mnemonic language.
func (c *Config) MnemonicLanguage() (mnemonic.Language, error) {
	return mnemonic.ParseLanguage(c.Language)
}

// DecimalPlaces returns the number of decimal places of the configured
// unit.
func (c *Config) DecimalPlaces() (uint8, error) {
	unit, ok := units[c.Units]
	if !ok {
		return 0, fmt.Errorf("unknown units: %v", c.Units)
	}

	return codec.DecimalPlacesForUnit(unit)
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Load configuration file overwriting defaults with any specified options
//  3. Parse args overwriting any options set so far
//
// A missing config file is not an error. The returned config has been
// validated.
func LoadConfig(configFile string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile == "" {
		configFile = DefaultConfigFilename
	}
	configFile = CleanAndExpandPath(configFile)

	parser := flags.NewParser(cfg, flags.Default&^flags.PrintErrors)
	err := flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		// If it's a parsing related error, return it as is, otherwise
		// the file exists but could not be read.
		var iniErr *flags.IniError
		if errors.As(err, &iniErr) {
			return nil, err
		}

		return nil, fmt.Errorf("unable to read %v: %w", configFile, err)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogFile returns the path of the rotating log file, or the empty string if
// no log directory is configured.
func (c *Config) LogFile() string {
	if c.LogDir == "" {
		return ""
	}

	return filepath.Join(c.LogDir, defaultLogDirname, "btckit.log")
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
