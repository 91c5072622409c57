package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"time"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/smartcontractkit/chainlink-common/pkg/config"
	"github.com/spf13/viper"
)

// Name of the chain family (e.g., "ethereum", "solana", "ton")
const ChainFamilyName = chainsel.FamilyTon

// Network selects between the production and the test network.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

func (n Network) IsTestnet() bool { return n == NetworkTestnet }

// ChainID returns the TON global ID of the network.
func (n Network) ChainID() (string, error) {
	switch n {
	case NetworkMainnet:
		return "-239", nil
	case NetworkTestnet:
		return "-3", nil
	default:
		return "", fmt.Errorf("unknown network %q", n)
	}
}

// Details resolves the chain selector and canonical chain name of the network.
func (n Network) Details() (chainsel.ChainDetails, error) {
	id, err := n.ChainID()
	if err != nil {
		return chainsel.ChainDetails{}, err
	}
	return chainsel.GetChainDetailsByChainIDAndFamily(id, chainsel.FamilyTon)
}

// Backend selects the network provider implementation.
type Backend string

const (
	// BackendIndexer reads through the toncenter and tonapi REST APIs.
	BackendIndexer Backend = "indexer"
	// BackendLiteServer runs get-methods through a lite-server client.
	BackendLiteServer Backend = "liteserver"
)

// IndexerConfig is the configuration of one REST API.
//
// WARNING: This data type contains sensitive fields and should not be logged.
type IndexerConfig struct {
	URL    string `mapstructure:"url" yaml:"url"`         // Overrides the public endpoint of the network
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // Secret: optional API key
}

type LiteServerConfig struct {
	ConfigURL string `mapstructure:"config_url" yaml:"config_url"` // Overrides the global config URL of the network
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// WalletConfig is the configuration of the signing wallet.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type WalletConfig struct {
	DeployerKey string `mapstructure:"deployer_key" yaml:"deployer_key"` // Secret: hex encoded ed25519 private key
	Version     string `mapstructure:"version" yaml:"version"`           // V3R2, V4R2 or V5R1
}

// Config wraps the entire configuration of the escrow tooling.
type Config struct {
	Network    Network          `mapstructure:"network" yaml:"network"`
	Backend    Backend          `mapstructure:"backend" yaml:"backend"`
	Toncenter  IndexerConfig    `mapstructure:"toncenter" yaml:"toncenter"`
	TonAPI     IndexerConfig    `mapstructure:"tonapi" yaml:"tonapi"`
	LiteServer LiteServerConfig `mapstructure:"liteserver" yaml:"liteserver"`
	HTTP       HTTPConfig       `mapstructure:"http" yaml:"http"`
	Wallet     WalletConfig     `mapstructure:"wallet" yaml:"wallet"`
}

var defaults = map[string]any{
	"backend":        string(BackendIndexer),
	"http.timeout":   "30s",
	"wallet.version": "V4R2",
}

// WalletVersions lists the accepted wallet.version values.
var WalletVersions = []string{"V3R2", "V4R2", "V5R1"}

func (c *Config) Validate() (err error) {
	if c.Network == "" {
		err = errors.Join(err, config.ErrMissing{Name: "network", Msg: "must be mainnet or testnet"})
	} else if _, nerr := c.Network.ChainID(); nerr != nil {
		err = errors.Join(err, config.ErrInvalid{Name: "network", Value: c.Network, Msg: "must be mainnet or testnet"})
	}

	switch c.Backend {
	case BackendIndexer, BackendLiteServer:
	case "":
		err = errors.Join(err, config.ErrEmpty{Name: "backend", Msg: "must be indexer or liteserver"})
	default:
		err = errors.Join(err, config.ErrInvalid{Name: "backend", Value: c.Backend, Msg: "must be indexer or liteserver"})
	}

	err = errors.Join(err,
		validateURL("toncenter.url", c.Toncenter.URL),
		validateURL("tonapi.url", c.TonAPI.URL),
		validateURL("liteserver.config_url", c.LiteServer.ConfigURL),
	)

	if c.HTTP.Timeout < 0 {
		err = errors.Join(err, config.ErrInvalid{Name: "http.timeout", Value: c.HTTP.Timeout, Msg: "must not be negative"})
	}
	return err
}

// ValidateSigner checks the wallet settings required to send messages.
func (c *Config) ValidateSigner() (err error) {
	if c.Wallet.DeployerKey == "" {
		err = errors.Join(err, config.ErrMissing{Name: "wallet.deployer_key", Msg: "required to sign messages"})
	}
	if !slices.Contains(WalletVersions, c.Wallet.Version) {
		err = errors.Join(err, config.ErrInvalid{Name: "wallet.version", Value: c.Wallet.Version, Msg: fmt.Sprintf("must be one of %v", WalletVersions)})
	}
	return err
}

func validateURL(name, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return config.ErrInvalid{Name: name, Value: raw, Msg: "must be an absolute http(s) URL"}
	}
	return nil
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

var (
	// envBindings maps config keys to the environment variables that can provide them, in order
	// of preference.
	envBindings = map[string][]string{
		"network":               {"TON_NETWORK"},
		"backend":               {"TON_BACKEND"},
		"toncenter.url":         {"TONCENTER_URL"},
		"toncenter.api_key":     {"TONCENTER_API_KEY"},
		"tonapi.url":            {"TONAPI_URL"},
		"tonapi.api_key":        {"TONAPI_API_KEY", "TONAPI_TOKEN"},
		"liteserver.config_url": {"TON_LITESERVER_CONFIG_URL"},
		"http.timeout":          {"TON_HTTP_TIMEOUT"},
		"wallet.deployer_key":   {"TON_DEPLOYER_KEY", "ONCHAIN_TON_DEPLOYER_KEY"},
		"wallet.version":        {"TON_WALLET_VERSION", "ONCHAIN_TON_WALLET_VERSION"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
