package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/config"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider/indexer"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider/liteapi"
)

// Dialer connects to the lite servers listed in a global config.
type Dialer func(ctx context.Context, configURL string) (ton.APIClientWrapped, error)

type Option func(*Factory)

// WithDialer replaces liteapi.Dial.
func WithDialer(d Dialer) Option {
	return func(f *Factory) { f.dial = d }
}

// Factory opens network providers of the configured backend. The lite-server
// client is dialed on first use and shared by everything opened afterwards.
type Factory struct {
	lggr logger.Logger
	cfg  config.Config

	toncenter *indexer.Client
	tonapi    *indexer.Client

	dial      Dialer
	mu        sync.Mutex
	apiClient ton.APIClientWrapped
}

func NewFactory(lggr logger.Logger, cfg config.Config, opts ...Option) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	details, err := cfg.Network.Details()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", cfg.Network, err)
	}
	lggr = logger.With(logger.Named(lggr, "Client"), "chain", details.ChainName)

	f := &Factory{
		lggr: lggr,
		cfg:  cfg,
		dial: liteapi.Dial,
	}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Backend == config.BackendIndexer {
		if f.toncenter, err = newIndexerClient(lggr, indexer.DialectToncenter, cfg.Toncenter, cfg); err != nil {
			return nil, err
		}
		if f.tonapi, err = newIndexerClient(lggr, indexer.DialectTonAPI, cfg.TonAPI, cfg); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func newIndexerClient(lggr logger.Logger, dialect indexer.Dialect, ic config.IndexerConfig, cfg config.Config) (*indexer.Client, error) {
	baseURL := ic.URL
	if baseURL == "" {
		var err error
		if baseURL, err = indexer.BaseURL(dialect, cfg.Network.IsTestnet()); err != nil {
			return nil, err
		}
	}
	return indexer.NewClient(lggr, dialect, baseURL, ic.APIKey, cfg.HTTP.Timeout)
}

func (f *Factory) Config() config.Config { return f.cfg }

// LiteServerConfigURL returns the configured global config URL or the public one of the network.
func (f *Factory) LiteServerConfigURL() string {
	if f.cfg.LiteServer.ConfigURL != "" {
		return f.cfg.LiteServer.ConfigURL
	}
	return liteapi.ConfigURL(f.cfg.Network.IsTestnet())
}

// APIClient returns the shared lite-server client, dialing it if needed. A
// failed dial is not remembered.
func (f *Factory) APIClient(ctx context.Context) (ton.APIClientWrapped, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.apiClient != nil {
		return f.apiClient, nil
	}

	configURL := f.LiteServerConfigURL()
	logger.Sugared(f.lggr).Debugw("Connecting to lite servers", "configURL", configURL)
	c, err := f.dial(ctx, configURL)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("lite-server dialer returned no client")
	}
	f.apiClient = c
	return c, nil
}

// Open returns a provider of the configured backend bound to addr.
func (f *Factory) Open(ctx context.Context, addr *address.Address) (provider.Provider, error) {
	switch f.cfg.Backend {
	case config.BackendIndexer:
		return indexer.NewProvider(f.lggr, addr, f.toncenter, f.tonapi)
	case config.BackendLiteServer:
		c, err := f.APIClient(ctx)
		if err != nil {
			return nil, err
		}
		return liteapi.NewProvider(f.lggr, addr, c)
	default:
		return nil, fmt.Errorf("unsupported backend %q", f.cfg.Backend)
	}
}
