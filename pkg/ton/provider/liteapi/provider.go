package liteapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

const (
	MainnetConfigURL = "https://ton.org/global.config.json"
	TestnetConfigURL = "https://ton-blockchain.github.io/testnet-global.config.json"
)

// ConfigURL returns the public lite-server config of the selected network.
func ConfigURL(testnet bool) string {
	if testnet {
		return TestnetConfigURL
	}
	return MainnetConfigURL
}

// APIClient is the subset of ton.APIClientWrapped used to run get-methods.
type APIClient interface {
	CurrentMasterchainInfo(ctx context.Context) (*ton.BlockIDExt, error)
	RunGetMethod(ctx context.Context, blockInfo *ton.BlockIDExt, addr *address.Address, method string, params ...any) (*ton.ExecutionResult, error)
}

var _ APIClient = (ton.APIClientWrapped)(nil)

// Dial connects to the lite servers listed in the global config at configURL.
func Dial(ctx context.Context, configURL string) (ton.APIClientWrapped, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to lite servers from %s: %w", provider.ErrTransport, configURL, err)
	}
	return ton.NewAPIClient(pool, ton.ProofCheckPolicyFast), nil
}

var _ provider.Provider = (*Provider)(nil)

// Provider runs get-methods through a lite-server client. Only Get is
// supported, every other operation fails with provider.ErrNotImplemented.
type Provider struct {
	lggr   logger.SugaredLogger
	addr   *address.Address
	client APIClient
}

func NewProvider(lggr logger.Logger, addr *address.Address, client APIClient) (*Provider, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: address is required", provider.ErrEncoding)
	}
	if client == nil {
		return nil, errors.New("lite-server client is required")
	}
	return &Provider{
		lggr:   logger.Sugared(logger.With(logger.Named(lggr, "LiteAPI"), "address", addr.String())),
		addr:   addr,
		client: client,
	}, nil
}

func (p *Provider) Address() *address.Address { return p.addr }

// Get runs method against the latest masterchain block.
func (p *Provider) Get(ctx context.Context, method string, args ...any) (*ton.ExecutionResult, error) {
	block, err := p.client.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current block: %w", wrapTransport(err))
	}

	res, err := p.client.RunGetMethod(ctx, block, p.addr, method, args...)
	if err != nil {
		p.lggr.Debugw("Get method failed", "method", method, "seqno", block.SeqNo, "err", err)
		return nil, fmt.Errorf("failed to run get method %s: %w", method, wrapTransport(err))
	}
	return res, nil
}

func wrapTransport(err error) error {
	if provider.IsTransportFailure(err) && !errors.Is(err, provider.ErrTransport) {
		return fmt.Errorf("%w: %w", provider.ErrTransport, err)
	}
	return err
}

func (p *Provider) GetState(context.Context) (*provider.State, error) {
	return nil, notImplemented("GetState")
}

func (p *Provider) Internal(context.Context, provider.Sender, provider.InternalMessage) error {
	return notImplemented("Internal")
}

func (p *Provider) External(context.Context, *cell.Cell) error {
	return notImplemented("External")
}

func (p *Provider) GetTransactions(context.Context, *address.Address, uint64, []byte, uint32) ([]provider.Transaction, error) {
	return nil, notImplemented("GetTransactions")
}

func (p *Provider) Open(*address.Address) (provider.Provider, error) {
	return nil, notImplemented("Open")
}

func notImplemented(op string) error {
	return fmt.Errorf("%w: %s is not supported by the lite-server backend", provider.ErrNotImplemented, op)
}
