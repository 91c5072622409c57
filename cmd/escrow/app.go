package main

import (
	"context"
	"fmt"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/bindings/escrow"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/client"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/config"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

type app struct {
	lggr       logger.Logger
	configPath string
	opts       []client.Option
}

func newApp(lggr logger.Logger, opts ...client.Option) *app {
	return &app{lggr: lggr, opts: opts}
}

func (a *app) loadConfig() (config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return *cfg, nil
}

func (a *app) factory() (*client.Factory, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return client.NewFactory(a.lggr, cfg, a.opts...)
}

// open binds a provider of the configured backend to addr.
func (a *app) open(ctx context.Context, addr *address.Address) (*client.Factory, provider.Provider, error) {
	f, err := a.factory()
	if err != nil {
		return nil, nil, err
	}
	p, err := f.Open(ctx, addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open provider: %w", err)
	}
	return f, p, nil
}

// escrowFlags holds the constructor arguments shared by address and deploy.
type escrowFlags struct {
	approver      string
	returnAddress string
	deadline      uint64
	destination   string
	workchain     int8
}

func (f escrowFlags) config() (escrow.Config, error) {
	var (
		cfg escrow.Config
		err error
	)
	if cfg.Approver, err = parseAddr("approver", f.approver); err != nil {
		return cfg, err
	}
	if f.returnAddress != "" {
		if cfg.ReturnAddress, err = parseAddr("return-address", f.returnAddress); err != nil {
			return cfg, err
		}
	}
	if cfg.TransferDestination, err = parseAddr("destination", f.destination); err != nil {
		return cfg, err
	}
	cfg.Deadline = f.deadline
	return cfg, nil
}

func parseAddr(flag, s string) (*address.Address, error) {
	if s == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	addr, err := address.ParseAddr(s)
	if err != nil {
		if addr, err = address.ParseRawAddr(s); err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
		}
	}
	return addr, nil
}

func parseValue(s string) (tlb.Coins, error) {
	v, err := tlb.FromTON(s)
	if err != nil {
		return tlb.Coins{}, fmt.Errorf("invalid --value %q: %w", s, err)
	}
	return v, nil
}
