package client

import (
	"context"
	"crypto/ed25519"
	"fmt"

	cldfprovider "github.com/smartcontractkit/chainlink-deployments-framework/chain/ton/provider"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/config"
)

// walletVersion maps wallet.version to the tonutils wallet configuration.
// V5R1 signatures are bound to the network global ID.
func walletVersion(version string, network config.Network) (wallet.VersionConfig, error) {
	switch version {
	case "V3R2":
		return wallet.V3R2, nil
	case "V4R2":
		return wallet.V4R2, nil
	case "V5R1":
		globalID := int32(-239)
		if network.IsTestnet() {
			globalID = -3
		}
		return wallet.ConfigV5R1Final{NetworkGlobalID: globalID, Workchain: 0}, nil
	default:
		return nil, fmt.Errorf("unsupported wallet version: %s", version)
	}
}

func privateKey(cfg config.Config) (ed25519.PrivateKey, error) {
	key, err := cldfprovider.PrivateKeyFromRaw(cfg.Wallet.DeployerKey).Generate()
	if err != nil {
		return nil, fmt.Errorf("invalid wallet.deployer_key: %w", err)
	}
	return key, nil
}

// Signer builds the basechain wallet that signs escrow messages. It uses the
// shared lite-server client to resolve the wallet seqno.
func (f *Factory) Signer(ctx context.Context) (*wallet.Wallet, error) {
	if err := f.cfg.ValidateSigner(); err != nil {
		return nil, fmt.Errorf("invalid signer config: %w", err)
	}

	key, err := privateKey(f.cfg)
	if err != nil {
		return nil, err
	}
	version, err := walletVersion(f.cfg.Wallet.Version, f.cfg.Network)
	if err != nil {
		return nil, err
	}

	api, err := f.APIClient(ctx)
	if err != nil {
		return nil, err
	}

	w, err := wallet.FromPrivateKeyWithOptions(api, key, version, wallet.WithWorkchain(0))
	if err != nil {
		return nil, fmt.Errorf("failed to init TON wallet: %w", err)
	}
	return w, nil
}
