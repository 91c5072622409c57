package escrow

import (
	"context"
	"fmt"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

// Contract is a handle to an escrow instance. It is never mutated after
// construction.
type Contract struct {
	Address *address.Address
	// Init is only set for handles built from a Config and is attached to the
	// deploy message.
	Init *tlb.StateInit
}

// NewFromAddress binds to an already deployed instance.
func NewFromAddress(addr *address.Address) *Contract {
	return &Contract{Address: addr}
}

// NewFromConfig computes the address of the instance described by cfg and
// keeps its code and data for deployment.
func NewFromConfig(cfg Config, workchain int8) (*Contract, error) {
	data, err := ConfigToCell(cfg)
	if err != nil {
		return nil, err
	}

	code := Code()
	addr, err := DeriveAddress(workchain, code, data)
	if err != nil {
		return nil, err
	}

	return &Contract{
		Address: addr,
		Init:    &tlb.StateInit{Code: code, Data: data},
	}, nil
}

// DeployBody is the empty body of the deploy message.
func DeployBody() *cell.Cell {
	return cell.BeginCell().EndCell()
}

// ApproveTransferBody is the body of the approve-transfer message.
func ApproveTransferBody() (*cell.Cell, error) {
	c, err := tlb.ToCell(ApproveTransfer{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store approve transfer: %w", provider.ErrEncoding, err)
	}
	return c, nil
}

// TopUpBody is the body of the top-up message.
func TopUpBody() (*cell.Cell, error) {
	c, err := tlb.ToCell(TopUp{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store top up: %w", provider.ErrEncoding, err)
	}
	return c, nil
}

// DeployMessage builds the first message to an undeployed address.
func (c *Contract) DeployMessage(value tlb.Coins) provider.InternalMessage {
	return provider.InternalMessage{
		Value:    value,
		Bounce:   true,
		SendMode: wallet.PayGasSeparately,
		Body:     DeployBody(),
		Init:     c.Init,
	}
}

// ApproveTransferMessage builds the approve-transfer message.
func (c *Contract) ApproveTransferMessage(value tlb.Coins) (provider.InternalMessage, error) {
	body, err := ApproveTransferBody()
	if err != nil {
		return provider.InternalMessage{}, err
	}
	return provider.InternalMessage{
		Value:    value,
		Bounce:   true,
		SendMode: wallet.PayGasSeparately,
		Body:     body,
	}, nil
}

// TopUpMessage builds the top-up message.
func (c *Contract) TopUpMessage(value tlb.Coins) (provider.InternalMessage, error) {
	body, err := TopUpBody()
	if err != nil {
		return provider.InternalMessage{}, err
	}
	return provider.InternalMessage{
		Value:    value,
		Bounce:   true,
		SendMode: wallet.PayGasSeparately,
		Body:     body,
	}, nil
}

// SendDeploy submits the deploy message. It does not wait for the contract to
// be initialized on chain.
func (c *Contract) SendDeploy(ctx context.Context, p provider.Provider, via provider.Sender, value tlb.Coins) error {
	if c.Init == nil {
		return fmt.Errorf("%w: contract %s has no state init, build it with NewFromConfig", provider.ErrEncoding, c.Address)
	}
	return p.Internal(ctx, via, c.DeployMessage(value))
}

// SendApproveTransfer signals the approver's authorization to release the funds.
func (c *Contract) SendApproveTransfer(ctx context.Context, p provider.Provider, via provider.Sender, value tlb.Coins) error {
	msg, err := c.ApproveTransferMessage(value)
	if err != nil {
		return err
	}
	return p.Internal(ctx, via, msg)
}

// SendTopUp adds value to the contract balance.
func (c *Contract) SendTopUp(ctx context.Context, p provider.Provider, via provider.Sender, value tlb.Coins) error {
	msg, err := c.TopUpMessage(value)
	if err != nil {
		return err
	}
	return p.Internal(ctx, via, msg)
}

// Getters

func (c *Contract) GetApprover(ctx context.Context, p provider.Provider) (*address.Address, error) {
	return requiredAddress(MethodApprover)(provider.AddressFrom(p.Get(ctx, MethodApprover)))
}

// GetReturnAddress returns nil when the instance has no return address.
func (c *Contract) GetReturnAddress(ctx context.Context, p provider.Provider) (*address.Address, error) {
	return provider.AddressFrom(p.Get(ctx, MethodReturnAddress))
}

func (c *Contract) GetDeadline(ctx context.Context, p provider.Provider) (uint64, error) {
	return provider.Uint64From(p.Get(ctx, MethodDeadline))
}

func (c *Contract) GetTransferDestination(ctx context.Context, p provider.Provider) (*address.Address, error) {
	return requiredAddress(MethodTransferDestination)(provider.AddressFrom(p.Get(ctx, MethodTransferDestination)))
}

// GetInfo runs every getter in sequence and stops at the first failure. The
// result is the configuration the instance was deployed with.
func (c *Contract) GetInfo(ctx context.Context, p provider.Provider) (*Config, error) {
	var (
		info Config
		err  error
	)
	if info.Approver, err = c.GetApprover(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to get approver: %w", err)
	}
	if info.ReturnAddress, err = c.GetReturnAddress(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to get return address: %w", err)
	}
	if info.Deadline, err = c.GetDeadline(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to get deadline: %w", err)
	}
	if info.TransferDestination, err = c.GetTransferDestination(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to get transfer destination: %w", err)
	}
	return &info, nil
}

func requiredAddress(method string) func(*address.Address, error) (*address.Address, error) {
	return func(addr *address.Address, err error) (*address.Address, error) {
		if err != nil {
			return nil, err
		}
		if addr == nil {
			return nil, fmt.Errorf("%w: %s returned addr_none", provider.ErrDecode, method)
		}
		return addr, nil
	}
}
