package escrow

import (
	"encoding/hex"
	"fmt"
	"math"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

const ContractType = "Escrow"

var Version = semver.MustParse("1.0.0")

// TypeAndVersion identifies the code blob this package is bound to.
func TypeAndVersion() string {
	return ContractType + " " + Version.String()
}

// DefaultWorkchain is the basechain.
const DefaultWorkchain int8 = 0

// Escrow opcodes
const (
	OpcodeApproveTransfer = 0x95ab6c31
	OpcodeTopUp           = 0xa382f950
)

// Get-method names
const (
	MethodApprover            = "approver"
	MethodReturnAddress       = "returnAddress"
	MethodDeadline            = "deadline"
	MethodTransferDestination = "transferDestination"
)

const codeBOCHex = "b5ee9c7241010a0100db000114ff00f4a413f4bcf2c80b01020162020300c6d0f891f240ed44d0f82301fa40fa40d31ffa403004b98e186c2220d72c013159e304c8cf8508ce70cf0b6ec98306fb00e03002d72c24ad5b618c8e1730f89258c705f2e066c8cf8508ce70cf0b6ec98306fb00e06c21d72c251c17ca8431dc840ff2f002012004050023bcf86f6a2687d207d2018e98f98fd2018e8c02012006070031bbf2ced44d0fa40fa40d31f31fa4031d120d72c013159e30480201c708090022aaf6ed44d0fa4031fa4031d31f31fa40d10022a936ed44d0fa4031fa4031d31ffa4031d168b81d9b"

var loadCode = sync.OnceValue(func() *cell.Cell {
	boc, err := hex.DecodeString(codeBOCHex)
	if err != nil {
		panic(fmt.Sprintf("escrow code BOC is not valid hex: %v", err))
	}
	code, err := cell.FromBOC(boc)
	if err != nil {
		panic(fmt.Sprintf("escrow code BOC cannot be parsed: %v", err))
	}
	return code
})

// Code returns the precompiled escrow code cell. The returned cell is shared
// and must not be modified.
func Code() *cell.Cell {
	return loadCode()
}

// CodeHash returns the representation hash of the escrow code cell.
func CodeHash() []byte {
	return Code().Hash()
}

// Config is the initial configuration of an escrow instance.
type Config struct {
	Approver *address.Address
	// ReturnAddress is optional, nil is stored as addr_none.
	ReturnAddress *address.Address
	// Deadline is a unix timestamp, it must fit into 32 bits.
	Deadline            uint64
	TransferDestination *address.Address
}

// Data is the on-chain storage layout. Field order and widths are fixed by the
// code blob.
type Data struct {
	Approver            *address.Address `tlb:"addr"`
	ReturnAddress       *address.Address `tlb:"addr"`
	Deadline            uint32           `tlb:"## 32"`
	TransferDestination *address.Address `tlb:"addr"`
}

// Validate checks that cfg can be stored in the contract data cell.
func (cfg Config) Validate() error {
	if cfg.Approver == nil {
		return fmt.Errorf("%w: approver address is required", provider.ErrEncoding)
	}
	if cfg.TransferDestination == nil {
		return fmt.Errorf("%w: transfer destination address is required", provider.ErrEncoding)
	}
	if cfg.Deadline > math.MaxUint32 {
		return fmt.Errorf("%w: deadline %d does not fit into 32 bits", provider.ErrEncoding, cfg.Deadline)
	}
	return nil
}

// ConfigToCell serializes cfg into the contract data cell.
func ConfigToCell(cfg Config) (*cell.Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := tlb.ToCell(Data{
		Approver:            cfg.Approver,
		ReturnAddress:       cfg.ReturnAddress,
		Deadline:            uint32(cfg.Deadline),
		TransferDestination: cfg.TransferDestination,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store config: %w", provider.ErrEncoding, err)
	}
	return c, nil
}

// ConfigFromCell parses a contract data cell.
func ConfigFromCell(c *cell.Cell) (Config, error) {
	if c == nil {
		return Config{}, fmt.Errorf("%w: data cell is nil", provider.ErrDecode)
	}

	var data Data
	if err := tlb.LoadFromCell(&data, c.BeginParse()); err != nil {
		return Config{}, fmt.Errorf("%w: failed to load escrow data: %w", provider.ErrDecode, err)
	}

	return Config{
		Approver:            noneToNil(data.Approver),
		ReturnAddress:       noneToNil(data.ReturnAddress),
		Deadline:            uint64(data.Deadline),
		TransferDestination: noneToNil(data.TransferDestination),
	}, nil
}

func noneToNil(addr *address.Address) *address.Address {
	if addr == nil || addr.Type() == address.NoneAddress {
		return nil
	}
	return addr
}

// Messages

// ApproveTransfer releases the funds to the transfer destination. Sent by the approver.
type ApproveTransfer struct {
	_ tlb.Magic `tlb:"#95ab6c31"` //nolint:revive // opcode magic
}

// TopUp adds value to the contract balance.
type TopUp struct {
	_ tlb.Magic `tlb:"#a382f950"` //nolint:revive // opcode magic
}

// DeriveAddress computes the address of StateInit{code, data} in workchain.
func DeriveAddress(workchain int8, code, data *cell.Cell) (*address.Address, error) {
	stateInit, err := tlb.ToCell(tlb.StateInit{Code: code, Data: data})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store state init: %w", provider.ErrEncoding, err)
	}
	return address.NewAddress(0, byte(workchain), stateInit.Hash()), nil
}
