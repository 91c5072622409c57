package provider

import (
	"context"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/wallet"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Provider executes reads and writes against a single contract address.
// Implementations keep no state between calls: every method is a one-shot
// request against the backend.
type Provider interface {
	// GetState resolves the current on-chain state of the bound address.
	GetState(ctx context.Context) (*State, error)
	// Get runs a get-method on the bound address and returns its stack.
	Get(ctx context.Context, method string, args ...any) (*ton.ExecutionResult, error)
	// Internal submits an internal message to the bound address through via.
	// It returns once the message is submitted, not once it is executed.
	Internal(ctx context.Context, via Sender, msg InternalMessage) error
	// External submits an external message body to the bound address.
	External(ctx context.Context, body *cell.Cell) error
	// GetTransactions lists transactions of addr starting at (lt, hash) and
	// going back in time.
	GetTransactions(ctx context.Context, addr *address.Address, lt uint64, hash []byte, limit uint32) ([]Transaction, error)
	// Open returns a provider of the same backend bound to addr.
	Open(addr *address.Address) (Provider, error)
}

// Sender is anything able to sign and submit a wallet message.
// *wallet.Wallet satisfies it.
type Sender interface {
	Address() *address.Address
	Send(ctx context.Context, message *wallet.Message, waitConfirmation ...bool) error
}

// InternalMessage is an outbound write to the bound address.
type InternalMessage struct {
	Value    tlb.Coins
	Bounce   bool
	SendMode uint8
	Body     *cell.Cell
	// Init is attached when the destination is not deployed yet.
	Init *tlb.StateInit
}

// ToWalletMessage builds the wallet message delivering msg to dst.
func (msg InternalMessage) ToWalletMessage(dst *address.Address) *wallet.Message {
	body := msg.Body
	if body == nil {
		body = cell.BeginCell().EndCell()
	}
	return &wallet.Message{
		Mode: msg.SendMode,
		InternalMessage: &tlb.InternalMessage{
			IHRDisabled: true,
			Bounce:      msg.Bounce,
			DstAddr:     dst,
			Amount:      msg.Value,
			Body:        body,
			StateInit:   msg.Init,
		},
	}
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusUninit   AccountStatus = "uninit"
	AccountStatusFrozen   AccountStatus = "frozen"
	AccountStatusNonexist AccountStatus = "nonexist"
)

// State is the resolved on-chain state of an account.
type State struct {
	Address *address.Address
	Status  AccountStatus
	Balance tlb.Coins
	Code    *cell.Cell // nil unless active
	Data    *cell.Cell // nil unless active

	LastTxLT   uint64
	LastTxHash []byte
}

// Transaction is a backend-neutral summary of an account transaction.
type Transaction struct {
	Hash       []byte
	LT         uint64
	Now        time.Time
	PrevTxHash []byte
	PrevTxLT   uint64
	TotalFees  tlb.Coins
	Aborted    bool
	ExitCode   int32

	InSource *address.Address // nil for external inbound messages
	InValue  tlb.Coins
}
