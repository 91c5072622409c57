package indexer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/tvm"
)

var _ provider.Provider = (*Provider)(nil)

// Provider serves account state, transactions and message submission from
// toncenter and get-methods from tonapi.
type Provider struct {
	base      logger.Logger
	lggr      logger.SugaredLogger
	addr      *address.Address
	toncenter *Client
	tonapi    *Client
}

func NewProvider(lggr logger.Logger, addr *address.Address, toncenter, tonapi *Client) (*Provider, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: address is required", provider.ErrEncoding)
	}
	if toncenter == nil || toncenter.Dialect() != DialectToncenter {
		return nil, errors.New("a toncenter client is required")
	}
	if tonapi == nil || tonapi.Dialect() != DialectTonAPI {
		return nil, errors.New("a tonapi client is required")
	}

	return newProvider(logger.Named(lggr, "Indexer"), addr, toncenter, tonapi), nil
}

func newProvider(base logger.Logger, addr *address.Address, toncenter, tonapi *Client) *Provider {
	return &Provider{
		base:      base,
		lggr:      logger.Sugared(logger.With(base, "address", addr.String())),
		addr:      addr,
		toncenter: toncenter,
		tonapi:    tonapi,
	}
}

func (p *Provider) Address() *address.Address { return p.addr }

func (p *Provider) GetState(ctx context.Context) (*provider.State, error) {
	raw, err := p.toncenter.Query(ctx, "account", url.Values{"address": {p.addr.StringRaw()}})
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	var resp accountResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode account: %w", provider.ErrDecode, err)
	}
	return resp.toState(p.addr)
}

func (p *Provider) Get(ctx context.Context, method string, args ...any) (*ton.ExecutionResult, error) {
	params := url.Values{}
	for i, arg := range args {
		s, err := encodeArg(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		params.Add("args", s)
	}

	path := "blockchain/accounts/" + url.PathEscape(p.addr.StringRaw()) + "/methods/" + url.PathEscape(method)
	raw, err := p.tonapi.Query(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to run get method %s: %w", method, err)
	}

	var resp methodExecutionResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode method execution: %w", provider.ErrDecode, err)
	}
	if code := tvm.ExitCode(resp.ExitCode); !code.IsSuccess() || !resp.Success {
		p.lggr.Debugw("Get method failed", "method", method, "exitCode", resp.ExitCode)
		return nil, &provider.RemoteError{Message: fmt.Sprintf("get method %s failed: %s", method, code)}
	}

	stack := make([]any, 0, len(resp.Stack))
	for _, rec := range resp.Stack {
		v, err := rec.value()
		if err != nil {
			return nil, fmt.Errorf("get method %s: %w", method, err)
		}
		stack = append(stack, v)
	}
	return ton.NewExecutionResult(stack), nil
}

// encodeArg renders a get-method argument the way tonapi accepts it.
func encodeArg(arg any) (string, error) {
	switch v := arg.(type) {
	case *address.Address:
		return v.StringRaw(), nil
	case *cell.Cell:
		return hexBOC(v), nil
	case *big.Int:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	default:
		return "", fmt.Errorf("%w: unsupported get method argument %T", provider.ErrEncoding, arg)
	}
}

func hexBOC(c *cell.Cell) string {
	return fmt.Sprintf("%x", c.ToBOC())
}

// Internal submits msg through via and returns once the wallet accepted it.
func (p *Provider) Internal(ctx context.Context, via provider.Sender, msg provider.InternalMessage) error {
	if via == nil {
		return fmt.Errorf("%w: sender is required", provider.ErrEncoding)
	}
	if err := via.Send(ctx, msg.ToWalletMessage(p.addr)); err != nil {
		p.lggr.Errorw("Failed to send internal message", "err", err)
		return fmt.Errorf("failed to send internal message: %w", provider.ClassifySendError(err))
	}
	p.lggr.Debugw("Internal message sent", "value", msg.Value.String(), "deploy", msg.Init != nil)
	return nil
}

func (p *Provider) External(ctx context.Context, body *cell.Cell) error {
	if body == nil {
		return fmt.Errorf("%w: external message body is required", provider.ErrEncoding)
	}
	ext, err := tlb.ToCell(&tlb.ExternalMessage{DstAddr: p.addr, Body: body})
	if err != nil {
		return fmt.Errorf("%w: failed to store external message: %w", provider.ErrEncoding, err)
	}

	req := sendMessageRequest{BOC: base64.StdEncoding.EncodeToString(ext.ToBOC())}
	if _, err = p.toncenter.Post(ctx, "message", req); err != nil {
		return fmt.Errorf("failed to send external message: %w", provider.ClassifySendError(err))
	}
	return nil
}

// GetTransactions lists up to limit transactions of addr, newest first,
// starting with the transaction at lt. A zero lt starts from the latest one.
func (p *Provider) GetTransactions(ctx context.Context, addr *address.Address, lt uint64, hash []byte, limit uint32) ([]provider.Transaction, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: address is required", provider.ErrEncoding)
	}
	if limit == 0 {
		return nil, nil
	}

	params := url.Values{
		"account": {addr.StringRaw()},
		"limit":   {strconv.FormatUint(uint64(limit), 10)},
		"offset":  {"0"},
		"sort":    {"desc"},
	}
	if lt != 0 {
		params.Set("end_lt", strconv.FormatUint(lt, 10))
	}

	raw, err := p.toncenter.Query(ctx, "transactions", params)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var resp transactionsResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode transactions: %w", provider.ErrDecode, err)
	}

	txs := make([]provider.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		tx, err := t.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.Hash, err)
		}
		txs = append(txs, tx)
	}

	if lt != 0 && len(hash) > 0 && len(txs) > 0 && txs[0].LT == lt && !bytes.Equal(txs[0].Hash, hash) {
		return nil, fmt.Errorf("%w: transaction at lt %d has hash %x, expected %x", provider.ErrDecode, lt, txs[0].Hash, hash)
	}
	return txs, nil
}

// Open binds the same clients to addr.
func (p *Provider) Open(addr *address.Address) (provider.Provider, error) {
	if addr == nil {
		return nil, fmt.Errorf("%w: address is required", provider.ErrEncoding)
	}
	return newProvider(p.base, addr, p.toncenter, p.tonapi), nil
}
