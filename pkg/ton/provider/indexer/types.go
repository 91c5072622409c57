package indexer

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

// toncenter v3 "account"
type accountResponse struct {
	Balance             string  `json:"balance"`
	Code                *string `json:"code"`
	Data                *string `json:"data"`
	LastTransactionLT   string  `json:"last_transaction_lt"`
	LastTransactionHash *string `json:"last_transaction_hash"`
	Status              string  `json:"status"`
}

// toncenter v3 "transactions"
type transactionsResponse struct {
	Transactions []transaction `json:"transactions"`
}

type transaction struct {
	Account       string                 `json:"account"`
	Hash          string                 `json:"hash"`
	LT            string                 `json:"lt"`
	Now           int64                  `json:"now"`
	PrevTransHash string                 `json:"prev_trans_hash"`
	PrevTransLT   string                 `json:"prev_trans_lt"`
	TotalFees     string                 `json:"total_fees"`
	Description   transactionDescription `json:"description"`
	InMsg         *message               `json:"in_msg"`
}

type transactionDescription struct {
	Aborted   bool `json:"aborted"`
	ComputePh struct {
		Skipped  bool  `json:"skipped"`
		ExitCode int32 `json:"exit_code"`
	} `json:"compute_ph"`
}

type message struct {
	Source *string `json:"source"`
	Value  *string `json:"value"`
}

// toncenter v3 "message"
type sendMessageRequest struct {
	BOC string `json:"boc"`
}

// tonapi v2 "blockchain/accounts/{account_id}/methods/{method_name}"
type methodExecutionResponse struct {
	Success  bool             `json:"success"`
	ExitCode int32            `json:"exit_code"`
	Stack    []tvmStackRecord `json:"stack"`
}

type tvmStackRecord struct {
	Type  string           `json:"type"`
	Cell  string           `json:"cell,omitempty"`
	Slice string           `json:"slice,omitempty"`
	Num   string           `json:"num,omitempty"`
	Tuple []tvmStackRecord `json:"tuple,omitempty"`
}

func (r tvmStackRecord) value() (any, error) {
	switch r.Type {
	case "null":
		return nil, nil
	case "num":
		n, ok := new(big.Int).SetString(r.Num, 0)
		if !ok {
			return nil, fmt.Errorf("%w: invalid stack number %q", provider.ErrDecode, r.Num)
		}
		return n, nil
	case "cell":
		return parseHexBOC(r.Cell)
	case "slice":
		c, err := parseHexBOC(r.Slice)
		if err != nil {
			return nil, err
		}
		return c.BeginParse(), nil
	case "tuple":
		items := make([]any, 0, len(r.Tuple))
		for _, rec := range r.Tuple {
			v, err := rec.value()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: unsupported stack entry type %q", provider.ErrDecode, r.Type)
	}
}

func parseHexBOC(s string) (*cell.Cell, error) {
	boc, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: stack cell is not hex: %w", provider.ErrDecode, err)
	}
	c, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse stack cell: %w", provider.ErrDecode, err)
	}
	return c, nil
}

func parseBase64BOC(s string) (*cell.Cell, error) {
	boc, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: BOC is not base64: %w", provider.ErrDecode, err)
	}
	c, err := cell.FromBOC(boc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse BOC: %w", provider.ErrDecode, err)
	}
	return c, nil
}

func parseHash(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// some endpoints return url-safe base64
		if b, err = base64.URLEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: invalid hash %q: %w", provider.ErrDecode, s, err)
		}
	}
	return b, nil
}

func parseUint(field, s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q: %w", provider.ErrDecode, field, s, err)
	}
	return v, nil
}

func parseCoins(field, s string) (tlb.Coins, error) {
	if s == "" {
		return tlb.ZeroCoins, nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return tlb.Coins{}, fmt.Errorf("%w: invalid %s %q", provider.ErrDecode, field, s)
	}
	return tlb.FromNanoTON(n), nil
}

func parseAddr(s string) (*address.Address, error) {
	var (
		addr *address.Address
		err  error
	)
	if strings.Contains(s, ":") {
		addr, err = address.ParseRawAddr(s)
	} else {
		addr, err = address.ParseAddr(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address %q: %w", provider.ErrDecode, s, err)
	}
	return addr, nil
}

func parseStatus(s string) (provider.AccountStatus, error) {
	switch st := provider.AccountStatus(s); st {
	case provider.AccountStatusActive, provider.AccountStatusUninit,
		provider.AccountStatusFrozen, provider.AccountStatusNonexist:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown account status %q", provider.ErrDecode, s)
	}
}

func (r accountResponse) toState(addr *address.Address) (*provider.State, error) {
	status, err := parseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	balance, err := parseCoins("balance", r.Balance)
	if err != nil {
		return nil, err
	}
	lt, err := parseUint("last_transaction_lt", r.LastTransactionLT)
	if err != nil {
		return nil, err
	}

	state := &provider.State{
		Address:  addr,
		Status:   status,
		Balance:  balance,
		LastTxLT: lt,
	}
	if r.LastTransactionHash != nil {
		if state.LastTxHash, err = parseHash(*r.LastTransactionHash); err != nil {
			return nil, err
		}
	}
	if status != provider.AccountStatusActive {
		return state, nil
	}

	if r.Code != nil && *r.Code != "" {
		if state.Code, err = parseBase64BOC(*r.Code); err != nil {
			return nil, fmt.Errorf("failed to decode code: %w", err)
		}
	}
	if r.Data != nil && *r.Data != "" {
		if state.Data, err = parseBase64BOC(*r.Data); err != nil {
			return nil, fmt.Errorf("failed to decode data: %w", err)
		}
	}
	return state, nil
}

func (t transaction) toTransaction() (provider.Transaction, error) {
	var (
		out provider.Transaction
		err error
	)
	if out.Hash, err = parseHash(t.Hash); err != nil {
		return out, err
	}
	if out.LT, err = parseUint("lt", t.LT); err != nil {
		return out, err
	}
	if out.PrevTxHash, err = parseHash(t.PrevTransHash); err != nil {
		return out, err
	}
	if out.PrevTxLT, err = parseUint("prev_trans_lt", t.PrevTransLT); err != nil {
		return out, err
	}
	if out.TotalFees, err = parseCoins("total_fees", t.TotalFees); err != nil {
		return out, err
	}
	out.Now = time.Unix(t.Now, 0).UTC()
	out.Aborted = t.Description.Aborted
	out.ExitCode = t.Description.ComputePh.ExitCode
	out.InValue = tlb.ZeroCoins

	if t.InMsg == nil {
		return out, nil
	}
	if t.InMsg.Source != nil && *t.InMsg.Source != "" {
		if out.InSource, err = parseAddr(*t.InMsg.Source); err != nil {
			return out, err
		}
	}
	if t.InMsg.Value != nil {
		if out.InValue, err = parseCoins("in_msg.value", *t.InMsg.Value); err != nil {
			return out, err
		}
	}
	return out, nil
}
