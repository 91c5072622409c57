package liteapi

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider/mocks"
)

var contractAddr = address.NewAddress(0, 0, bytes.Repeat([]byte{0x42}, 32))

type fakeClient struct {
	block    *ton.BlockIDExt
	blockErr error

	result *ton.ExecutionResult
	runErr error

	gotBlock  *ton.BlockIDExt
	gotAddr   *address.Address
	gotMethod string
	gotParams []any
}

func (f *fakeClient) CurrentMasterchainInfo(context.Context) (*ton.BlockIDExt, error) {
	return f.block, f.blockErr
}

func (f *fakeClient) RunGetMethod(_ context.Context, block *ton.BlockIDExt, addr *address.Address, method string, params ...any) (*ton.ExecutionResult, error) {
	f.gotBlock, f.gotAddr, f.gotMethod, f.gotParams = block, addr, method, params
	return f.result, f.runErr
}

func TestProvider_Get(t *testing.T) {
	t.Parallel()

	block := &ton.BlockIDExt{Workchain: -1, SeqNo: 42}
	client := &fakeClient{
		block:  block,
		result: ton.NewExecutionResult([]any{big.NewInt(1_700_000_000)}),
	}
	p, err := NewProvider(logger.Test(t), contractAddr, client)
	require.NoError(t, err)

	deadline, err := provider.Uint64From(p.Get(t.Context(), "deadline", 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_000), deadline)
	assert.Same(t, block, client.gotBlock)
	assert.Equal(t, contractAddr.StringRaw(), client.gotAddr.StringRaw())
	assert.Equal(t, "deadline", client.gotMethod)
	assert.Equal(t, []any{5}, client.gotParams)
}

func TestProvider_GetErrors(t *testing.T) {
	t.Parallel()

	execErr := errors.New("contract exit code: 11")

	tests := []struct {
		name        string
		client      *fakeClient
		wantErr     error
		wantNotTran bool
	}{
		{
			name:    "block lookup timeout",
			client:  &fakeClient{blockErr: context.DeadlineExceeded},
			wantErr: provider.ErrTransport,
		},
		{
			name:    "run canceled",
			client:  &fakeClient{block: &ton.BlockIDExt{}, runErr: context.Canceled},
			wantErr: provider.ErrTransport,
		},
		{
			name:        "execution failure",
			client:      &fakeClient{block: &ton.BlockIDExt{}, runErr: execErr},
			wantErr:     execErr,
			wantNotTran: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewProvider(logger.Test(t), contractAddr, tt.client)
			require.NoError(t, err)

			_, err = p.Get(t.Context(), "approver")
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantNotTran {
				require.NotErrorIs(t, err, provider.ErrTransport)
			}
		})
	}
}

func TestProvider_NotImplemented(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(logger.Test(t), contractAddr, &fakeClient{})
	require.NoError(t, err)
	ctx := t.Context()

	_, err = p.GetState(ctx)
	require.ErrorIs(t, err, provider.ErrNotImplemented)

	err = p.Internal(ctx, mocks.NewSender(t), provider.InternalMessage{Value: tlb.MustFromTON("1")})
	require.ErrorIs(t, err, provider.ErrNotImplemented)

	err = p.External(ctx, cell.BeginCell().EndCell())
	require.ErrorIs(t, err, provider.ErrNotImplemented)

	_, err = p.GetTransactions(ctx, contractAddr, 0, nil, 10)
	require.ErrorIs(t, err, provider.ErrNotImplemented)

	_, err = p.Open(contractAddr)
	require.ErrorIs(t, err, provider.ErrNotImplemented)
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	_, err := NewProvider(logger.Test(t), nil, &fakeClient{})
	require.ErrorIs(t, err, provider.ErrEncoding)

	_, err = NewProvider(logger.Test(t), contractAddr, nil)
	require.Error(t, err)

	assert.Equal(t, MainnetConfigURL, ConfigURL(false))
	assert.Equal(t, TestnetConfigURL, ConfigURL(true))
}
