package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/smartcontractkit/chainlink-common/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/bindings/escrow"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/client"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

var (
	approver    = address.NewAddress(0, 0, bytes.Repeat([]byte{0x11}, 32))
	destination = address.NewAddress(0, 0, bytes.Repeat([]byte{0x33}, 32))
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

type fakeAPI struct {
	ton.APIClientWrapped
	results map[string][]any
}

func (fakeAPI) CurrentMasterchainInfo(context.Context) (*ton.BlockIDExt, error) {
	return &ton.BlockIDExt{Workchain: -1, SeqNo: 1}, nil
}

func (f fakeAPI) RunGetMethod(_ context.Context, _ *ton.BlockIDExt, _ *address.Address, method string, _ ...any) (*ton.ExecutionResult, error) {
	res, ok := f.results[method]
	if !ok {
		return nil, fmt.Errorf("unknown method %s", method)
	}
	return ton.NewExecutionResult(res), nil
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	root := newRootCmd(newApp(logger.Test(t)))
	assert.Equal(t, "escrow", root.Use)
	require.NotNil(t, root.PersistentFlags().Lookup("config"))

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, name := range []string{"address", "deploy", "approve", "topup", "info", "state", "txs"} {
		assert.Contains(t, names, name)
	}
}

func TestAddressCmd(t *testing.T) {
	t.Parallel()

	out, err := run(t, newApp(logger.Test(t)), "address",
		"--approver", approver.String(),
		"--destination", destination.StringRaw(),
		"--deadline", "1700000000",
	)
	require.NoError(t, err)

	want, err := escrow.NewFromConfig(escrow.Config{
		Approver:            approver,
		Deadline:            1_700_000_000,
		TransferDestination: destination,
	}, escrow.DefaultWorkchain)
	require.NoError(t, err)

	assert.Contains(t, out, want.Address.StringRaw())
	assert.Contains(t, out, "Escrow 1.0.0")
}

func TestAddressCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing approver",
			args:    []string{"--destination", destination.String()},
			wantErr: "--approver is required",
		},
		{
			name:    "bad destination",
			args:    []string{"--approver", approver.String(), "--destination", "nope"},
			wantErr: "invalid --destination",
		},
		{
			name:    "deadline out of range",
			args:    []string{"--approver", approver.String(), "--destination", destination.String(), "--deadline", "4294967296"},
			wantErr: "does not fit into 32 bits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := run(t, newApp(logger.Test(t)), append([]string{"address"}, tt.args...)...)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestInfoCmd_LiteServer(t *testing.T) {
	t.Parallel()

	slice := func(a *address.Address) *cell.Slice {
		return cell.BeginCell().MustStoreAddr(a).EndCell().BeginParse()
	}
	api := fakeAPI{results: map[string][]any{
		escrow.MethodApprover:            {slice(approver)},
		escrow.MethodReturnAddress:       {cell.BeginCell().MustStoreUInt(0, 2).EndCell().BeginParse()},
		escrow.MethodDeadline:            {big.NewInt(1_700_000_000)},
		escrow.MethodTransferDestination: {slice(destination)},
	}}

	a := newApp(logger.Test(t), client.WithDialer(func(context.Context, string) (ton.APIClientWrapped, error) {
		return api, nil
	}))
	path := writeConfig(t, "network: testnet\nbackend: liteserver\n")

	out, err := run(t, a, "info", "--config", path, "--address", approver.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Approver:             "+approver.String())
	assert.Contains(t, out, "Return address:       none")
	assert.Contains(t, out, "1700000000 (2023-11-14T22:13:20Z)")
	assert.Contains(t, out, "Transfer destination: "+destination.String())

	// writes are not supported by the lite-server backend, but the signer is checked first
	_, err = run(t, a, "approve", "--config", path, "--address", approver.String())
	require.ErrorContains(t, err, "wallet.deployer_key")

	_, err = run(t, a, "state", "--config", path, "--address", approver.String())
	require.ErrorIs(t, err, provider.ErrNotImplemented)
}

func TestStateAndTxsCmd_Indexer(t *testing.T) {
	t.Parallel()

	cfg := escrow.Config{Approver: approver, Deadline: 1_700_000_000, TransferDestination: destination}
	data, err := escrow.ConfigToCell(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/account"):
			fmt.Fprintf(w, `{"status":"active","balance":"2000000000","code":%q,"data":%q,"last_transaction_lt":"5"}`,
				base64.StdEncoding.EncodeToString(escrow.Code().ToBOC()),
				base64.StdEncoding.EncodeToString(data.ToBOC()))
		case strings.HasSuffix(r.URL.Path, "/transactions"):
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"transactions":[{"hash":"qqo=","lt":"5","now":1700000000,"total_fees":"1000","in_msg":{"source":null,"value":null}}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	path := writeConfig(t, fmt.Sprintf("network: mainnet\nbackend: indexer\ntoncenter:\n  url: %s/\n", srv.URL))
	a := newApp(logger.Test(t))

	out, err := run(t, a, "state", "--config", path, "--address", approver.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  active")
	assert.Contains(t, out, "Balance: 2 TON")
	assert.Contains(t, out, "Return address:       none")
	assert.Contains(t, out, "Transfer destination: "+destination.String())

	out, err = run(t, a, "txs", "--config", path, "--address", approver.String(), "--limit", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "5 aaaa 2023-11-14T22:13:20Z")
	assert.Contains(t, out, "from=none")
}

func TestWriteCmds_UpToSigner(t *testing.T) {
	t.Parallel()

	key := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x01}, ed25519.SeedSize))
	withKey := "network: testnet\nbackend: indexer\nwallet:\n  deployer_key: " + hex.EncodeToString(key) + "\n"
	withoutKey := "network: testnet\nbackend: indexer\n"
	badKey := "network: testnet\nbackend: indexer\nwallet:\n  deployer_key: zz\n"

	constructor := []string{"--approver", approver.String(), "--destination", destination.String(), "--deadline", "1700000000"}
	target := []string{"--address", approver.String()}

	tests := []struct {
		name     string
		config   string
		args     []string
		wantErr  string
		wantDial bool
	}{
		{
			name:    "deploy without approver",
			config:  withKey,
			args:    []string{"deploy", "--destination", destination.String()},
			wantErr: "--approver is required",
		},
		{
			name:    "deploy with invalid value",
			config:  withKey,
			args:    append([]string{"deploy", "--value", "abc"}, constructor...),
			wantErr: "invalid --value",
		},
		{
			name:    "deploy with deadline out of range",
			config:  withKey,
			args:    []string{"deploy", "--approver", approver.String(), "--destination", destination.String(), "--deadline", "4294967296"},
			wantErr: "does not fit into 32 bits",
		},
		{
			name:    "deploy without deployer key",
			config:  withoutKey,
			args:    append([]string{"deploy"}, constructor...),
			wantErr: "wallet.deployer_key",
		},
		{
			name:    "deploy with malformed deployer key",
			config:  badKey,
			args:    append([]string{"deploy"}, constructor...),
			wantErr: "invalid wallet.deployer_key",
		},
		{
			name:     "deploy reaches the signer",
			config:   withKey,
			args:     append([]string{"deploy", "--value", "0.5"}, constructor...),
			wantErr:  "lite servers unreachable",
			wantDial: true,
		},
		{
			name:    "approve without address",
			config:  withKey,
			args:    []string{"approve"},
			wantErr: "--address is required",
		},
		{
			name:    "approve with invalid value",
			config:  withKey,
			args:    append([]string{"approve", "--value", "abc"}, target...),
			wantErr: "invalid --value",
		},
		{
			name:     "approve reaches the signer",
			config:   withKey,
			args:     append([]string{"approve"}, target...),
			wantErr:  "lite servers unreachable",
			wantDial: true,
		},
		{
			name:    "topup with invalid address",
			config:  withKey,
			args:    []string{"topup", "--address", "nope"},
			wantErr: "invalid --address",
		},
		{
			name:    "topup without deployer key",
			config:  withoutKey,
			args:    append([]string{"topup", "--value", "2"}, target...),
			wantErr: "wallet.deployer_key",
		},
		{
			name:     "topup reaches the signer",
			config:   withKey,
			args:     append([]string{"topup", "--value", "2"}, target...),
			wantErr:  "lite servers unreachable",
			wantDial: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var dials atomic.Int32
			a := newApp(logger.Test(t), client.WithDialer(func(context.Context, string) (ton.APIClientWrapped, error) {
				dials.Add(1)
				return nil, errors.New("lite servers unreachable")
			}))

			args := append(slices.Clone(tt.args), "--config", writeConfig(t, tt.config))
			_, err := run(t, a, args...)
			require.ErrorContains(t, err, tt.wantErr)
			if tt.wantDial {
				assert.Equal(t, int32(1), dials.Load())
			} else {
				assert.Zero(t, dials.Load())
			}
		})
	}
}
