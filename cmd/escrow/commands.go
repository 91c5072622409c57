package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/bindings/escrow"
	"github.com/smartcontractkit/chainlink-ton-escrow/pkg/ton/provider"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "escrow",
		Short:        "Deploy and operate TON escrow contracts",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to the config file, environment variables are used when empty")

	root.AddCommand(
		a.newAddressCmd(),
		a.newDeployCmd(),
		a.newApproveCmd(),
		a.newTopUpCmd(),
		a.newInfoCmd(),
		a.newStateCmd(),
		a.newTxsCmd(),
	)
	return root
}

func addEscrowFlags(cmd *cobra.Command, f *escrowFlags) {
	cmd.Flags().StringVar(&f.approver, "approver", "", "Approver address (required)")
	cmd.Flags().StringVar(&f.returnAddress, "return-address", "", "Return address, omitted when empty")
	cmd.Flags().Uint64Var(&f.deadline, "deadline", 0, "Deadline as a unix timestamp")
	cmd.Flags().StringVar(&f.destination, "destination", "", "Transfer destination address (required)")
	cmd.Flags().Int8Var(&f.workchain, "workchain", escrow.DefaultWorkchain, "Workchain of the escrow contract")
}

func (a *app) newAddressCmd() *cobra.Command {
	var flags escrowFlags
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Compute the address of an escrow contract from its configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			c, err := escrow.NewFromConfig(cfg, flags.workchain)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Contract:  %s\n", escrow.TypeAndVersion())
			fmt.Fprintf(out, "Code hash: %x\n", escrow.CodeHash())
			fmt.Fprintf(out, "Address:   %s\n", c.Address.String())
			fmt.Fprintf(out, "Raw:       %s\n", c.Address.StringRaw())
			return nil
		},
	}
	addEscrowFlags(cmd, &flags)
	return cmd
}

func (a *app) newDeployCmd() *cobra.Command {
	var (
		flags escrowFlags
		value string
	)
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy an escrow contract funded with --value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			amount, err := parseValue(value)
			if err != nil {
				return err
			}
			c, err := escrow.NewFromConfig(cfg, flags.workchain)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			f, p, err := a.open(ctx, c.Address)
			if err != nil {
				return err
			}
			signer, err := f.Signer(ctx)
			if err != nil {
				return err
			}
			if err = c.SendDeploy(ctx, p, signer, amount); err != nil {
				return fmt.Errorf("failed to deploy %s: %w", c.Address, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deploy message sent to %s from %s\n", c.Address, signer.Address())
			return nil
		},
	}
	addEscrowFlags(cmd, &flags)
	cmd.Flags().StringVar(&value, "value", "0.05", "Amount of TON attached to the deploy message")
	return cmd
}

// newSendCmd builds the commands that send a message to a deployed contract.
func (a *app) newSendCmd(use, short string, defaultValue string, send func(context.Context, *escrow.Contract, provider.Provider, provider.Sender, tlb.Coins) error) *cobra.Command {
	var (
		addr  string
		value string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := parseAddr("address", addr)
			if err != nil {
				return err
			}
			amount, err := parseValue(value)
			if err != nil {
				return err
			}
			c := escrow.NewFromAddress(target)

			ctx := cmd.Context()
			f, p, err := a.open(ctx, c.Address)
			if err != nil {
				return err
			}
			signer, err := f.Signer(ctx)
			if err != nil {
				return err
			}
			if err = send(ctx, c, p, signer, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent to %s from %s\n", c.Address, signer.Address())
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "Escrow contract address (required)")
	cmd.Flags().StringVar(&value, "value", defaultValue, "Amount of TON attached to the message")
	return cmd
}

func (a *app) newApproveCmd() *cobra.Command {
	return a.newSendCmd("approve", "Approve the transfer to the destination", "0.05",
		func(ctx context.Context, c *escrow.Contract, p provider.Provider, via provider.Sender, amount tlb.Coins) error {
			return c.SendApproveTransfer(ctx, p, via, amount)
		})
}

func (a *app) newTopUpCmd() *cobra.Command {
	return a.newSendCmd("topup", "Add funds to the escrow contract", "1",
		func(ctx context.Context, c *escrow.Contract, p provider.Provider, via provider.Sender, amount tlb.Coins) error {
			return c.SendTopUp(ctx, p, via, amount)
		})
}

func (a *app) newInfoCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Run every getter of a deployed escrow contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := parseAddr("address", addr)
			if err != nil {
				return err
			}
			_, p, err := a.open(cmd.Context(), target)
			if err != nil {
				return err
			}

			info, err := escrow.NewFromAddress(target).GetInfo(cmd.Context(), p)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), *info)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "Escrow contract address (required)")
	return cmd
}

func printInfo(out io.Writer, cfg escrow.Config) {
	fmt.Fprintf(out, "Approver:             %s\n", cfg.Approver)
	fmt.Fprintf(out, "Return address:       %s\n", formatOptional(cfg.ReturnAddress))
	fmt.Fprintf(out, "Deadline:             %d (%s)\n", cfg.Deadline, time.Unix(int64(cfg.Deadline), 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Transfer destination: %s\n", cfg.TransferDestination)
}

func formatOptional(addr *address.Address) string {
	if addr == nil {
		return "none"
	}
	return addr.String()
}

func (a *app) newStateCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the account state of an escrow contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := parseAddr("address", addr)
			if err != nil {
				return err
			}
			_, p, err := a.open(cmd.Context(), target)
			if err != nil {
				return err
			}

			state, err := p.GetState(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:  %s\n", state.Status)
			fmt.Fprintf(out, "Balance: %s TON\n", state.Balance.String())
			fmt.Fprintf(out, "Last tx: %d %x\n", state.LastTxLT, state.LastTxHash)
			if state.Code == nil || state.Data == nil {
				return nil
			}
			if !bytes.Equal(state.Code.Hash(), escrow.CodeHash()) {
				fmt.Fprintf(out, "Code hash %x does not match %s\n", state.Code.Hash(), escrow.TypeAndVersion())
				return nil
			}
			cfg, err := escrow.ConfigFromCell(state.Data)
			if err != nil {
				return err
			}
			printInfo(out, cfg)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "Escrow contract address (required)")
	return cmd
}

func (a *app) newTxsCmd() *cobra.Command {
	var (
		addr    string
		lt      uint64
		hashHex string
		limit   uint32
	)
	cmd := &cobra.Command{
		Use:   "txs",
		Short: "List recent transactions of an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := parseAddr("address", addr)
			if err != nil {
				return err
			}
			hash, err := hex.DecodeString(hashHex)
			if err != nil {
				return fmt.Errorf("invalid --hash: %w", err)
			}
			_, p, err := a.open(cmd.Context(), target)
			if err != nil {
				return err
			}

			txs, err := p.GetTransactions(cmd.Context(), target, lt, hash, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tx := range txs {
				fmt.Fprintf(out, "%d %x %s fees=%s in=%s from=%s exit=%d aborted=%t\n",
					tx.LT, tx.Hash, tx.Now.Format(time.RFC3339), tx.TotalFees.String(),
					tx.InValue.String(), formatOptional(tx.InSource), tx.ExitCode, tx.Aborted)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "Account address (required)")
	cmd.Flags().Uint64Var(&lt, "lt", 0, "Start from the transaction with this logical time, latest when zero")
	cmd.Flags().StringVar(&hashHex, "hash", "", "Hex encoded hash of the starting transaction")
	cmd.Flags().Uint32Var(&limit, "limit", 10, "Maximum number of transactions")
	return cmd
}
