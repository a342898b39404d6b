package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"GoldSentinel/internal/config"
	"GoldSentinel/internal/ledger"
	"GoldSentinel/internal/model"
)

func newHoldingsCmd(configPath func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Manage the gold lots used for the portfolio section",
	}
	cmd.AddCommand(newHoldingsAddCmd(configPath), newHoldingsListCmd(configPath))
	return cmd
}

func newHoldingsAddCmd(configPath func() string) *cobra.Command {
	var grams, price string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a purchase in the SQLite ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lot, err := parseLot(grams, price)
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Ledger.SQLitePath == "" {
				return errors.New("ledger.sqlite_path is not set; holdings.csv is edited by hand")
			}
			store, err := ledger.NewSQLiteStore(cfg.Ledger.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AddHolding(lot, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s g at %s per gram\n",
				lot.Grams.String(), lot.PricePaidLocal.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&grams, "grams", "", "grams bought")
	cmd.Flags().StringVar(&price, "price", "", "price paid per gram in the local currency")
	_ = cmd.MarkFlagRequired("grams")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newHoldingsListCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the lots the portfolio section reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := ledger.Open("", cfg.Ledger.HoldingsPath, cfg.Ledger.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()

			lots, err := store.ReadHoldings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			total := decimal.Zero
			for _, l := range lots {
				fmt.Fprintf(out, "%s g @ %s\n", l.Grams.String(), l.PricePaidLocal.StringFixed(2))
				total = total.Add(l.Grams)
			}
			fmt.Fprintf(out, "%d lots, %s g total\n", len(lots), total.String())
			return nil
		},
	}
}

func parseLot(grams, price string) (model.HoldingsLot, error) {
	g, err := decimal.NewFromString(grams)
	if err != nil || !g.IsPositive() {
		return model.HoldingsLot{}, fmt.Errorf("--grams must be a positive number, got %q", grams)
	}
	p, err := decimal.NewFromString(price)
	if err != nil || p.IsNegative() {
		return model.HoldingsLot{}, fmt.Errorf("--price must be a non-negative number, got %q", price)
	}
	return model.HoldingsLot{Grams: g, PricePaidLocal: p}, nil
}
