package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "goldsentinel",
		Short: "Daily gold price alerts by email and Telegram",
		Long: `GoldSentinel fetches the gold spot price and exchange rates, compares the
per-gram price against its moving averages and sends bilingual reports.
An urgent alert is sent when the price falls to the configured dip target.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $CONFIG_PATH or "+defaultConfigPath+")")

	resolve := func() string {
		if cfgPath != "" {
			return cfgPath
		}
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			return v
		}
		return defaultConfigPath
	}

	root.AddCommand(
		newRunCmd(resolve),
		newServeCmd(resolve),
		newPreviewCmd(resolve),
		newHoldingsCmd(resolve),
	)
	return root
}
