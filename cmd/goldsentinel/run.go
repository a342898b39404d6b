package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"GoldSentinel/internal/notifier"
)

func newRunCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one check and send the reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(configPath(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := a.pipeline.Run(ctx)
			if err != nil {
				return err
			}
			if failed := notifier.Failed(summary.Outcomes); failed > 0 && failed == len(summary.Outcomes) {
				return fmt.Errorf("all %d deliveries failed", failed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Text())
			return nil
		},
	}
}
