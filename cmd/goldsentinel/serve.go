package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"GoldSentinel/internal/notifier"
	"GoldSentinel/internal/scheduler"
)

func newServeCmd(configPath func() string) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run on the daily schedule and answer Telegram commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(configPath(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			// Context for graceful shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.NewScheduler(ctx, a.pipeline, a.loc, a.log)
			sched.StatePath = a.cfg.Schedule.StateFile
			if err := sched.Restore(); err != nil {
				a.log.Warn().Err(err).Msg("previous run state ignored")
			}
			if err := sched.RegisterDaily(a.cfg.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
			a.log.Info().Str("cron", a.cfg.Schedule.DailyCron).Str("timezone", a.loc.String()).Msg("daily run scheduled")

			if a.cfg.Telegram.Polling && a.telegram != nil {
				poller := notifier.NewPoller(a.telegram, telegramChats(a.recipients), a.log)
				go poller.Run(ctx, sched.HandleCommand)
				a.log.Info().Msg("telegram polling started")
			}

			if runOnStart {
				go func() {
					if _, err := sched.RunNow(ctx); err != nil {
						a.log.Error().Err(err).Msg("run on start failed")
					}
				}()
			}

			a.log.Info().Msg("GoldSentinel is running. Press Ctrl+C to stop.")
			<-ctx.Done()
			a.log.Info().Msg("shutdown signal received, stopping...")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run one check immediately")
	return cmd
}
