package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPreviewCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the reports without sending them or writing the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(configPath(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range summary.Result.Reports {
				if i > 0 {
					fmt.Fprintln(out, strings.Repeat("=", 40))
				}
				fmt.Fprintf(out, "Subject: %s\n\n%s\n", r.Subject, r.Body())
			}
			fmt.Fprintf(out, "\n%d deliveries planned\n", len(summary.Result.Plan))
			return nil
		},
	}
}
