package main

import (
	"github.com/hearthledger/budget-backend/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "overspendctl",
		Short:         "Overspend support tooling",
		Long:          "Inspect and replay household overspend processing outside the API server.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.InitLogger()
		},
	}
	root.AddCommand(newReplayCmd(), newConfigCmd())
	return root
}
