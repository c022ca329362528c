package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func decayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decay",
		Short: "Run one planet health decay pass",
		Long: `Lowers every planet above DECAY_FLOOR by DECAY_RATE once, using the same
per-user serialization and revision checks as the API. Intended for cron
when the in-process ticker (DECAY_ENABLED) is off.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			a.dispatcher.Start(ctx)
			decayed, err := a.decayService().Tick(ctx)
			if err != nil {
				return wrap("decay", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "decayed %d planets\n", decayed)
			return nil
		},
	}
}
