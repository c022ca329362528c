package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethwel3001/Eco-mission/internal/infrastructure/catalog"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert catalog missions that are not yet published",
		Long: `Reads a mission catalog (YAML) and publishes every mission whose id is
unknown. Existing missions are never modified. Without --file the
CATALOG_SEED_FILE variable is used, falling back to the built-in catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if file == "" {
				file = a.cfg.CatalogSeedFile
			}
			missions, err := catalog.LoadFile(file)
			if err != nil {
				return wrap("load catalog", err)
			}
			inserted, err := a.catalog.Seed(ctx, missions)
			if err != nil {
				return wrap("seed catalog", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d missions\n", inserted, len(missions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file")
	return cmd
}
