package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

func (c *CLI) listCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List downloaded maps (or every known map with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			w, err := c.newWizard(ctx, store)
			if err != nil {
				return err
			}

			var available []string
			if !all {
				available, err = w.AvailableMaps()
				if err != nil {
					return err
				}
			}

			for _, t := range w.MapTitles() {
				if !all && !slices.Contains(available, t.MapID) {
					continue
				}
				fmt.Fprintf(c.Out, "%s\t%s\n", t.MapID, t.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include maps that are not downloaded")
	return cmd
}
