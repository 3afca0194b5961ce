package cli

import (
	"sort"

	"github.com/spf13/cobra"
	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/fetch"
	"go.uber.org/zap"
)

func (c *CLI) downloadCommand() *cobra.Command {
	var (
		reload   bool
		restOnly bool
		restURL  string
		pngURL   string
	)

	cmd := &cobra.Command{
		Use:   "download [map_id...]",
		Short: "Download rest lists, map images and configs (all maps when no id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			d := fetch.NewDownloader(store)
			if restURL != "" {
				d.RestURL = restURL
			}
			if pngURL != "" {
				d.PNGURL = pngURL
			}

			orgs := c.orgList()
			if err := d.DownloadRestData(ctx, orgs, reload); err != nil {
				return err
			}
			if restOnly {
				return nil
			}

			mapIDs := args
			if len(mapIDs) == 0 {
				titles, err := store.Rest.MapTitles(ctx)
				if err != nil {
					return err
				}
				for id := range titles {
					mapIDs = append(mapIDs, id)
				}
				sort.Strings(mapIDs)
			}

			for _, org := range orgs {
				logger.Info("Downloading maps", zap.String("org", org), zap.Int("maps", len(mapIDs)))
				if err := d.DownloadMaps(ctx, org, mapIDs, reload); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", false, "download again even if files exist")
	cmd.Flags().BoolVar(&restOnly, "rest-only", false, "only download the rest lists")
	cmd.Flags().StringVar(&restURL, "rest-url", "", "KEGG rest endpoint")
	cmd.Flags().StringVar(&pngURL, "png-url", "", "KEGG map image endpoint")
	cmd.Flags().MarkHidden("rest-url")
	cmd.Flags().MarkHidden("png-url")

	return cmd
}
