package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/handler/params"
	"github.com/yumyai/keggmap/pkg/render"
	"go.uber.org/zap"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		outDir  string
		svgz    bool
		colorBy string
	)

	cmd := &cobra.Command{
		Use:   "render [map_id...]",
		Short: "Render maps to SVG files (all available maps when no id is given)",
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

			maps, err := w.CreateMaps(args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			ids := make([]string, 0, len(maps))
			for id := range maps {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			renderer := render.NewRenderer(nil)
			color := params.ParseColorMode(colorBy).Func()
			ext := ".svg"
			if svgz {
				ext = ".svgz"
			}

			for _, id := range ids {
				bg, err := w.Background(id)
				if err != nil {
					logger.Warn("No background for map", zap.String("map_id", id), zap.Error(err))
					bg = nil
				}
				path := filepath.Join(outDir, fmt.Sprintf("%s%s%s", w.OrgString(), id, ext))
				if err := renderer.SaveFile(path, maps[id], bg, color, svgz); err != nil {
					return err
				}
				fmt.Fprintln(c.Out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&svgz, "svgz", false, "write gzip-compressed .svgz files")
	cmd.Flags().StringVar(&colorBy, "color-by", "kind", "kind, random or count")

	return cmd
}
