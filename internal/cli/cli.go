// Package cli implements the keggwizard command-line interface: downloading
// KEGG data, rendering maps to files and listing what is available.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yumyai/keggmap/logger"
	"github.com/yumyai/keggmap/pkg/config"
	"github.com/yumyai/keggmap/pkg/db"
	"github.com/yumyai/keggmap/pkg/wizard"
)

// CLI holds shared state for all commands.
type CLI struct {
	Out io.Writer

	dataDir  string
	orgs     string
	logLevel string
}

func New(out io.Writer) *CLI {
	return &CLI{Out: out}
}

// RootCommand creates the root cobra command with all subcommands registered.
// Flags left unset fall back to the environment (see config.Load).
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "keggwizard",
		Short:        "Download KEGG pathway maps and render them as annotated SVG",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.configure()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data", "", "data directory (default $KEGG_MAP_WIZARD_DATA or ./data)")
	flags.StringVar(&c.orgs, "org", "", "comma separated organisms (default $KEGGMAP_ORGS or ko)")
	flags.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(c.downloadCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())

	return root
}

func (c *CLI) configure() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if c.dataDir == "" {
		c.dataDir = cfg.DataDir
	}
	if c.orgs == "" {
		c.orgs = strings.Join(cfg.Orgs, ",")
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = logger.ParseLevel(c.logLevel)
	}
	return logger.InitLogger(level)
}

func (c *CLI) orgList() []string {
	return config.ParseOrgs(c.orgs)
}

func (c *CLI) openStore(ctx context.Context) (*db.KeggDB, error) {
	return db.Open(ctx, c.dataDir)
}

func (c *CLI) newWizard(ctx context.Context, store *db.KeggDB) (*wizard.Wizard, error) {
	return wizard.New(ctx, c.orgList(), store)
}

