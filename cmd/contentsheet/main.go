// Command contentsheet checks content workbooks, converts them to document
// bundles and publishes the bundles to the document store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contentsheet/internal/application"
	"github.com/JonMunkholm/contentsheet/internal/config"
	"github.com/JonMunkholm/contentsheet/internal/core"
	"github.com/JonMunkholm/contentsheet/internal/logging"
	"github.com/JonMunkholm/contentsheet/internal/store"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}

// cli carries what every command shares. cfg is loaded before any command
// runs.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	envFile string
	cfg     *config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "contentsheet",
		Short: "Validate content workbooks and publish them as documents",
		Long: `contentsheet checks case study, learning topic and survey workbooks
against their schema and rules, converts valid workbooks to document
bundles, and publishes bundles to the document store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Environment file loaded before configuration")

	root.AddCommand(
		c.validateCmd(),
		c.parseCmd(),
		c.publishCmd(),
		c.rollbackCmd(),
		c.historyCmd(),
		c.initDBCmd(),
		c.serveCmd(),
	)
	return root
}

// setup loads the env file and configuration and installs the logger.
// Logs go to stderr so stdout stays clean for bundles.
func (c *cli) setup() error {
	if err := config.LoadEnvFile(c.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	logging.SetupWriter(c.errOut, cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// openStore connects to the configured store and creates its tables.
func (c *cli) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, store.Options{
		Driver:          c.cfg.Store.Driver,
		URL:             c.cfg.Store.URL,
		MaxConns:        c.cfg.Store.MaxConns,
		MinConns:        c.cfg.Store.MinConns,
		MaxConnLifetime: c.cfg.Store.MaxConnLifetime,
		MaxConnIdleTime: c.cfg.Store.MaxConnIdleTime,
		Path:            c.cfg.Store.Path,
	})
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		st.Close()
		return nil, err
	}
	slog.Debug("store opened", "store", st.Describe())
	return st, nil
}

// service returns the workbook service. st may be nil for kinds that do
// not read stored statements.
func (c *cli) service(st store.Store) *application.Service {
	if st == nil {
		return &application.Service{}
	}
	return &application.Service{Statements: st}
}
