package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contentsheet/internal/admin"
	"github.com/JonMunkholm/contentsheet/internal/application"
	"github.com/JonMunkholm/contentsheet/internal/core/kinds"
	"github.com/JonMunkholm/contentsheet/internal/docs"
	"github.com/JonMunkholm/contentsheet/internal/store"
	"github.com/JonMunkholm/contentsheet/internal/web"
)

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <kind> <workbook.xlsx>",
		Short: "Check a workbook against its kind's schema and rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if err := c.service(nil).CheckFile(cmd.Context(), kind, path); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s: valid %s workbook\n", path, kind)
			return nil
		},
	}
}

func (c *cli) parseCmd() *cobra.Command {
	var (
		outDir string
		format string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "parse <kind> <workbook.xlsx>",
		Short: "Convert a valid workbook to a document bundle",
		Long: `parse validates the workbook and writes its documents to
<output-dir>/<workbook name>.<format>. Surveys that build questions from
self-assessment statements read them from the configured store.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if format == "" {
				format = c.cfg.Output.Format
			}
			if outDir == "" {
				outDir = c.cfg.Output.Dir
			}

			b, err := c.parse(cmd.Context(), kind, path)
			if err != nil {
				return err
			}
			if stdout {
				return b.Encode(c.out, format)
			}
			dest, err := writeBundle(b, outDir, application.BundleName(path, format), format)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "wrote %d documents to %s\n", len(b.Docs), dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "Directory for the bundle (default: OUTPUT_DIR)")
	cmd.Flags().StringVar(&format, "format", "", "Bundle format: json or yaml (default: OUTPUT_FORMAT)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the bundle to stdout instead of a file")
	return cmd
}

// parse builds the bundle of a workbook, opening the store for surveys.
func (c *cli) parse(ctx context.Context, kind, path string) (*docs.Bundle, error) {
	var st store.Store
	if kind == kinds.Survey {
		var err error
		if st, err = c.openStore(ctx); err != nil {
			return nil, err
		}
		defer st.Close()
	}
	return c.service(st).ParseFile(ctx, kind, path)
}

func writeBundle(b *docs.Bundle, dir, name, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create bundle file: %w", err)
	}
	if err := b.Encode(f, format); err != nil {
		f.Close()
		return "", err
	}
	return dest, f.Close()
}

func (c *cli) publishCmd() *cobra.Command {
	var (
		yes  bool
		mode string
	)
	cmd := &cobra.Command{
		Use:   "publish <kind> <bundle.json|workbook.xlsx>",
		Short: "Write a document bundle to the store",
		Long: `publish writes a bundle under its partition key. A workbook is
validated and converted first. The target store and any replacement of
existing documents must be confirmed by typing YES, unless --yes is set.

Surveys are created by default: other active surveys of the partition are
deactivated. --mode update replaces the active survey instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			ctx := cmd.Context()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			b, err := c.loadBundle(ctx, st, kind, path)
			if err != nil {
				return err
			}

			p := c.publisher(st, yes)
			res, err := p.Publish(ctx, admin.Request{
				Kind:   kind,
				Bundle: b,
				Source: filepath.Base(path),
				Mode:   mode,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %s: %d written, %d deleted, %d deactivated (upload %s)\n",
				res.Action, res.PartitionKey, res.Written, res.Deleted, res.Deactivated, res.UploadID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().StringVar(&mode, "mode", admin.ModeCreate, "Survey publish mode: create or update")
	return cmd
}

// loadBundle reads a bundle file, or parses a workbook when path is .xlsx.
func (c *cli) loadBundle(ctx context.Context, st store.Store, kind, path string) (*docs.Bundle, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return c.service(st).ParseFile(ctx, kind, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()
	return docs.ReadBundle(f)
}

func (c *cli) publisher(st store.Store, yes bool) *admin.Publisher {
	p := &admin.Publisher{Store: st, Timeout: c.cfg.Store.Timeout}
	if yes {
		p.Confirm = admin.AutoConfirm{}
	} else {
		p.Confirm = &admin.PromptConfirmer{In: c.in, Out: c.errOut}
	}
	return p
}

func (c *cli) rollbackCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rollback <upload-id>",
		Short: "Delete every document written by one upload",
		Long: `rollback deletes the documents an upload wrote. Documents the upload
replaced are not restored; republish the earlier bundle for that.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			entry, err := c.publisher(st, yes).Rollback(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "rolled back %s: %d documents deleted\n", args[0], entry.Docs)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var (
		partition string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent uploads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			uploads, err := st.Uploads(ctx, store.UploadFilter{PartitionKey: partition, Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tACTION\tKIND\tPARTITION\tDOCS\tSOURCE\tCREATED")
			for _, u := range uploads {
				source := u.Source
				if u.RelatedID != "" {
					source = u.RelatedID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					u.ID, u.Action, u.Kind, u.PartitionKey, u.Docs, source, u.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&partition, "partition", "", "Only uploads of this partition key")
	cmd.Flags().IntVar(&limit, "limit", store.DefaultUploadLimit, "Maximum number of uploads")
	return cmd
}

func (c *cli) initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the store's tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintf(c.out, "initialized %s\n", st.Describe())
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the upload page and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	server := web.NewServer(c.cfg, c.service(st), st)

	// Background jobs stop with the server.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	go admin.StartRetention(jobCtx, st, admin.RetentionConfig{
		KeepDays:      c.cfg.History.RetentionDays,
		CheckInterval: c.cfg.History.CheckInterval,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(c.cfg.Server.Addr())
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	slog.Info("shutting down...")
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
