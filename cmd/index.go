// Copyright © 2026 The futurec authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futurec/futurec/document"
	"github.com/futurec/futurec/index"
)

type indexOptions struct {
	db     string
	lookup int
}

// IndexCommand creates the "index" cobra command.
func IndexCommand(opts ...Option) *cobra.Command {
	cfg := newConfig(opts)
	var ixo indexOptions

	cmd := &cobra.Command{
		Use:   "index --db PATH [flags]",
		Short: "Export the script registry to SQLite",
		Long: `Export every script block under the workspace root to a SQLite
database, together with its includescript references and hook markers.
An existing database is replaced.

With --lookup the database is not rebuilt; the command prints where the
given script number is defined, which blocks insert into its hooks, and
which scripts include it.

Examples:
  futurec index --db scripts.db --root ../Standard
  futurec index --db scripts.db --lookup 107`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			s := settingsFrom(viper.GetViper())
			var err error
			if cmd.Flags().Changed("lookup") {
				err = runLookup(cmd.Context(), os.Stdout, ixo)
			} else {
				err = runIndex(cmd.Context(), os.Stderr, s, &cfg, ixo)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitUsage)
			}
		},
	}
	cmd.Flags().StringVar(&ixo.db, "db", "", "SQLite database path.")
	cmd.Flags().IntVar(&ixo.lookup, "lookup", 0, "Print the entries of a script number instead of indexing.")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runIndex(ctx context.Context, w io.Writer, s settings, cfg *cmdConfig, opts indexOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := cfg.resolveCatalog(s)
	if err != nil {
		return err
	}
	ws, err := loadWorkspace(s, cat)
	if err != nil {
		return err
	}
	ix, err := ws.Index()
	if err != nil {
		return err
	}

	db, err := index.Open(opts.db)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-only after Store
	if err := db.Store(ctx, ix); err != nil {
		return err
	}
	n, err := db.Count(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "indexed %d blocks from %s into %s\n", n, s.Root, db.Path())
	return err
}

func runLookup(ctx context.Context, w io.Writer, opts indexOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := os.Stat(opts.db); err != nil {
		return fmt.Errorf("no index at %s: %w", opts.db, err)
	}
	db, err := index.Open(opts.db)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // read-only

	entries, err := db.Lookup(ctx, opts.lookup)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("script %d is not defined", opts.lookup)
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s:%d\n", e.Kind, e.Number, e.Name, document.PathFromURI(e.URI), e.StartLine+1)
	}

	hooks, err := db.Hooks(ctx, opts.lookup)
	if err != nil {
		return err
	}
	for _, h := range hooks {
		fmt.Fprintf(w, "hook\t%s\n", h)
	}

	refs, err := db.Includers(ctx, opts.lookup)
	if err != nil {
		return err
	}
	for _, r := range refs {
		fmt.Fprintf(w, "included by\t%d\t%s\t%s:%d\n", r.Script.Number, r.Script.Name, document.PathFromURI(r.Script.URI), r.Line+1)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(IndexCommand())
}
