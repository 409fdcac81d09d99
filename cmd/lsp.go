// Copyright © 2026 The futurec authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/futurec/futurec/lsp"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders can pass WithCatalog to fix the parser
// function catalog instead of loading it from the workspace.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newConfig(opts)

	var (
		stdio     bool
		port      int
		logFile   string
		verbosity int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the futurec Language Server Protocol server",
		Long: `Start an LSP server for FutureC scripts embedded in host files.

The language server provides live diagnostics, hover documentation for
parser functions and included scripts, completion, signature help,
go-to-definition and references for script numbers, document and
workspace symbols, folding ranges, quick fixes, and the custom requests
used by the editor extension (custom/GetDiagnosticsForAllScripts,
custom/GetScriptNumber, custom/getHookStart, ...).

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Logging goes to stderr, or to --log-file. Repeat -v for more detail.

Examples:
  futurec lsp                               Start with stdio transport
  futurec lsp --port 7998                   Start with TCP on port 7998
  futurec lsp -vv --log-file /tmp/lsp.log   Debug logging to a file`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)

			s := settingsFrom(viper.GetViper())
			srv := lsp.New(serverOptions(s, &cfg)...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				fmt.Fprintf(os.Stderr, "futurec LSP server listening on %s\n", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVar(&logFile, "log-file", "",
		"Write logs to this file instead of stderr")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v",
		"Increase log verbosity (repeatable)")
	cmd.Flags().Duration(keyDebounce, lsp.DefaultDebounce,
		"Delay between the last edit and the diagnostics run")
	cmd.Flags().Duration("check-timeout", lsp.DefaultCheckTimeout,
		"Bound on whole-graph checks (0 disables it)")
	_ = viper.BindPFlag(keyDebounce, cmd.Flags().Lookup(keyDebounce))
	_ = viper.BindPFlag(keyCheckTimeout, cmd.Flags().Lookup("check-timeout"))

	return cmd
}

// serverOptions translates the configuration into server options. A
// configured catalog file that fails to load is reported and ignored so
// that the server still starts.
func serverOptions(s settings, cfg *cmdConfig) []lsp.Option {
	opts := []lsp.Option{
		lsp.WithExtensions(s.Extensions),
		lsp.WithWorkers(s.Workers),
		lsp.WithDebounce(s.Debounce),
		lsp.WithCheckTimeout(s.CheckTimeout),
	}
	if s.Root != "" && s.Root != "." {
		opts = append(opts, lsp.WithRoot(s.Root))
	}
	switch {
	case cfg.catalog != nil:
		opts = append(opts, lsp.WithCatalog(cfg.catalog))
	case s.Catalog != "":
		if cat, err := cfg.resolveCatalog(s); err != nil {
			fmt.Fprintf(os.Stderr, "catalog: %v\n", err)
		} else {
			opts = append(opts, lsp.WithCatalog(cat))
		}
	}
	return opts
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
