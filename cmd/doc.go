// Copyright © 2026 The futurec authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futurec/futurec/help"
)

// DocCommand creates the "doc" cobra command. Embedders can pass
// WithCatalog to document their own parser functions.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newConfig(opts)
	var missing bool

	cmd := &cobra.Command{
		Use:   "doc [flags] [NS[.FUNC]]",
		Short: "Show parser function documentation",
		Long: `Show documentation for the parser functions scripts can call.

With no argument, lists the namespaces of the catalog. With a namespace
name, documents every function in it. With a qualified name such as
S.GetField, documents that function.

The catalog is the configured catalog file, else the first of
.futurec/scriptautocompletedefs.{json,yaml,yml} under the workspace root,
else the built-in catalog.

Use --missing to list catalog entries without documentation; the command
then exits with status 1 when any are found.

Examples:
  futurec doc                  List namespaces
  futurec doc S                Document the S namespace
  futurec doc S.GetField       Document one function
  futurec doc --missing        Find undocumented entries`,
		Args: cobra.MaximumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			s := settingsFrom(viper.GetViper())
			code, err := runDoc(os.Stdout, s, &cfg, args, missing)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			if code != exitOK {
				os.Exit(code)
			}
		},
	}
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List catalog entries without documentation.")
	return cmd
}

func runDoc(w io.Writer, s settings, cfg *cmdConfig, args []string, missing bool) (int, error) {
	cat, err := cfg.resolveCatalog(s)
	if err != nil {
		return exitUsage, err
	}
	out := bufio.NewWriter(w)
	defer out.Flush() //nolint:errcheck // best-effort flush on exit

	if missing {
		entries := help.CheckMissing(cat)
		for _, m := range entries {
			fmt.Fprintf(out, "%s %s\n", m.Kind, m.Name)
		}
		if len(entries) > 0 {
			return exitProblems, nil
		}
		return exitOK, nil
	}

	if len(args) == 0 {
		err = help.RenderNamespaceList(out, cat)
	} else if strings.Contains(args[0], ".") {
		err = help.RenderFunction(out, cat, args[0])
	} else {
		err = help.RenderNamespace(out, cat, args[0])
	}
	if err != nil {
		return exitProblems, err
	}
	return exitOK, nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
