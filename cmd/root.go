// Copyright © 2026 The futurec authors

// Package cmd implements the futurec command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/futurec/futurec/analysis"
	"github.com/futurec/futurec/lsp"
)

// Configuration keys. Each can be set in the config file, as a flag, or
// through a FUTUREC_ environment variable (dots become underscores).
const (
	keyCatalog      = "catalog"
	keyExtensions   = "extensions"
	keyWorkers      = "workers"
	keyDebounce     = "debounce"
	keyCheckTimeout = "check.timeout"
	keyRoot         = "root"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "futurec",
	Short: "futurec - FutureC script tooling",
	Long: `futurec finds, parses and checks the FutureC scripts embedded in host
files (SCRIPT: ... ENDSCRIPT blocks) and serves the results to editors
through the Language Server Protocol.

Getting started:
  futurec lsp                        Start the language server on stdio
  futurec check main.cpp             Check every script reachable from main.cpp
  futurec scripts main.cpp           List the reachable scripts in order
  futurec classify main.cpp 12:8     Classify the token under a cursor
  futurec index --db scripts.db      Export the script registry to SQLite
  futurec doc S.GetField             Show parser function documentation

Configuration is read from $HOME/.futurec.yaml (or --config) and from
FUTUREC_* environment variables:
  catalog        Parser function catalog file
                 (default .futurec/scriptautocompletedefs.json under the root)
  extensions     Host file extensions scanned for scripts (default [.cpp])
  workers        Concurrent script parses in whole-graph checks
  debounce       Delay before live diagnostics run (default 300ms)
  check.timeout  Bound on whole-graph checks (default 2m)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.futurec.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().String(keyRoot, ".", "Workspace root scanned for host files.")
	rootCmd.PersistentFlags().String(keyCatalog, "", "Parser function catalog file.")
	rootCmd.PersistentFlags().StringSlice(keyExtensions, analysis.DefaultExtensions,
		"Host file extensions scanned for scripts.")
	rootCmd.PersistentFlags().Int(keyWorkers, 0, "Concurrent script parses in whole-graph checks (0 = number of CPUs).")

	for _, key := range []string{keyRoot, keyCatalog, keyExtensions, keyWorkers} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyRoot, ".")
	v.SetDefault(keyExtensions, analysis.DefaultExtensions)
	v.SetDefault(keyDebounce, lsp.DefaultDebounce)
	v.SetDefault(keyCheckTimeout, lsp.DefaultCheckTimeout)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := loadConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
}

// loadConfig points v at the config file and the environment. A missing
// default config file is not an error; a missing explicit one is.
func loadConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".futurec")
	}

	v.SetEnvPrefix("FUTUREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// settings is the resolved configuration shared by the subcommands.
type settings struct {
	Root         string
	Catalog      string
	Extensions   []string
	Workers      int
	Debounce     time.Duration
	CheckTimeout time.Duration
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		Root:         v.GetString(keyRoot),
		Catalog:      v.GetString(keyCatalog),
		Extensions:   v.GetStringSlice(keyExtensions),
		Workers:      v.GetInt(keyWorkers),
		Debounce:     v.GetDuration(keyDebounce),
		CheckTimeout: v.GetDuration(keyCheckTimeout),
	}
}
