package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "farmd",
		Short:         "yield farming ledger daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path of the toml config file")
	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env", nil, "dotenv files with FARMD_ variables")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enables debug logs")
	rootCmd.AddCommand(serveCommand(opts))
	rootCmd.AddCommand(deriveCommand(opts))
	rootCmd.AddCommand(callCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error :", err)
		os.Exit(1)
	}
}
