// Package main provides the lgtls binary: a Logtalk language server with
// a few command-line helpers for scripting the same analyses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const appName = "lgtls"

var version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		rootPath  string
		verbosity int
		logPath   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Logtalk language server",
		Long: `lgtls is a language server for Logtalk sources. It scans documents
structurally, without a full grammar, and answers navigation, reference
and refactoring requests over stdio.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootPath, verbosity, logPath)
		},
	}

	cmd.PersistentFlags().StringVar(&rootPath, "root", ".", "Workspace root")
	cmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 1, "Log verbosity")
	cmd.Flags().StringVar(&logPath, "log", "", "Log file path (default: stderr only)")

	cmd.AddCommand(indexCmd(&rootPath, &verbosity))
	cmd.AddCommand(refsCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, version)
		},
	})

	return cmd
}

func configureLogging(verbosity int, logPath string) error {
	if logPath != "" {
		commonlog.Configure(verbosity, &logPath)
		return nil
	}
	commonlog.Configure(verbosity, nil)
	return nil
}
