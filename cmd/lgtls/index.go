package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lgtls/internal/config"
	"lgtls/internal/index"
)

func indexCmd(rootPath *string, verbosity *int) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build or refresh the workspace symbol index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configureLogging(*verbosity, ""); err != nil {
				return err
			}
			root, err := filepath.Abs(*rootPath)
			if err != nil {
				return fmt.Errorf("failed to resolve root: %w", err)
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			indexPath := cfg.ResolveIndexPath(root)
			if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
				return fmt.Errorf("failed to create index directory: %w", err)
			}
			store, err := index.Open(indexPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ws := index.NewWorkspace(root, cfg, store)
			return ws.Build(cmd.Context())
		},
	}
}
