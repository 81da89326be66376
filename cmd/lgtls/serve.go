package main

import (
	"fmt"
	"path/filepath"

	"lgtls/internal/lsp"
)

func runServe(rootPath string, verbosity int, logPath string) error {
	if err := configureLogging(verbosity, logPath); err != nil {
		return err
	}
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve root: %w", err)
	}

	server, err := lsp.NewServer(root)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return server.RunStdio()
}
