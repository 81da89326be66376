package lsp

import (
	"fmt"
	"os"
	"path/filepath"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"lgtls/internal/cache"
	"lgtls/internal/config"
	"lgtls/internal/edit"
	"lgtls/internal/index"
)

const lsName = "lgtls"

var version = "0.1.0"

// Server holds the language server state: the open documents, the derived
// result cache, the edit planner and the workspace index.
type Server struct {
	root      string
	cfg       config.Config
	docs      *DocumentManager
	cache     *cache.Store
	planner   *edit.Planner
	workspace *index.Workspace
	scheduler *index.Scheduler
	watcher   *index.Watcher
	handler   *protocol.Handler
}

func NewServer(root string) (*server.Server, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	indexPath := cfg.ResolveIndexPath(root)
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	store, err := index.Open(indexPath)
	if err != nil {
		return nil, err
	}

	c := cache.New()
	ls := &Server{
		root:      root,
		cfg:       cfg,
		docs:      NewDocumentManager(),
		cache:     c,
		planner:   edit.NewPlanner(c),
		workspace: index.NewWorkspace(root, cfg, store),
		scheduler: index.NewScheduler(64),
	}

	ls.handler = &protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidSave:            ls.textDocumentDidSave,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentDefinition:         ls.textDocumentDefinition,
		TextDocumentReferences:         ls.textDocumentReferences,
		TextDocumentDocumentSymbol:     ls.textDocumentDocumentSymbol,
		TextDocumentPrepareRename:      ls.textDocumentPrepareRename,
		TextDocumentRename:             ls.textDocumentRename,
		WorkspaceSymbol:                ls.workspaceSymbol,
		WorkspaceExecuteCommand:        ls.workspaceExecuteCommand,
		WorkspaceDidChangeWatchedFiles: ls.workspaceDidChangeWatchedFiles,
	}

	return server.NewServer(ls.handler, lsName, false), nil
}
