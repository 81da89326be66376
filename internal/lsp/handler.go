package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lgtls/internal/index"
	"lgtls/internal/text"
)

func (ls *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: commandNames(),
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (ls *Server) initialized(
	glspContext *glsp.Context,
	params *protocol.InitializedParams,
) error {
	ls.scheduler.Run()
	ls.scheduler.Schedule(index.Task{
		Name:    "initial build",
		Execute: func() error { return ls.workspace.Build(context.Background()) },
	})

	watcher, err := index.NewWatcher(ls.workspace, ls.scheduler)
	if err != nil {
		return fmt.Errorf("failed to start workspace watcher: %w", err)
	}
	ls.watcher = watcher
	go watcher.Run(context.Background())
	return nil
}

func (ls *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	if ls.watcher != nil {
		ls.watcher.Close()
	}
	ls.scheduler.Stop()
	return ls.workspace.Store().Close()
}

func (ls *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(
	glspContext *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	doc := ls.docs.Open(params.TextDocument.URI, params.TextDocument.Text)
	ls.publishDiagnostics(glspContext, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(
	glspContext *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	var doc *text.Document
	var err error
	for _, change := range params.ContentChanges {
		switch contentChange := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc, err = ls.docs.Replace(uri, contentChange.Text)
		case protocol.TextDocumentContentChangeEvent:
			if contentChange.Range == nil {
				doc, err = ls.docs.Replace(uri, contentChange.Text)
				break
			}
			doc, err = ls.docs.Splice(uri, fromProtocolRange(*contentChange.Range), contentChange.Text)
		}
		if err != nil {
			return err
		}
	}
	if doc != nil {
		ls.publishDiagnostics(glspContext, doc)
	}
	return nil
}

func (ls *Server) textDocumentDidSave(
	glspContext *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	if ls.workspace.Contains(path) {
		ls.scheduler.Schedule(index.Task{
			Name:    "index " + path,
			Execute: func() error { return ls.workspace.IndexFile(context.Background(), path) },
		})
	}
	return nil
}

func (ls *Server) textDocumentDidClose(
	glspContext *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	ls.docs.Close(params.TextDocument.URI)
	ls.cache.Invalidate(params.TextDocument.URI)
	return nil
}

func (ls *Server) workspaceDidChangeWatchedFiles(
	glspContext *glsp.Context,
	params *protocol.DidChangeWatchedFilesParams,
) error {
	for _, change := range params.Changes {
		path, err := uriToPath(change.URI)
		if err != nil {
			continue
		}
		if !ls.workspace.Contains(path) {
			continue
		}
		p := path
		if change.Type == protocol.FileChangeTypeDeleted {
			ls.scheduler.Schedule(index.Task{
				Name:    "forget " + p,
				Execute: func() error { return ls.workspace.Forget(p) },
			})
		} else {
			ls.scheduler.Schedule(index.Task{
				Name:    "index " + p,
				Execute: func() error { return ls.workspace.IndexFile(context.Background(), p) },
			})
		}
	}
	return nil
}

// publishDiagnostics reports the unterminated quoted literals of one
// document snapshot.
func (ls *Server) publishDiagnostics(glspContext *glsp.Context, doc *text.Document) {
	if !ls.cfg.DiagnosticsEnabled() {
		return
	}
	idx, err := ls.cache.Index(context.Background(), doc)
	if err != nil {
		return
	}

	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	for _, line := range idx.Malformed() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: 0},
				End:   protocol.Position{Line: uint32(line), Character: uint32(len(doc.Line(line)))},
			},
			Severity: &severity,
			Source:   &source,
			Message:  "unterminated quoted literal",
		})
	}

	glspContext.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         doc.URI(),
		Diagnostics: diagnostics,
	})
}
