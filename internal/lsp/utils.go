package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"lgtls/internal/text"
)

func uriToPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", parsed.Scheme)
	}
	path := parsed.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func pathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

func fromProtocolPosition(p protocol.Position) text.Position {
	return text.Position{Line: int(p.Line), Column: int(p.Character)}
}

func toProtocolPosition(p text.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Column)}
}

func fromProtocolRange(r protocol.Range) text.Range {
	return text.Range{Start: fromProtocolPosition(r.Start), End: fromProtocolPosition(r.End)}
}

func toProtocolRange(r text.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

// toWorkspaceEdit converts a planned edit set into the protocol shape.
func toWorkspaceEdit(set *text.EditSet) *protocol.WorkspaceEdit {
	edits := make([]protocol.TextEdit, 0, len(set.Edits))
	for _, e := range set.Edits {
		edits = append(edits, protocol.TextEdit{
			Range:   toProtocolRange(e.Range),
			NewText: e.NewText,
		})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{set.URI: edits},
	}
}
