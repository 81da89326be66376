package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lgtls/internal/entity"
	"lgtls/internal/index"
	"lgtls/internal/refs"
)

func (ls *Server) textDocumentDefinition(
	glspContext *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	ctx := context.Background()
	doc, err := ls.docs.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	idx, err := ls.cache.Index(ctx, doc)
	if err != nil {
		return nil, err
	}

	ind, _, ok := refs.At(doc, idx, fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}

	// The open document wins over the index for its own file.
	local, err := refs.Find(ctx, doc, idx, ind, refs.Options{
		Roles: []refs.Role{refs.Declaration, refs.ClauseHead},
	})
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		locations := make([]protocol.Location, 0, len(local))
		for _, loc := range local {
			locations = append(locations, protocol.Location{
				URI:   doc.URI(),
				Range: toProtocolRange(loc.Range),
			})
		}
		return locations, nil
	}

	decls, err := ls.workspace.Store().LookupDeclarations(ind)
	if err != nil {
		return nil, err
	}
	locations := make([]protocol.Location, 0, len(decls))
	for _, d := range decls {
		locations = append(locations, protocol.Location{
			URI: pathToURI(ls.workspace.Abs(d.Path)),
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col)},
				End:   protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col + len(d.Name))},
			},
		})
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

func (ls *Server) textDocumentReferences(
	glspContext *glsp.Context,
	params *protocol.ReferenceParams,
) ([]protocol.Location, error) {
	ctx := context.Background()
	doc, err := ls.docs.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	idx, err := ls.cache.Index(ctx, doc)
	if err != nil {
		return nil, err
	}

	ind, _, ok := refs.At(doc, idx, fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}

	located, err := refs.Find(ctx, doc, idx, ind, refs.Options{})
	if err != nil {
		return nil, err
	}
	locations := make([]protocol.Location, 0, len(located))
	for _, loc := range located {
		if !params.Context.IncludeDeclaration && loc.Role == refs.Declaration {
			continue
		}
		locations = append(locations, protocol.Location{
			URI:   doc.URI(),
			Range: toProtocolRange(loc.Range),
		})
	}
	return locations, nil
}

func (ls *Server) textDocumentDocumentSymbol(
	glspContext *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (any, error) {
	ctx := context.Background()
	doc, err := ls.docs.Get(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	entities, err := ls.cache.Entities(ctx, doc)
	if err != nil {
		return nil, err
	}
	_, decls, err := index.ExtractFacts(ctx, doc.URI(), doc.Content())
	if err != nil {
		return nil, err
	}

	symbols := make([]protocol.DocumentSymbol, 0, len(entities))
	for _, e := range entities {
		span := protocol.Range{
			Start: toProtocolPosition(e.Start),
			End:   toProtocolPosition(e.End),
		}
		symbol := protocol.DocumentSymbol{
			Name:           e.Name,
			Kind:           entityKind(e.Kind),
			Range:          span,
			SelectionRange: toProtocolRange(e.NameRange),
		}
		for _, d := range decls {
			if d.Entity != e.Name || d.Role != "declaration" {
				continue
			}
			ind := refs.Indicator{Name: d.Name, Arity: d.Arity, Form: d.Form}
			sel := protocol.Range{
				Start: protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col)},
				End:   protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col + len(d.Name))},
			}
			symbol.Children = append(symbol.Children, protocol.DocumentSymbol{
				Name:           ind.String(),
				Kind:           protocol.SymbolKindFunction,
				Range:          sel,
				SelectionRange: sel,
			})
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func entityKind(k entity.Kind) protocol.SymbolKind {
	switch k {
	case entity.Protocol:
		return protocol.SymbolKindInterface
	case entity.Category:
		return protocol.SymbolKindModule
	default:
		return protocol.SymbolKindClass
	}
}

func (ls *Server) workspaceSymbol(
	glspContext *glsp.Context,
	params *protocol.WorkspaceSymbolParams,
) ([]protocol.SymbolInformation, error) {
	decls, entities, err := ls.workspace.Store().SearchSymbols(params.Query, 100)
	if err != nil {
		return nil, err
	}

	symbols := make([]protocol.SymbolInformation, 0, len(decls)+len(entities))
	for _, e := range entities {
		symbols = append(symbols, protocol.SymbolInformation{
			Name: e.Name,
			Kind: entityKind(e.Kind),
			Location: protocol.Location{
				URI: pathToURI(ls.workspace.Abs(e.Path)),
				Range: protocol.Range{
					Start: protocol.Position{Line: uint32(e.StartLine), Character: 0},
					End:   protocol.Position{Line: uint32(e.EndLine), Character: 0},
				},
			},
		})
	}
	for _, d := range decls {
		ind := refs.Indicator{Name: d.Name, Arity: d.Arity, Form: d.Form}
		containerName := d.Entity
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          ind.String(),
			Kind:          protocol.SymbolKindFunction,
			ContainerName: &containerName,
			Location: protocol.Location{
				URI: pathToURI(ls.workspace.Abs(d.Path)),
				Range: protocol.Range{
					Start: protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col)},
					End:   protocol.Position{Line: uint32(d.Line), Character: uint32(d.Col + len(d.Name))},
				},
			},
		})
	}
	return symbols, nil
}
