package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"lgtls/internal/edit"
	"lgtls/internal/refs"
)

func (ls *Server) textDocumentPrepareRename(
	glspContext *glsp.Context,
	params *protocol.PrepareRenameParams,
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
	_, rng, ok := refs.At(doc, idx, fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}
	return toProtocolRange(rng), nil
}

func (ls *Server) textDocumentRename(
	glspContext *glsp.Context,
	params *protocol.RenameParams,
) (*protocol.WorkspaceEdit, error) {
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

	outcome, err := ls.planner.Rename(ctx, doc, ind, params.NewName)
	if err != nil {
		return nil, err
	}
	if !outcome.Applicable() {
		return nil, fmt.Errorf("cannot rename: %s", outcome.Reason)
	}
	return toWorkspaceEdit(outcome.Set), nil
}

// commandArgs is the JSON argument object of every structural refactoring
// command.
type commandArgs struct {
	URI         string          `json:"uri"`
	Line        int             `json:"line"`
	Name        string          `json:"name"`
	Indicator   string          `json:"indicator"`
	Position    int             `json:"position"`
	Placeholder string          `json:"placeholder"`
	Order       []int           `json:"order"`
	Selection   *protocol.Range `json:"selection"`
}

const commandPrefix = "lgtls."

func commandNames() []string {
	names := make([]string, 0, 6)
	for _, op := range []edit.StructuralOp{
		edit.OpExtractProtocol,
		edit.OpConvertToCategory,
		edit.OpAddArgument,
		edit.OpRemoveArgument,
		edit.OpReorderArguments,
		edit.OpExtractPredicate,
	} {
		names = append(names, commandPrefix+string(op))
	}
	return names
}

// commandOutcome is what executeCommand reports back to the client.
type commandOutcome struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

func (ls *Server) workspaceExecuteCommand(
	glspContext *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	op, args, err := parseCommand(params)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	doc, err := ls.docs.Get(args.URI)
	if err != nil {
		return nil, err
	}

	structParams := edit.StructuralParams{
		Line:        args.Line,
		Name:        args.Name,
		Position:    args.Position,
		Placeholder: args.Placeholder,
		Order:       args.Order,
	}
	if args.Indicator != "" {
		ind, err := refs.Parse(args.Indicator)
		if err != nil {
			return nil, err
		}
		structParams.Indicator = ind
	}
	if args.Selection != nil {
		sel := fromProtocolRange(*args.Selection)
		structParams.Selection = &sel
	}

	outcome, err := ls.planner.Structural(ctx, doc, op, structParams)
	if err != nil {
		return nil, err
	}
	if !outcome.Applicable() {
		return commandOutcome{Reason: outcome.Reason}, nil
	}

	var applyResult protocol.ApplyWorkspaceEditResponse
	glspContext.Call("workspace/applyEdit", protocol.ApplyWorkspaceEditParams{
		Edit: *toWorkspaceEdit(outcome.Set),
	}, &applyResult)
	if !applyResult.Applied {
		reason := "client rejected the edit"
		if applyResult.FailureReason != nil {
			reason = *applyResult.FailureReason
		}
		return commandOutcome{Reason: reason}, nil
	}
	return commandOutcome{Applied: true}, nil
}

func parseCommand(params *protocol.ExecuteCommandParams) (edit.StructuralOp, commandArgs, error) {
	var args commandArgs
	if len(params.Command) <= len(commandPrefix) || params.Command[:len(commandPrefix)] != commandPrefix {
		return "", args, fmt.Errorf("%w: unknown command %q", ErrBadCommand, params.Command)
	}
	op := edit.StructuralOp(params.Command[len(commandPrefix):])
	if len(params.Arguments) != 1 {
		return "", args, fmt.Errorf("%w: expected one argument object", ErrBadCommand)
	}
	raw, err := json.Marshal(params.Arguments[0])
	if err != nil {
		return "", args, fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", args, fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if args.URI == "" {
		return "", args, fmt.Errorf("%w: missing uri", ErrBadCommand)
	}
	return op, args, nil
}
