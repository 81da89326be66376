package lsp

import "errors"

var (
	ErrDocumentNotOpen = errors.New("document not open")
	ErrBadCommand      = errors.New("bad command arguments")
)
