package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lgtls/internal/refs"
	"lgtls/internal/scanner"
	"lgtls/internal/text"
)

func refsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <file> <name/arity>",
		Short: "List references to a predicate or non-terminal in one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, spec := args[0], args[1]
			ind, err := refs.Parse(spec)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			doc := text.NewDocument(path, 0, string(content))
			idx, err := scanner.NewIndex(cmd.Context(), doc)
			if err != nil {
				return err
			}
			located, err := refs.Find(cmd.Context(), doc, idx, ind, refs.Options{})
			if err != nil {
				return err
			}

			for _, loc := range located {
				fmt.Printf("%s:%d:%d: %s %s\n",
					path,
					loc.Range.Start.Line+1,
					loc.Range.Start.Column+1,
					loc.Role,
					doc.Slice(loc.Range),
				)
			}
			return nil
		},
	}
}
