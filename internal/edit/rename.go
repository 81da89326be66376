package edit

import (
	"context"
	"strings"

	"lgtls/internal/refs"
	"lgtls/internal/text"
)

// Rename plans the renaming of every reference to ind: declaration,
// documentation, cross-references, clause heads and body calls. The
// replacement spelling is quoted when the new name needs it.
func (p *Planner) Rename(ctx context.Context, doc *text.Document, ind refs.Indicator, newName string) (Outcome, error) {
	if newName == ind.Name {
		return notApplicable("new name %q equals the current name", newName), nil
	}
	if !validAtom(newName) {
		return notApplicable("%q is not a valid predicate name", newName), nil
	}

	idx, err := p.cache.Index(ctx, doc)
	if err != nil {
		return Outcome{}, err
	}
	located, err := refs.Find(ctx, doc, idx, ind, refs.Options{})
	if err != nil {
		return Outcome{}, err
	}
	if len(located) == 0 {
		return notApplicable("no references to %s", ind), nil
	}

	replacement := spellAtom(newName)
	edits := make([]text.Edit, 0, len(located))
	for _, loc := range located {
		edits = append(edits, text.Edit{
			Range:   loc.Range,
			NewText: replacement,
			Anchor:  doc.Slice(loc.Range),
		})
	}
	set, err := text.NewEditSet(doc, edits)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Set: set}, nil
}

// validAtom accepts a plain atom or anything that survives quoting.
func validAtom(name string) bool {
	return name != "" && !strings.ContainsAny(name, "\n\r")
}

// spellAtom renders a name in source form, quoting unless it is a plain
// lower-case atom.
func spellAtom(name string) string {
	plain := name[0] >= 'a' && name[0] <= 'z'
	for i := 0; plain && i < len(name); i++ {
		ch := name[i]
		plain = ch == '_' ||
			(ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9')
	}
	if plain {
		return name
	}
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
