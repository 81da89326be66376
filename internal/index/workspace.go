package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"lgtls/internal/config"
)

// Workspace ties the index store to a workspace root: it knows which
// files belong to the source set and keeps their index rows current.
type Workspace struct {
	root  string
	cfg   config.Config
	store *Store
	log   commonlog.Logger
}

func NewWorkspace(root string, cfg config.Config, store *Store) *Workspace {
	return &Workspace{
		root:  root,
		cfg:   cfg,
		store: store,
		log:   commonlog.GetLogger("index"),
	}
}

func (w *Workspace) Store() *Store { return w.store }

// Rel maps an absolute path to the workspace-relative form used as the
// index key.
func (w *Workspace) Rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Abs maps an index key back to an absolute path.
func (w *Workspace) Abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// Contains reports whether an absolute path belongs to the indexed
// source set.
func (w *Workspace) Contains(path string) bool {
	rel, ok := w.Rel(path)
	return ok && w.cfg.Matches(rel)
}

// Build walks the workspace and indexes every matching file whose
// checksum changed, fanning the per-file work out over the CPUs.
func (w *Workspace) Build(ctx context.Context) error {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if w.Contains(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk workspace: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return w.IndexFile(gctx, path)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	w.log.Infof("indexed %d files under %s", len(paths), w.root)
	return nil
}

// IndexFile refreshes one file's rows, skipping work when the content
// checksum is unchanged.
func (w *Workspace) IndexFile(ctx context.Context, path string) error {
	rel, ok := w.Rel(path)
	if !ok {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum := xxhash.Sum64(content)

	if prev, err := w.store.GetFile(rel); err == nil && prev.Checksum == sum {
		return nil
	}

	entities, decls, err := ExtractFacts(ctx, rel, string(content))
	if err != nil {
		return err
	}
	return w.store.ReplaceFile(FileRecord{
		Path:         rel,
		Checksum:     sum,
		LastModified: info.ModTime().Unix(),
	}, entities, decls)
}

// Forget drops one file from the index, for deletions.
func (w *Workspace) Forget(path string) error {
	rel, ok := w.Rel(path)
	if !ok {
		return nil
	}
	err := w.store.DeleteFile(rel)
	if err == ErrNotFound {
		return nil
	}
	return err
}
