// Package index maintains a persistent cross-file symbol index for a
// workspace: which files exist, which entities they define, and where
// predicates and non-terminals are declared. The language server answers
// go-to-definition and workspace-symbol queries from here; open-document
// state always wins over the index for the file being edited.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"lgtls/internal/entity"
	"lgtls/internal/refs"
)

// FileRecord is one indexed source file.
type FileRecord struct {
	Path         string
	Checksum     uint64
	LastModified int64
}

// EntityRecord is one indexed entity.
type EntityRecord struct {
	Path      string
	Kind      entity.Kind
	Name      string
	Params    int
	StartLine int
	EndLine   int
}

// DeclRecord is one indexed indicator occurrence worth navigating to:
// a scope declaration or the first clause head.
type DeclRecord struct {
	Path   string
	Entity string
	Name   string
	Arity  int
	Form   refs.Form
	Role   string
	Line   int
	Col    int
}

// Store is the sqlite-backed index database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec(`
        PRAGMA foreign_keys = ON;
        PRAGMA journal_mode = WAL;
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction, rolling back on error.
func (s *Store) WithTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// GetFile returns the indexed record of one path.
func (s *Store) GetFile(path string) (*FileRecord, error) {
	var rec FileRecord
	var checksum int64
	err := s.db.QueryRow(
		"SELECT path, checksum, last_modified FROM files WHERE path = ?",
		path,
	).Scan(&rec.Path, &checksum, &rec.LastModified)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
	rec.Checksum = uint64(checksum)
	return &rec, nil
}

// ReplaceFile atomically replaces everything known about one file.
func (s *Store) ReplaceFile(file FileRecord, entities []EntityRecord, decls []DeclRecord) error {
	return s.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
            INSERT INTO files (path, checksum, last_modified)
            VALUES (?, ?, ?)
            ON CONFLICT(path) DO UPDATE SET
                checksum = excluded.checksum,
                last_modified = excluded.last_modified
        `, file.Path, int64(file.Checksum), file.LastModified); err != nil {
			return fmt.Errorf("failed to upsert file: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM entities WHERE path = ?", file.Path); err != nil {
			return fmt.Errorf("failed to clear entities: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM declarations WHERE path = ?", file.Path); err != nil {
			return fmt.Errorf("failed to clear declarations: %w", err)
		}
		for _, e := range entities {
			if _, err := tx.Exec(`
                INSERT INTO entities (path, kind, name, params, start_line, end_line)
                VALUES (?, ?, ?, ?, ?, ?)
            `, file.Path, string(e.Kind), e.Name, e.Params, e.StartLine, e.EndLine); err != nil {
				return fmt.Errorf("failed to insert entity: %w", err)
			}
		}
		for _, d := range decls {
			if _, err := tx.Exec(`
                INSERT INTO declarations (path, entity, name, arity, form, role, line, col)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?)
            `, file.Path, d.Entity, d.Name, d.Arity, int(d.Form), d.Role, d.Line, d.Col); err != nil {
				return fmt.Errorf("failed to insert declaration: %w", err)
			}
		}
		return nil
	})
}

// DeleteFile drops a file and, via cascade, its entities and declarations.
func (s *Store) DeleteFile(path string) error {
	result, err := s.db.Exec("DELETE FROM files WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// LookupDeclarations returns every indexed declaration of an indicator,
// scope declarations before clause heads.
func (s *Store) LookupDeclarations(ind refs.Indicator) ([]DeclRecord, error) {
	rows, err := s.db.Query(`
        SELECT path, entity, name, arity, form, role, line, col
        FROM declarations
        WHERE name = ? AND arity = ? AND form = ?
        ORDER BY CASE role WHEN 'declaration' THEN 0 ELSE 1 END, path, line
    `, ind.Name, ind.Arity, int(ind.Form))
	if err != nil {
		return nil, fmt.Errorf("failed to query declarations: %w", err)
	}
	defer rows.Close()
	return scanDecls(rows)
}

// LookupEntity returns every file position where an entity of the given
// name is opened.
func (s *Store) LookupEntity(name string) ([]EntityRecord, error) {
	rows, err := s.db.Query(`
        SELECT path, kind, name, params, start_line, end_line
        FROM entities WHERE name = ? ORDER BY path, start_line
    `, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var out []EntityRecord
	for rows.Next() {
		var rec EntityRecord
		var kind string
		if err := rows.Scan(&rec.Path, &kind, &rec.Name, &rec.Params, &rec.StartLine, &rec.EndLine); err != nil {
			return nil, fmt.Errorf("failed to scan entity record: %w", err)
		}
		rec.Kind = entity.Kind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SearchSymbols returns declarations and entities whose name contains the
// query, for workspace/symbol.
func (s *Store) SearchSymbols(query string, limit int) ([]DeclRecord, []EntityRecord, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(`
        SELECT path, entity, name, arity, form, role, line, col
        FROM declarations
        WHERE name LIKE ? AND role = 'declaration'
        ORDER BY name LIMIT ?
    `, like, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search declarations: %w", err)
	}
	defer rows.Close()
	decls, err := scanDecls(rows)
	if err != nil {
		return nil, nil, err
	}

	erows, err := s.db.Query(`
        SELECT path, kind, name, params, start_line, end_line
        FROM entities WHERE name LIKE ? ORDER BY name LIMIT ?
    `, like, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search entities: %w", err)
	}
	defer erows.Close()

	var entities []EntityRecord
	for erows.Next() {
		var rec EntityRecord
		var kind string
		if err := erows.Scan(&rec.Path, &kind, &rec.Name, &rec.Params, &rec.StartLine, &rec.EndLine); err != nil {
			return nil, nil, fmt.Errorf("failed to scan entity record: %w", err)
		}
		rec.Kind = entity.Kind(kind)
		entities = append(entities, rec)
	}
	return decls, entities, erows.Err()
}

// Paths lists every indexed file.
func (s *Store) Paths() ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanDecls(rows *sql.Rows) ([]DeclRecord, error) {
	var out []DeclRecord
	for rows.Next() {
		var rec DeclRecord
		var form int
		if err := rows.Scan(&rec.Path, &rec.Entity, &rec.Name, &rec.Arity, &form, &rec.Role, &rec.Line, &rec.Col); err != nil {
			return nil, fmt.Errorf("failed to scan declaration record: %w", err)
		}
		rec.Form = refs.Form(form)
		out = append(out, rec)
	}
	return out, rows.Err()
}
