package index

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path          TEXT PRIMARY KEY,
    checksum      INTEGER NOT NULL,
    last_modified INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entities (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    path       TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
    kind       TEXT NOT NULL,
    name       TEXT NOT NULL,
    params     INTEGER NOT NULL,
    start_line INTEGER NOT NULL,
    end_line   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS declarations (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    path   TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
    entity TEXT NOT NULL,
    name   TEXT NOT NULL,
    arity  INTEGER NOT NULL,
    form   INTEGER NOT NULL,
    role   TEXT NOT NULL,
    line   INTEGER NOT NULL,
    col    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);
CREATE INDEX IF NOT EXISTS idx_declarations_ind ON declarations(name, arity, form);
`

func initSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
