package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/nagmodel/internal/model"
)

// CurrentDBVersion is the schema version written to PRAGMA user_version.
const CurrentDBVersion = 1

// SQLite stores definitions in a SQLite database. Directly defined
// attributes are kept as a JSON object per row; inheritance is
// recomputed whenever definitions are listed.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLiteInMemory opens an in-memory database (for testing).
func OpenSQLiteInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) initialize() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read database version: %w", err)
	}
	if version > CurrentDBVersion {
		return fmt.Errorf("database version %d is newer than supported version %d", version, CurrentDBVersion)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS definitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		object_type TEXT NOT NULL,
		filename TEXT NOT NULL DEFAULT '',
		raw_definition TEXT NOT NULL DEFAULT '',
		defined TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_definitions_type ON definitions(object_type);

	CREATE TABLE IF NOT EXISTS resources (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", CurrentDBVersion)); err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// Import replaces the database contents with defs and resources.
func (s *SQLite) Import(defs []*model.Definition, resources []model.Resource) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM definitions"); err != nil {
		return fmt.Errorf("failed to clear definitions: %w", err)
	}
	if _, err = tx.Exec("DELETE FROM resources"); err != nil {
		return fmt.Errorf("failed to clear resources: %w", err)
	}

	insertDef, err := tx.Prepare(`INSERT INTO definitions (object_type, filename, raw_definition, defined) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insertDef.Close()
	for _, d := range defs {
		defined := d.Meta.Defined
		if len(defined) == 0 {
			defined = d.Attributes
		}
		blob, err := encodeAttributes(defined)
		if err != nil {
			return err
		}
		if _, err = insertDef.Exec(string(d.Meta.ObjectType), d.Meta.Filename, d.Meta.RawDefinition, blob); err != nil {
			return fmt.Errorf("failed to insert %s definition: %w", d.Meta.ObjectType, err)
		}
	}

	for _, r := range resources {
		if _, err = tx.Exec(`INSERT OR REPLACE INTO resources (name, value) VALUES (?, ?)`, r.Name, r.Value); err != nil {
			return fmt.Errorf("failed to insert resource %s: %w", r.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ListDefinitions implements model.Store.
func (s *SQLite) ListDefinitions(t model.ObjectType) ([]*model.Definition, error) {
	// Templates may live anywhere in the table, so inheritance is always
	// computed over every row.
	rows, err := s.db.Query(`SELECT id, object_type, filename, raw_definition, defined FROM definitions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close()

	var all []*model.Definition
	for rows.Next() {
		var (
			id            int64
			objectType    string
			filename, raw string
			blob          string
		)
		if err := rows.Scan(&id, &objectType, &filename, &raw, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		defined, err := decodeAttributes(blob)
		if err != nil {
			return nil, fmt.Errorf("definition %d: %w", id, err)
		}
		all = append(all, &model.Definition{
			Meta: model.Meta{
				ObjectType:    model.ObjectType(objectType),
				Filename:      filename,
				RawDefinition: raw,
				Defined:       defined,
				Key:           strconv.FormatInt(id, 10),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}

	Flatten(all)
	if t == "" {
		return all, nil
	}
	out := make([]*model.Definition, 0, len(all))
	for _, d := range all {
		if d.Meta.ObjectType == t {
			out = append(out, d)
		}
	}
	return out, nil
}

// NewDefinition implements model.Store.
func (s *SQLite) NewDefinition(t model.ObjectType, filename string) (*model.Definition, error) {
	res, err := s.db.Exec(`INSERT INTO definitions (object_type, filename) VALUES (?, ?)`, string(t), filename)
	if err != nil {
		return nil, fmt.Errorf("failed to insert definition: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read definition id: %w", err)
	}
	return &model.Definition{
		Attributes: make(map[string]string),
		Meta: model.Meta{
			ObjectType: t,
			Filename:   filename,
			Defined:    make(map[string]string),
			Inherited:  make(map[string]string),
			Key:        strconv.FormatInt(id, 10),
		},
	}, nil
}

// EditField implements model.Store.
func (s *SQLite) EditField(def *model.Definition, field, value string) (bool, error) {
	var blob string
	err := s.db.QueryRow(`SELECT defined FROM definitions WHERE id = ?`, def.Meta.Key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read definition %s: %w", def.Meta.Key, err)
	}
	defined, err := decodeAttributes(blob)
	if err != nil {
		return false, err
	}
	defined[field] = value
	updated, err := encodeAttributes(defined)
	if err != nil {
		return false, err
	}
	if _, err := s.db.Exec(`UPDATE definitions SET defined = ? WHERE id = ?`, updated, def.Meta.Key); err != nil {
		return false, fmt.Errorf("failed to update definition %s: %w", def.Meta.Key, err)
	}
	return true, nil
}

// RewriteDefinition implements model.Store.
func (s *SQLite) RewriteDefinition(def *model.Definition, text string) error {
	res, err := s.db.Exec(`UPDATE definitions SET raw_definition = ? WHERE id = ?`, text, def.Meta.Key)
	if err != nil {
		return fmt.Errorf("failed to rewrite definition %s: %w", def.Meta.Key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("definition %s: %w", def.Meta.Key, model.ErrNotFound)
	}
	return nil
}

// RemoveDefinition implements model.Store.
func (s *SQLite) RemoveDefinition(def *model.Definition) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM definitions WHERE id = ?`, def.Meta.Key)
	if err != nil {
		return false, fmt.Errorf("failed to delete definition %s: %w", def.Meta.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ResourceValues implements model.Store.
func (s *SQLite) ResourceValues() ([]model.Resource, error) {
	rows, err := s.db.Query(`SELECT name, value FROM resources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()
	var out []model.Resource
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.Name, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func encodeAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("failed to encode attributes: %w", err)
	}
	return string(data), nil
}

func decodeAttributes(blob string) (map[string]string, error) {
	attrs := make(map[string]string)
	if blob == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(blob), &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return attrs, nil
}

var _ model.Store = (*SQLite)(nil)
