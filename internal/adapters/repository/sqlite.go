package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/homespark/internal/domain/catalog"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// schemaVersion is stored in PRAGMA user_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS catalog_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS catalog_vocabulary (
	dimension TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (dimension, value)
);
CREATE TABLE IF NOT EXISTS catalog_items (
	id             INTEGER PRIMARY KEY,
	name           TEXT    NOT NULL,
	cost           INTEGER NOT NULL CHECK (cost >= 0),
	style          TEXT    NOT NULL,
	room_type      TEXT    NOT NULL,
	indoor_outdoor TEXT    NOT NULL,
	climate        TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_catalog_items_cost ON catalog_items(cost);
`

// Metadata keys in catalog_meta.
const (
	metaVersion   = "version"
	metaModelType = "model_type"
	metaTrainedOn = "trained_on"
	metaMaxCost   = "max_cost"
)

// SQLiteStore persists a catalog in SQLite.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
	journalMode string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	s := &SQLiteStore{
		path:        path,
		busyTimeout: defaultBusyTimeout,
		journalMode: defaultJournalMode,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=%s&_busy_timeout=%d", path, s.journalMode, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when the database is older than schemaVersion.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Save replaces the stored catalog with cat in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, cat *catalog.Catalog) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := saveTx(ctx, tx, cat); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

func saveTx(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	for _, table := range []string{"catalog_meta", "catalog_vocabulary", "catalog_items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	meta := cat.Metadata()
	for k, v := range map[string]string{
		metaVersion:   meta.Version,
		metaModelType: meta.ModelType,
		metaTrainedOn: meta.TrainedOn,
		metaMaxCost:   strconv.Itoa(meta.MaxCost),
	} {
		if _, err := tx.ExecContext(ctx, "INSERT INTO catalog_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", k, err)
		}
	}

	vocabStmt, err := tx.PrepareContext(ctx, "INSERT INTO catalog_vocabulary (dimension, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare vocabulary insert: %w", err)
	}
	defer func() { _ = vocabStmt.Close() }()
	for _, d := range catalog.Dimensions {
		for _, v := range cat.Vocabulary(d).Values() {
			if _, err := vocabStmt.ExecContext(ctx, d.String(), v); err != nil {
				return fmt.Errorf("failed to save vocabulary %s: %w", d, err)
			}
		}
	}

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_items (id, name, cost, style, room_type, indoor_outdoor, climate)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer func() { _ = itemStmt.Close() }()
	for _, it := range cat.Items() {
		if _, err := itemStmt.ExecContext(ctx, it.ID, it.Name, it.Cost, it.Style, it.RoomType, it.IndoorOutdoor, it.Climate); err != nil {
			return fmt.Errorf("failed to save item %d: %w", it.ID, err)
		}
	}
	return nil
}

// Load reads the stored catalog.
func (s *SQLiteStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}

	meta, err := s.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	vocabs, err := s.loadVocabularies(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(meta, vocabs, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	return cat, nil
}

// Kind returns "sqlite".
func (s *SQLiteStore) Kind() string { return KindSQLite }

func (s *SQLiteStore) loadMetadata(ctx context.Context) (catalog.Metadata, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM catalog_meta")
	if err != nil {
		return catalog.Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var meta catalog.Metadata
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return catalog.Metadata{}, fmt.Errorf("failed to scan metadata: %w", err)
		}
		switch k {
		case metaVersion:
			meta.Version = v
		case metaModelType:
			meta.ModelType = v
		case metaTrainedOn:
			meta.TrainedOn = v
		case metaMaxCost:
			n, err := strconv.Atoi(v)
			if err != nil {
				return catalog.Metadata{}, fmt.Errorf("%w: max_cost %q", ErrMalformedArtifact, v)
			}
			meta.MaxCost = n
		}
	}
	return meta, rows.Err()
}

func (s *SQLiteStore) loadVocabularies(ctx context.Context) (map[catalog.Dimension]*catalog.Vocabulary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT dimension, value FROM catalog_vocabulary")
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabularies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[catalog.Dimension][]string)
	for rows.Next() {
		var dim, v string
		if err := rows.Scan(&dim, &v); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary: %w", err)
		}
		d, ok := catalog.ParseDimension(dim)
		if !ok {
			return nil, fmt.Errorf("%w: unknown vocabulary %q", ErrMalformedArtifact, dim)
		}
		values[d] = append(values[d], v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	vocabs := make(map[catalog.Dimension]*catalog.Vocabulary, len(values))
	for d, vs := range values {
		vocabs[d] = catalog.NewVocabulary(vs)
	}
	return vocabs, nil
}

func (s *SQLiteStore) loadItems(ctx context.Context) ([]catalog.RawItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost, style, room_type, indoor_outdoor, climate
		FROM catalog_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []catalog.RawItem
	for rows.Next() {
		var it catalog.RawItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Cost, &it.Style, &it.RoomType, &it.IndoorOutdoor, &it.Climate); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
