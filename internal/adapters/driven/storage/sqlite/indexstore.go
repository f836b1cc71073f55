// Package sqlite provides SQLite-backed persistence for the vector
// index. The persisted format is self-describing: a meta table records
// the format version, embedding model and dimensionality, so loading
// against a mismatched embedder fails instead of silently returning
// wrong results.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// formatVersion identifies the persisted layout. Bumped on any schema
// change so stale files fail loudly.
const formatVersion = 1

// indexFileName is the index database file within the data directory.
const indexFileName = "index.db"

const schema = `
CREATE TABLE index_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE index_entries (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	chunk_id   TEXT NOT NULL,
	source_url TEXT NOT NULL,
	position   INTEGER NOT NULL,
	chunk_text TEXT NOT NULL,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL,
	price      TEXT NOT NULL,
	instructor TEXT NOT NULL,
	vector     BLOB NOT NULL
);
`

// IndexStore persists a built index as a single SQLite file. Save is
// atomic: it writes a fresh temporary database and renames it over the
// previous one, so readers never observe a partial index.
type IndexStore struct {
	path string
}

// NewIndexStore creates an index store in the given data directory.
// If dataDir is empty, defaults to ~/.coursefind/data.
func NewIndexStore(dataDir string) (*IndexStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".coursefind", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &IndexStore{path: filepath.Join(dataDir, indexFileName)}, nil
}

// Path returns the index database file path.
func (s *IndexStore) Path() string {
	return s.path
}

// Save writes the entries and meta wholesale, replacing any previously
// persisted index.
func (s *IndexStore) Save(ctx context.Context, meta driven.IndexMeta, entries []driven.IndexEntry) error {
	tmp := s.path + ".tmp"
	// A stale temp file from a crashed build must not poison this one.
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale temp index: %w", err)
	}

	if err := s.writeIndex(ctx, tmp, meta, entries); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing index: %w", err)
	}
	return nil
}

// writeIndex creates and populates a fresh index database at path.
func (s *IndexStore) writeIndex(ctx context.Context, path string, meta driven.IndexMeta, entries []driven.IndexEntry) error {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	metaStmt, err := tx.PrepareContext(ctx, "INSERT INTO index_meta (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing meta insert: %w", err)
	}
	defer metaStmt.Close()

	metaRows := map[string]string{
		"format_version": strconv.Itoa(formatVersion),
		"model":          meta.Model,
		"dimensions":     strconv.Itoa(meta.Dimensions),
	}
	for key, value := range metaRows {
		if _, err := metaStmt.ExecContext(ctx, key, value); err != nil {
			return fmt.Errorf("writing meta %s: %w", key, err)
		}
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_entries
			(chunk_id, source_url, position, chunk_text, title, url, price, instructor, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	for i, entry := range entries {
		c := entry.Chunk
		_, err := entryStmt.ExecContext(ctx,
			c.ID, c.SourceURL, c.Position, c.Text,
			c.Info.Title, c.Info.URL, c.Info.Price, c.Info.Instructor,
			float32SliceToBytes(entry.Vector))
		if err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Load reads back the persisted entries in insertion order, validating
// format version and embedding space against want.
func (s *IndexStore) Load(ctx context.Context, want driven.IndexMeta) ([]driven.IndexEntry, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no index at %s", domain.ErrNotFound, s.path)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	defer db.Close()

	meta, err := s.readMeta(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := validateMeta(meta, want); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT chunk_id, source_url, position, chunk_text, title, url, price, instructor, vector
		FROM index_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []driven.IndexEntry
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.SourceURL, &c.Position, &c.Text,
			&c.Info.Title, &c.Info.URL, &c.Info.Price, &c.Info.Instructor, &blob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		vector := bytesToFloat32Slice(blob)
		if len(vector) != want.Dimensions {
			return nil, fmt.Errorf("%w: entry %s has %d dimensions, want %d",
				domain.ErrIncompatibleIndex, c.ID, len(vector), want.Dimensions)
		}

		entries = append(entries, driven.IndexEntry{Vector: vector, Chunk: c})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}

	return entries, nil
}

// readMeta loads the meta table into an IndexMeta plus format version.
func (s *IndexStore) readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM index_meta")
	if err != nil {
		return nil, fmt.Errorf("%w: reading index meta: %v", domain.ErrIncompatibleIndex, err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning meta: %w", err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	return meta, nil
}

// validateMeta rejects indexes from a different format version or
// embedding space.
func validateMeta(meta map[string]string, want driven.IndexMeta) error {
	if v := meta["format_version"]; v != strconv.Itoa(formatVersion) {
		return fmt.Errorf("%w: format version %q, want %d", domain.ErrIncompatibleIndex, v, formatVersion)
	}
	if m := meta["model"]; m != want.Model {
		return fmt.Errorf("%w: index built with model %q, configured model is %q",
			domain.ErrIncompatibleIndex, m, want.Model)
	}
	if d := meta["dimensions"]; d != strconv.Itoa(want.Dimensions) {
		return fmt.Errorf("%w: index has %s dimensions, embedder produces %d",
			domain.ErrIncompatibleIndex, d, want.Dimensions)
	}
	return nil
}

// float32SliceToBytes converts a vector to a little-endian byte blob.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte blob back to a vector.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
