package kvs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"physgrid.dev/internal/sim/object"
)

// SQLite stores every record in a single kv table, values as
// zstd-compressed JSON. Upserts give the last-writer-wins semantics the
// protocol expects.
type SQLite struct {
	db  *sql.DB
	mu  sync.Mutex
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL suits the write-once-per-batch workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, enc: enc, dec: dec}, nil
}

func (s *SQLite) Close() error {
	s.enc.Close()
	s.dec.Close()
	return s.db.Close()
}

func (s *SQLite) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvs put %s: %w", key, err)
	}
	blob := s.enc.EncodeAll(raw, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, blob, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("kvs put %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) get(key string, out any) (bool, error) {
	s.mu.Lock()
	var blob []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&blob)
	s.mu.Unlock()
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kvs get %s: %w", key, err)
	}

	raw, err := s.dec.DecodeAll(blob, nil)
	if err != nil {
		return false, fmt.Errorf("kvs get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("kvs get %s: %w", key, err)
	}
	return true, nil
}

func (s *SQLite) PutWarmSet(region string, set object.WarmSet) error {
	return s.put(warmKey(region), set)
}

func (s *SQLite) GetWarmSet(region string) (object.WarmSet, bool, error) {
	var set object.WarmSet
	ok, err := s.get(warmKey(region), &set)
	return set, ok, err
}

func (s *SQLite) PutWatchSet(region string, set object.WatchSet) error {
	return s.put(watchKey(region), set)
}

func (s *SQLite) GetWatchSet(region string) (object.WatchSet, bool, error) {
	var set object.WatchSet
	ok, err := s.get(watchKey(region), &set)
	return set, ok, err
}

func (s *SQLite) PutColdBody(id uuid.UUID, cold object.Cold) error {
	return s.put(coldKey(id), cold)
}

func (s *SQLite) GetColdBody(id uuid.UUID) (object.Cold, bool, error) {
	var cold object.Cold
	ok, err := s.get(coldKey(id), &cold)
	return cold, ok, err
}

func (s *SQLite) PutRunner(id uuid.UUID) error {
	return s.put(runnerKey(id), map[string]string{"registered_at": time.Now().UTC().Format(time.RFC3339)})
}
