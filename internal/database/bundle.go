package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver
)

// Artifact names stored in a model bundle.
const (
	ArtifactVectorizer = "vectorizer"
	ArtifactClassifier = "classifier"
)

var (
	// ErrArtifactNotFound is returned when a bundle has no artifact with
	// the requested name.
	ErrArtifactNotFound = errors.New("artifact not found in bundle")

	// ErrBundleNotFound is returned when opening a bundle read-only and the
	// file does not exist.
	ErrBundleNotFound = errors.New("model bundle not found")

	// ErrCorruptArtifact is returned when a stored payload no longer matches
	// the checksum recorded when it was stored.
	ErrCorruptArtifact = errors.New("artifact payload does not match its checksum")
)

// Checksum returns the hex-encoded BLAKE2b-256 digest of data.
// It is the checksum format used by bundles and by artifact manifests in
// the configuration file.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Bundle is a SQLite file that packs the vectorizer and classifier
// artifacts together, each with its checksum.
//
// Design decision: Payloads are stored as opaque blobs rather than
// normalized tables (vocabulary rows, coefficient rows). The bundle is a
// transport container; parsing stays in the textmodel package so that JSON
// files and bundles go through exactly the same validation.
type Bundle struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// path is the bundle file path.
	path string
}

// Options configures Bundle behavior.
type Options struct {
	// CreateIfNotExists creates the bundle file (and its directory) if it
	// doesn't exist. When false, the bundle is opened read-only.
	CreateIfNotExists bool
}

// ReadOnly returns options for loading an existing bundle.
func ReadOnly() Options {
	return Options{CreateIfNotExists: false}
}

// ReadWrite returns options for creating or updating a bundle.
func ReadWrite() Options {
	return Options{CreateIfNotExists: true}
}

// Open opens the bundle at path.
func Open(path string, opts Options) (*Bundle, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBundleNotFound, path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check bundle path: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create bundle directory: %w", err)
		}
	}

	// modernc.org/sqlite accepts the open mode as a query parameter.
	dsn := path + "?mode=ro"
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	b := &Bundle{db: db, path: path}

	if opts.CreateIfNotExists {
		if err := b.createTables(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return b, nil
}

// Close closes the bundle.
func (b *Bundle) Close() error {
	return b.db.Close()
}

// Path returns the bundle file path.
func (b *Bundle) Path() string {
	return b.path
}

func (b *Bundle) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		checksum TEXT NOT NULL,
		size INTEGER NOT NULL,
		stored_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := b.db.ExecContext(context.Background(), schema)
	return err
}

// Put stores payload under name, replacing any previous artifact with the
// same name, and returns the recorded checksum.
func (b *Bundle) Put(ctx context.Context, name string, payload []byte) (string, error) {
	sum := Checksum(payload)

	query := `
	INSERT INTO artifacts (name, payload, checksum, size)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		payload = excluded.payload,
		checksum = excluded.checksum,
		size = excluded.size,
		stored_at = CURRENT_TIMESTAMP
	`
	if _, err := b.db.ExecContext(ctx, query, name, payload, sum, len(payload)); err != nil {
		return "", fmt.Errorf("failed to store artifact %s: %w", name, err)
	}
	return sum, nil
}

// Get returns the payload stored under name after verifying its checksum.
func (b *Bundle) Get(ctx context.Context, name string) ([]byte, error) {
	var (
		payload []byte
		sum     string
	)
	err := b.db.QueryRowContext(ctx,
		`SELECT payload, checksum FROM artifacts WHERE name = ?`, name,
	).Scan(&payload, &sum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	if Checksum(payload) != sum {
		return nil, fmt.Errorf("%w: %s", ErrCorruptArtifact, name)
	}
	return payload, nil
}

// ArtifactInfo describes a stored artifact without its payload.
type ArtifactInfo struct {
	Name     string
	Checksum string
	Size     int64
	StoredAt time.Time
}

// List returns metadata for every artifact in the bundle, ordered by name.
func (b *Bundle) List(ctx context.Context) ([]ArtifactInfo, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT name, checksum, size, stored_at FROM artifacts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var infos []ArtifactInfo
	for rows.Next() {
		var (
			info     ArtifactInfo
			storedAt string
		)
		if err := rows.Scan(&info.Name, &info.Checksum, &info.Size, &storedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		info.StoredAt = parseTimestamp(storedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// parseTimestamp parses SQLite timestamps, which may come back in several
// layouts depending on how they were written.
func parseTimestamp(value string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
