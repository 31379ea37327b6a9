package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AdamMoses-GitHub/cleanplate"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// timestampFormat is fixed-width so stored timestamps compare as strings.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface verification.
var _ cleanplate.ExtractionCache = (*ExtractionCache)(nil)

// ExtractionCache implements cleanplate.ExtractionCache using SQLite.
// Entries are keyed by the xxHash of the normalized source URL and hold the
// envelope as JSON.
type ExtractionCache struct {
	db     *DB
	maxAge time.Duration
	now    func() time.Time
}

// CacheOption configures an ExtractionCache.
type CacheOption func(*ExtractionCache)

// WithMaxAge makes entries older than d count as misses. Zero keeps
// entries forever.
func WithMaxAge(d time.Duration) CacheOption {
	return func(c *ExtractionCache) {
		c.maxAge = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ExtractionCache) {
		c.now = now
	}
}

// NewExtractionCache creates a new ExtractionCache.
func NewExtractionCache(db *DB, opts ...CacheOption) *ExtractionCache {
	c := &ExtractionCache{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindExtraction returns the envelope stored for url.
func (c *ExtractionCache) FindExtraction(ctx context.Context, url string) (*cleanplate.Envelope, error) {
	var payload, createdAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT envelope, created_at
		FROM extractions
		WHERE url_hash = ?
	`, urlKey(url)).Scan(&payload, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, cleanplate.Errorf(cleanplate.ENOTFOUND, "extraction not cached")
	}
	if err != nil {
		return nil, err
	}

	created, err := parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	if c.maxAge > 0 && c.now().Sub(created) > c.maxAge {
		return nil, cleanplate.Errorf(cleanplate.ENOTFOUND, "cached extraction expired")
	}

	var env cleanplate.Envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return nil, cleanplate.WrapError(cleanplate.EINTERNAL, err, "decode cached extraction")
	}
	return &env, nil
}

// SaveExtraction stores env for url, replacing any previous entry.
func (c *ExtractionCache) SaveExtraction(ctx context.Context, url string, env *cleanplate.Envelope) error {
	if env == nil || env.Data == nil {
		return cleanplate.Errorf(cleanplate.EINVALID, "envelope with a recipe required")
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return cleanplate.WrapError(cleanplate.EINTERNAL, err, "encode extraction")
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO extractions (id, url_hash, url, phase, confidence, envelope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url = excluded.url,
			phase = excluded.phase,
			confidence = excluded.confidence,
			envelope = excluded.envelope,
			created_at = excluded.created_at
	`, uuid.New().String(), urlKey(url), NormalizeURL(url), int(env.Phase), env.Confidence,
		string(payload), c.now().UTC().Format(timestampFormat))

	return err
}

// DeleteExtraction removes the entry for url.
func (c *ExtractionCache) DeleteExtraction(ctx context.Context, url string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM extractions WHERE url_hash = ?`, urlKey(url))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return cleanplate.Errorf(cleanplate.ENOTFOUND, "extraction not cached")
	}
	return nil
}

// PurgeExpired deletes entries older than the configured max age and
// returns how many were removed. Without a max age nothing expires.
func (c *ExtractionCache) PurgeExpired(ctx context.Context) (int64, error) {
	if c.maxAge <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.maxAge).UTC().Format(timestampFormat)
	result, err := c.db.ExecContext(ctx, `DELETE FROM extractions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
