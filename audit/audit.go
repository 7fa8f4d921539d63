// Package audit keeps a Postgres trail of admin actions. It is optional:
// a nil Logger is a no-op, and insert failures are logged, never surfaced,
// because the trail must not block the action it records.
package audit

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"guevara/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    action TEXT NOT NULL,
    entity TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    detail JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Logger writes audit rows through a pgx pool.
type Logger struct {
	pool *pgxpool.Pool
}

// Connect opens the pool, verifies the connection and ensures the table
// exists.
func Connect(ctx context.Context, databaseURL string) (*Logger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("audit trail connected")
	return &Logger{pool: pool}, nil
}

// Record writes one audit row. Safe on a nil Logger.
func (l *Logger) Record(ctx context.Context, action, entity, entityID string, detail models.JSONB) {
	if l == nil || l.pool == nil {
		return
	}

	_, err := l.pool.Exec(ctx,
		`INSERT INTO audit_log (action, entity, entity_id, detail) VALUES ($1, $2, $3, $4)`,
		action, entity, entityID, detail,
	)
	if err != nil {
		log.Printf("audit: failed to record %s %s/%s: %v", action, entity, entityID, err)
	}
}

// Close closes the pool.
func (l *Logger) Close() {
	if l != nil && l.pool != nil {
		l.pool.Close()
	}
}
