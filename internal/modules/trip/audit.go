// README: Trip transition audit log backed by Postgres (best effort).
package trip

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gonow/internal/types"
)

// AuditLog records every observed status transition for reporting. Writes
// are best effort: a failure is logged by the caller and never blocks the
// transition itself.
type AuditLog interface {
	AppendTransition(ctx context.Context, tripID types.ID, from, to Status, actor string) error
}

type PostgresAudit struct {
	db *pgxpool.Pool
}

func NewPostgresAudit(db *pgxpool.Pool) *PostgresAudit {
	return &PostgresAudit{db: db}
}

func (a *PostgresAudit) AppendTransition(ctx context.Context, tripID types.ID, from, to Status, actor string) error {
	_, err := a.db.Exec(ctx, `
        INSERT INTO trip_transitions (
            trip_id, from_status, to_status, actor, created_at
        ) VALUES ($1, $2, $3, $4, NOW())`,
		string(tripID),
		string(from),
		string(to),
		actor,
	)
	return err
}
