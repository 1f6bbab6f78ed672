package ports

import (
	"context"

	"github.com/bnema/class-schedule-cli/internal/domain"
)

// SessionRepository is the durable backing store behind the in-memory
// session store. Save is an upsert keyed by session ID.
type SessionRepository interface {
	List(ctx context.Context) ([]domain.ClassSession, error)
	Save(ctx context.Context, session domain.ClassSession) error
	Delete(ctx context.Context, id domain.SessionID) error
}
