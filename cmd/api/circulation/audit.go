package circulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

/* AuditLogger appends one trail entry per real book status transition. The service calls
it inside the same transaction that flips the status, so a committed mutation and its
trail entry cannot diverge. */
type AuditLogger struct{}

func NewAuditLogger() *AuditLogger {
	return &AuditLogger{}
}

/* Appends a "status changed from X to Y" entry. A rewrite to the current status is not
a transition and appends nothing. */
func (a *AuditLogger) StatusChanged(ctx context.Context, repo Repository, bookID uuid.UUID, from, to BookStatus) error {
	if from == to {
		return nil
	}

	entry := AuditEntry{
		ID:          uuid.New(),
		BookID:      bookID,
		Description: fmt.Sprintf("status changed from %s to %s", from, to),
		ChangedAt:   time.Now().UTC().Round(time.Millisecond),
	}

	_, err := repo.AppendAuditEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}

	return nil
}
