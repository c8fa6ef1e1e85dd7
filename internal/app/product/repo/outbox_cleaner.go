package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/decant-catalog/internal/models/m_outbox"
)

// RetentionCutoffs decides which processed events are old enough to purge.
type RetentionCutoffs struct {
	Completed time.Time
	Failed    time.Time
}

// CutoffsFor derives cutoffs from retention periods counted back from now.
func CutoffsFor(now time.Time, completed, failed time.Duration) RetentionCutoffs {
	return RetentionCutoffs{Completed: now.Add(-completed), Failed: now.Add(-failed)}
}

// OutboxCleaner removes processed outbox events past their retention.
type OutboxCleaner struct {
	client *spanner.Client
}

func NewOutboxCleaner(client *spanner.Client) *OutboxCleaner {
	return &OutboxCleaner{client: client}
}

const expiredEventsPredicate = `(` + m_outbox.Status + ` = @completedStatus AND ` + m_outbox.ProcessedAt + ` < @completedCutoff)
   OR (` + m_outbox.Status + ` = @failedStatus AND ` + m_outbox.ProcessedAt + ` < @failedCutoff)`

func expiredParams(c RetentionCutoffs) map[string]any {
	return map[string]any{
		"completedStatus": m_outbox.StatusCompleted,
		"completedCutoff": c.Completed,
		"failedStatus":    m_outbox.StatusFailed,
		"failedCutoff":    c.Failed,
	}
}

func countExpiredStatement(c RetentionCutoffs) spanner.Statement {
	return spanner.Statement{
		SQL: `SELECT ` + m_outbox.Status + `, COUNT(*) FROM ` + m_outbox.TableName +
			` WHERE ` + expiredEventsPredicate + ` GROUP BY ` + m_outbox.Status,
		Params: expiredParams(c),
	}
}

func deleteExpiredStatement(c RetentionCutoffs) spanner.Statement {
	return spanner.Statement{
		SQL:    `DELETE FROM ` + m_outbox.TableName + ` WHERE ` + expiredEventsPredicate,
		Params: expiredParams(c),
	}
}

// CountExpired returns how many events each status would lose.
func (c *OutboxCleaner) CountExpired(ctx context.Context, cutoffs RetentionCutoffs) (map[string]int64, error) {
	iter := c.client.Single().Query(ctx, countExpiredStatement(cutoffs))
	defer iter.Stop()

	counts := make(map[string]int64)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count expired events: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		counts[status] = count
	}
	return counts, nil
}

// Purge deletes expired events and returns the number of rows removed.
func (c *OutboxCleaner) Purge(ctx context.Context, cutoffs RetentionCutoffs) (int64, error) {
	var deleted int64
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, deleteExpiredStatement(cutoffs))
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup transaction failed: %w", err)
	}
	return deleted, nil
}
