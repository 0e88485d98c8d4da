package dataimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
)

// MonitoredCollections are the collections the expiry sweep visits, in order.
var MonitoredCollections = []string{
	CollectionCustomers,
	CollectionAccountReceivable,
	CollectionItemMaster,
	CollectionItemsAvailable,
	CollectionSalesRequisitions,
	CollectionEmailLogs,
}

// ExpirySweeper deletes documents whose expiresAt has passed, in atomic
// pages of at most PageSize per collection, and appends one CleanupLog entry
// per run. A document with expiresAt strictly in the future is never touched.
type ExpirySweeper struct {
	Client      *firestore.Client
	Logger      *logrus.Logger
	Collections []string
	PageSize    int
	Now         func() time.Time
}

func NewExpirySweeper(client *firestore.Client, logger *logrus.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		Client:      client,
		Logger:      logger,
		Collections: MonitoredCollections,
		PageSize:    maxBatchWrites,
		Now:         time.Now,
	}
}

// Sweep removes every expired document across the monitored collections and
// returns the total deleted. On failure it records a failed CleanupLog entry
// and returns the error so the scheduler can alert; no internal retry.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	now := s.Now()
	totalDeleted := 0

	for _, name := range s.Collections {
		for {
			snaps, err := s.Client.Collection(name).
				Where("expiresAt", "<=", now).
				Limit(s.PageSize).
				Documents(ctx).
				GetAll()
			if err != nil {
				err = fmt.Errorf("query expired documents in %s: %w", name, err)
				s.recordFailure(ctx, now, totalDeleted, err)
				return totalDeleted, err
			}
			if len(snaps) == 0 {
				break
			}

			batch := s.Client.Batch()
			for _, snap := range snaps {
				batch.Delete(snap.Ref)
			}
			if _, err := batch.Commit(ctx); err != nil {
				err = fmt.Errorf("delete %d expired documents from %s: %w", len(snaps), name, err)
				s.recordFailure(ctx, now, totalDeleted, err)
				return totalDeleted, err
			}
			totalDeleted += len(snaps)

			if s.Logger != nil {
				s.Logger.WithFields(logrus.Fields{
					"collection": name,
					"deleted":    len(snaps),
				}).Info("[cleanup.page]")
			}

			// A short page means the collection has no more expired documents.
			if len(snaps) < s.PageSize {
				break
			}
		}
	}

	_, _, err := s.Client.Collection(CollectionCleanupLogs).Add(ctx, CleanupLog{
		ExecutedAt:       now,
		DocumentsDeleted: totalDeleted,
		Status:           CleanupStatusSuccess,
		Message:          fmt.Sprintf("Cleaned up %d expired documents", totalDeleted),
	})
	if err != nil {
		return totalDeleted, fmt.Errorf("write cleanup log: %w", err)
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"deleted": totalDeleted,
		}).Info("[cleanup.done]")
	}
	return totalDeleted, nil
}

func (s *ExpirySweeper) recordFailure(ctx context.Context, executedAt time.Time, deleted int, cause error) {
	_, _, err := s.Client.Collection(CollectionCleanupLogs).Add(ctx, CleanupLog{
		ExecutedAt:       executedAt,
		DocumentsDeleted: deleted,
		Status:           CleanupStatusFailed,
		Error:            cause.Error(),
		ErrorStack:       errorChain(cause),
	})
	if err != nil && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"cause": cause.Error(),
		}).Error("failed to write cleanup failure log: " + err.Error())
	}
}

// errorChain renders err and every wrapped cause beneath it, one per line,
// outermost first.
func errorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
