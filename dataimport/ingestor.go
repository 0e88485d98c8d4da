package dataimport

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// maxBatchWrites is the store's hard limit on operations per atomic batch.
const maxBatchWrites = 500

// BatchIngestor writes normalized records into one collection per call,
// splitting them into sequential atomic batches of at most maxBatchWrites.
// Batches are independent: an earlier batch stays committed when a later
// one fails.
type BatchIngestor struct {
	Client *firestore.Client
	Logger *logrus.Logger
}

// BuildRecords applies build to every row, dropping rows that fail the
// required-field invariant. It returns the surviving documents and the count
// of dropped rows.
func BuildRecords(rows []rawRow, build RecordBuilder, expiresAt time.Time) ([]interface{}, int) {
	docs := make([]interface{}, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		doc, ok := build(row, expiresAt)
		if !ok {
			skipped++
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped
}

// Ingest commits docs into collection as auto-identified documents and
// returns how many were written. Each document receives its server-assigned
// creation timestamp on commit. No retry is attempted on a failed batch.
func (ing *BatchIngestor) Ingest(ctx context.Context, collection string, docs []interface{}) (int, error) {
	coll := ing.Client.Collection(collection)
	written := 0
	for _, chunk := range chunkDocs(docs, maxBatchWrites) {
		batch := ing.Client.Batch()
		for _, doc := range chunk {
			batch.Set(coll.NewDoc(), doc)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return written, fmt.Errorf("commit batch of %d to %s: %w", len(chunk), collection, err)
		}
		written += len(chunk)
	}

	if ing.Logger != nil {
		fields := logrus.Fields{
			"collection": collection,
			"written":    written,
		}
		if jobId, ok := utils.GetJobIdFromContext(ctx); ok {
			fields["job_id"] = jobId
		}
		ing.Logger.WithFields(fields).Info("[import.ingest]")
	}
	return written, nil
}

func chunkDocs(docs []interface{}, size int) [][]interface{} {
	if size <= 0 || len(docs) == 0 {
		return nil
	}
	chunks := make([][]interface{}, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}
