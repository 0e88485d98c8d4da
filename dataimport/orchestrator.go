package dataimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// ErrSourceUnavailable wraps failures to retrieve the source workbook.
// Fatal for the whole job.
var ErrSourceUnavailable = errors.New("source file unavailable")

// DefaultImportObjectPath is the bucket path convention for the workbook.
const DefaultImportObjectPath = "data_files/document_file.xlsx"

// WorkbookSource supplies the raw workbook bytes for one import run.
type WorkbookSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// BucketSource reads the workbook from the configured GCS bucket.
type BucketSource struct {
	Object string
}

func NewBucketSourceFromEnv() BucketSource {
	return BucketSource{Object: utils.EnvOrDefault("IMPORT_OBJECT_PATH", DefaultImportObjectPath)}
}

func (s BucketSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return utils.OpenBucketObject(ctx, s.Object)
}

// FileSource reads the workbook from local disk (standalone variant).
type FileSource string

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(string(s))
}

// Orchestrator drives one import job end to end: source retrieval, per-sheet
// normalization, batched ingest, job status transitions.
type Orchestrator struct {
	Client *firestore.Client
	Logger *logrus.Logger
	Source WorkbookSource
	// Location sets the expiresAt horizon (next midnight there).
	// Nil means the configured cleanup timezone.
	Location *time.Location
}

// RunImportJob executes the pipeline for the job tracked by jobRef.
// Every failure past the terminal-state guard ends up on the job document as
// status=error; the returned error exists for logging at the trigger
// boundary and must not be re-thrown to the platform.
func (o *Orchestrator) RunImportJob(ctx context.Context, jobRef *firestore.DocumentRef) error {
	snap, err := jobRef.Get(ctx)
	if err != nil {
		return fmt.Errorf("read import job %s: %w", jobRef.ID, err)
	}

	// Terminal states never regress: a duplicate trigger for a finished job
	// is a no-op.
	if status, _ := snap.Data()["status"].(string); status == JobStatusCompleted || status == JobStatusError {
		if o.Logger != nil {
			o.Logger.WithFields(logrus.Fields{
				"job_id": jobRef.ID,
				"status": status,
			}).Warn("import job already finished; skipping")
		}
		return nil
	}

	if _, err := jobRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: JobStatusProcessing},
		{Path: "startedAt", Value: firestore.ServerTimestamp},
	}); err != nil {
		return fmt.Errorf("mark job %s processing: %w", jobRef.ID, err)
	}

	written, runErr := o.Run(ctx)
	if runErr != nil {
		o.markJobError(ctx, jobRef, runErr.Error())
		if o.Logger != nil {
			o.Logger.WithFields(logrus.Fields{
				"job_id": jobRef.ID,
			}).Error("import failed: " + runErr.Error())
		}
		return runErr
	}

	if _, err := jobRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: JobStatusCompleted},
		{Path: "completedAt", Value: firestore.ServerTimestamp},
	}); err != nil {
		// The job must not strand in processing after the pipeline has
		// finished. Record the recording failure itself as the terminal state.
		o.markJobError(ctx, jobRef, "import succeeded but completion could not be recorded: "+err.Error())
		return fmt.Errorf("mark job %s completed: %w", jobRef.ID, err)
	}

	if o.Logger != nil {
		o.Logger.WithFields(logrus.Fields{
			"job_id":  jobRef.ID,
			"written": written,
		}).Info("[import.completed]")
	}
	return nil
}

// markJobError writes the terminal error state. A merge write rather than an
// update, so it still lands when the job document is in an unexpected state.
func (o *Orchestrator) markJobError(ctx context.Context, jobRef *firestore.DocumentRef, message string) {
	_, err := jobRef.Set(ctx, map[string]interface{}{
		"status":   JobStatusError,
		"error":    message,
		"failedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil && o.Logger != nil {
		o.Logger.WithFields(logrus.Fields{
			"job_id": jobRef.ID,
		}).Error("failed to mark job as errored: " + err.Error())
	}
}

// Run executes the pipeline without a job document and returns the count of
// documents written per collection. Sheets are processed sequentially; a
// sheet with a structure problem loses only its own contribution, and the
// run fails outright only when every expected sheet is unusable.
func (o *Orchestrator) Run(ctx context.Context) (map[string]int, error) {
	rc, err := o.Source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %v", err)
	}
	defer f.Close()

	loc := o.Location
	if loc == nil {
		loc = utils.CleanupLocation()
	}
	expiresAt := utils.NextMidnight(time.Now(), loc)

	type queued struct {
		collection string
		docs       []interface{}
	}
	var (
		queue     []queued
		sheetErrs []error
	)
	for _, spec := range ImportSheets {
		rows, err := NormalizeSheet(f, spec.Sheet)
		if err != nil {
			sheetErrs = append(sheetErrs, err)
			if o.Logger != nil {
				o.Logger.WithFields(logrus.Fields{
					"sheet": spec.Sheet,
				}).Warn("skipping sheet: " + err.Error())
			}
			continue
		}

		docs, skipped := BuildRecords(rows, spec.Build, expiresAt)
		if skipped > 0 && o.Logger != nil {
			o.Logger.WithFields(logrus.Fields{
				"sheet":   spec.Sheet,
				"skipped": skipped,
			}).Info("[import.rows-skipped]")
		}
		queue = append(queue, queued{collection: spec.Collection, docs: docs})
	}

	if len(queue) == 0 {
		return nil, fmt.Errorf("no usable sheets in workbook: %v", errors.Join(sheetErrs...))
	}

	ingestor := &BatchIngestor{Client: o.Client, Logger: o.Logger}
	written := make(map[string]int, len(queue))
	for _, q := range queue {
		n, err := ingestor.Ingest(ctx, q.collection, q.docs)
		written[q.collection] = n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
