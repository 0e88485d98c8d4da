package dataimport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
)

// TriggerImportHandler runs the import synchronously against the bucket
// workbook, without a job document. Degenerate one-shot trigger; the real
// pipeline is driven by job-document creation via Pub/Sub.
func TriggerImportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		client, err := config.GetFirestore(c.Request.Context())
		if err != nil {
			config.LogError(logger, "dataimport", "TriggerImportHandler", "firestore unavailable", nil, err)
			c.String(http.StatusInternalServerError, "Upload failed.")
			return
		}

		orch := &Orchestrator{
			Client: client,
			Logger: logger,
			Source: NewBucketSourceFromEnv(),
		}
		if _, err := orch.Run(c.Request.Context()); err != nil {
			config.LogError(logger, "dataimport", "TriggerImportHandler", "import run failed", nil, err)
			c.String(http.StatusInternalServerError, "Upload failed.")
			return
		}
		c.String(http.StatusOK, "Upload complete!")
	}
}

// CleanupPushHandler runs the expiry sweep on demand (platform scheduler
// push). Sweep failures are reported as 500 so the scheduler records and
// alerts on them.
func CleanupPushHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		client, err := config.GetFirestore(c.Request.Context())
		if err != nil {
			config.LogError(logger, "dataimport", "CleanupPushHandler", "firestore unavailable", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		sweeper := NewExpirySweeper(client, logger)
		deleted, err := sweeper.Sweep(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "deletedCount": deleted, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": deleted})
	}
}
