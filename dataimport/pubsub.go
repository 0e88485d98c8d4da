package dataimport

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

type PubSubPushEnvelope struct {
	Message struct {
		Data []byte `json:"data"`
		ID   string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// AnnounceImportJob publishes a trigger message for the job document. An
// empty objectPath falls back to the configured bucket path.
func AnnounceImportJob(ctx context.Context, jobId string, objectPath string) error {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	if cid == "" {
		cid = uuid.NewString()
	}
	if objectPath == "" {
		objectPath = utils.EnvOrDefault("IMPORT_OBJECT_PATH", DefaultImportObjectPath)
	}
	return config.PublishImportJob(config.ImportJobMessage{
		JobId:         jobId,
		Bucket:        strings.TrimSpace(utils.EnvOrDefault("GCS_BUCKET", "")),
		ObjectPath:    objectPath,
		CorrelationId: cid,
	})
}

// PubSubPushHandler consumes the import-trigger push envelope. The endpoint
// always acks: the job document is the sole feedback channel for import
// outcomes, and a nack would only make the platform redeliver a message the
// orchestrator has already resolved into a terminal job state.
func PubSubPushHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(204)
			return
		}

		var envelope PubSubPushEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			c.Status(204)
			return
		}

		var payload config.ImportJobMessage
		if err := json.Unmarshal(envelope.Message.Data, &payload); err != nil {
			c.Status(204)
			return
		}
		if payload.JobId == "" {
			c.Status(204)
			return
		}

		ctx := c.Request.Context()
		if payload.CorrelationId != "" {
			ctx = utils.SetCorrelationIdInContext(ctx, payload.CorrelationId)
		}
		ctx = utils.SetJobIdInContext(ctx, payload.JobId)

		client, err := config.GetFirestore(ctx)
		if err != nil {
			config.LogError(logger, "dataimport", "PubSubPushHandler", "firestore unavailable", payload.JobId, err)
			c.Status(204)
			return
		}

		source := NewBucketSourceFromEnv()
		if payload.ObjectPath != "" {
			source.Object = payload.ObjectPath
		}

		orch := &Orchestrator{
			Client: client,
			Logger: logger,
			Source: source,
		}
		jobRef := client.Collection(CollectionDataImports).Doc(payload.JobId)

		// Failures live on the job document; never surface them to the
		// platform as a delivery error.
		_ = orch.RunImportJob(ctx, jobRef)
		c.Status(204)
	}
}
