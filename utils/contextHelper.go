package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/salesfield_backend/appctx"
)

var (
	ContextKeyJobId         = appctx.ContextKeyJobId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetJobIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyJobId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetJobIdInContext(ctx context.Context, jobId string) context.Context {
	return appctx.Set(ctx, ContextKeyJobId, jobId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
