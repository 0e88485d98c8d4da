package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/salesfield_backend/config"
	"bitbucket.org/mmdatafocus/salesfield_backend/dataimport"
	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// CleanupScheduler runs the expiry sweep once a day at local midnight.
// Intended for environments without an external scheduler hitting
// /internal/cleanup.
type CleanupScheduler struct {
	Logger   *logrus.Logger
	Location *time.Location
	Now      func() time.Time
}

func NewCleanupScheduler(logger *logrus.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		Logger:   logger,
		Location: utils.CleanupLocation(),
		Now:      time.Now,
	}
}

// Default: run in-process so a deployment without Cloud Scheduler still
// sweeps. The sweep is idempotent, so doubling up with the push endpoint
// is harmless.
func shouldRunDirectCleanupScheduler() bool {
	return utils.EnvBoolDefault("CLEANUP_DIRECT_SCHEDULING", true)
}

func (s *CleanupScheduler) Run(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		now := s.Now()
		next := nextRunAfter(now, s.Location)
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}
		s.runOnce(ctx)
	}
}

// nextRunAfter returns the first midnight in loc strictly after t.
func nextRunAfter(t time.Time, loc *time.Location) time.Time {
	return utils.NextMidnight(t, loc)
}

func (s *CleanupScheduler) runOnce(ctx context.Context) {
	client, err := config.GetFirestore(ctx)
	if err != nil {
		config.LogError(s.Logger, "main", "CleanupScheduler.runOnce", "firestore unavailable", nil, err)
		return
	}

	sweeper := dataimport.NewExpirySweeper(client, s.Logger)
	deleted, err := sweeper.Sweep(ctx)
	if err != nil {
		// Already recorded in the cleanup log; surface it for alerting.
		s.Logger.WithFields(logrus.Fields{
			"field":   "CleanupScheduler",
			"deleted": deleted,
		}).Error("scheduled cleanup failed: " + err.Error())
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"field":   "CleanupScheduler",
		"deleted": deleted,
	}).Info("scheduled cleanup completed")
}
