package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"fieldclock_backend/internals/configs"
	"fieldclock_backend/internals/features/sessions/service"
)

const (
	sweepInterval   = 5 * time.Minute
	cleanupInterval = 1 * time.Hour
)

// StartSessionTimeoutScheduler auto-closes timed-out sessions every five
// minutes.
func StartSessionTimeoutScheduler(db *gorm.DB) {
	svc := service.NewLifecycleService(db, configs.GPSAccuracyThresholdMeters)

	go func() {
		for {
			timeout := time.Duration(configs.SessionTimeoutMinutes) * time.Minute
			result, err := service.SweepTimeouts(context.Background(), svc, time.Now().UTC(), timeout, false)
			if err != nil {
				log.Printf("[SWEEP] sweep error: %v", err)
			} else if result.Scanned > 0 {
				log.Printf("[SWEEP] scanned=%d closed=%d failed=%d", result.Scanned, result.Closed, len(result.Failed))
			}
			time.Sleep(sweepInterval)
		}
	}()
}

// StartLocationCleanupScheduler prunes location samples past the retention
// window every hour.
func StartLocationCleanupScheduler(db *gorm.DB) {
	svc := service.NewLifecycleService(db, configs.GPSAccuracyThresholdMeters)

	go func() {
		for {
			deleted, err := service.PruneSamples(context.Background(), svc, time.Now().UTC(), configs.LocationRetentionDays)
			if err != nil {
				log.Printf("[CLEANUP] prune error: %v", err)
			} else if deleted > 0 {
				log.Printf("[CLEANUP] %d old location updates removed", deleted)
			}
			time.Sleep(cleanupInterval)
		}
	}()
}
