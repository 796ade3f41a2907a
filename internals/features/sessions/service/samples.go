package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldclock_backend/internals/features/sessions/model"
	userModel "fieldclock_backend/internals/features/users/model"
	"fieldclock_backend/internals/helpers/geo"
)

// SampleParams is one location ping.
type SampleParams struct {
	Latitude     float64
	Longitude    float64
	Accuracy     *float64
	BatteryLevel *int
	DeviceInfo   datatypes.JSONMap
}

// AppendLocationSample records a ping against an active session and
// refreshes the practitioner's last known position. The session row is
// locked so a concurrent close cannot slip between the check and the insert;
// a sample against a closed session is rejected, not dropped.
func (s *LifecycleService) AppendLocationSample(ctx context.Context, sessionID uuid.UUID, p SampleParams) (*model.SessionLocationUpdateModel, error) {
	if !geo.ValidCoordinates(p.Latitude, p.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	var sample *model.SessionLocationUpdateModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.ClockSessionModel
		err := tx.Clauses(lockForUpdate()).First(&session, "id = ?", sessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if err := CanAppendSample(&session); err != nil {
			return err
		}

		sample = &model.SessionLocationUpdateModel{
			SessionID:    session.ID,
			Timestamp:    time.Now().UTC(),
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Accuracy:     p.Accuracy,
			BatteryLevel: p.BatteryLevel,
			DeviceInfo:   p.DeviceInfo,
		}
		if err := tx.Create(sample).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", session.PractitionerID).
			Updates(map[string]interface{}{
				"current_latitude":     p.Latitude,
				"current_longitude":    p.Longitude,
				"last_location_update": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return sample, nil
}

// SampleRetentionStore is the slice of the sample log the retention job
// needs. *LifecycleService satisfies it.
type SampleRetentionStore interface {
	DeleteSamplesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneSamples deletes samples older than the retention window and reports
// the count. The cutoff is strict, so a sample timestamped exactly at it
// survives. Safe to run repeatedly; nothing eligible is a zero-count success.
func PruneSamples(ctx context.Context, store SampleRetentionStore, now time.Time, retentionDays int) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	return store.DeleteSamplesBefore(ctx, cutoff)
}

// DeleteSamplesBefore deletes samples older than the cutoff regardless of
// their session's state and returns the number removed.
func (s *LifecycleService) DeleteSamplesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&model.SessionLocationUpdateModel{})
	return res.RowsAffected, res.Error
}

// ListSamples returns a session's pings, newest first.
func (s *LifecycleService) ListSamples(ctx context.Context, sessionID uuid.UUID, limit int) ([]model.SessionLocationUpdateModel, error) {
	if limit <= 0 {
		limit = 100
	}
	var samples []model.SessionLocationUpdateModel
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&samples).Error
	return samples, err
}
