package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	clientModel "fieldclock_backend/internals/features/clients/model"
	"fieldclock_backend/internals/features/sessions/model"
)

// LifecycleService persists the lifecycle transitions. All session writes in
// the system go through here.
type LifecycleService struct {
	DB              *gorm.DB
	ThresholdMeters float64
}

func NewLifecycleService(db *gorm.DB, thresholdMeters float64) *LifecycleService {
	return &LifecycleService{DB: db, ThresholdMeters: thresholdMeters}
}

/* ===================== CLOCK IN ===================== */

// ClockInStore is the slice of persistence a clock-in needs.
// txClockInStore satisfies it inside the service transaction.
type ClockInStore interface {
	FindClient(ctx context.Context, clientID uuid.UUID) (*clientModel.ClientModel, error)
	HasActiveSession(ctx context.Context, practitionerID uuid.UUID) (bool, error)
	CreateSession(ctx context.Context, session *model.ClockSessionModel) error
}

// OpenSession runs the clock-in conflict check and creates the session. An
// existing active session is never touched; the caller gets
// ErrAlreadyClockedIn and nothing else happens. A unique violation from the
// store maps to the same error, so two clock-ins racing past the check
// resolve at the index.
func OpenSession(ctx context.Context, store ClockInStore, p ClockInParams, thresholdMeters float64, now time.Time) (*model.ClockSessionModel, error) {
	client, err := store.FindClient(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, ErrClientInactive
	}

	exists, err := store.HasActiveSession(ctx, p.PractitionerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyClockedIn
	}

	session, err := BuildClockIn(p, client.Latitude, client.Longitude, thresholdMeters, now)
	if err != nil {
		return nil, err
	}
	if err := store.CreateSession(ctx, session); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, err
	}
	return session, nil
}

// ClockIn creates a session after verifying the practitioner has no active
// one. The check-then-create runs in a transaction with the practitioner's
// active row locked; the partial unique index on (practitioner_id) WHERE
// status='active' is the authority if two clock-ins still race.
func (s *LifecycleService) ClockIn(ctx context.Context, p ClockInParams) (*model.ClockSessionModel, error) {
	var created *model.ClockSessionModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := OpenSession(ctx, txClockInStore{tx: tx}, p, s.ThresholdMeters, time.Now().UTC())
		if err != nil {
			return err
		}
		created = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type txClockInStore struct{ tx *gorm.DB }

func (s txClockInStore) FindClient(_ context.Context, clientID uuid.UUID) (*clientModel.ClientModel, error) {
	var client clientModel.ClientModel
	if err := s.tx.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (s txClockInStore) HasActiveSession(_ context.Context, practitionerID uuid.UUID) (bool, error) {
	var existing model.ClockSessionModel
	err := s.tx.Clauses(lockForUpdate()).
		Where("practitioner_id = ? AND status = ?", practitionerID, model.StatusActive).
		First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s txClockInStore) CreateSession(_ context.Context, session *model.ClockSessionModel) error {
	return s.tx.Create(session).Error
}

/* ===================== CLOCK OUT ===================== */

// ClockOut closes the practitioner's current active session. Resolved by
// practitioner identity, not session id — there is at most one.
func (s *LifecycleService) ClockOut(ctx context.Context, practitionerID uuid.UUID, lat, lon float64, accuracy *float64, notes string) (*model.ClockSessionModel, error) {
	var closed *model.ClockSessionModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.ClockSessionModel
		err := tx.Clauses(lockForUpdate()).
			Where("practitioner_id = ? AND status = ?", practitionerID, model.StatusActive).
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveSession
			}
			return err
		}

		if err := ApplyClockOut(&session, lat, lon, accuracy, notes, time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		closed = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

/* ===================== AUTO CLOCK OUT ===================== */

// AutoClockOut closes a session by id without a position fix. Idempotent: a
// session already closed is returned unchanged with changed=false. The write
// compare-and-swaps on status so the sweeper and a manual clock-out cannot
// both close the same session.
func (s *LifecycleService) AutoClockOut(ctx context.Context, sessionID uuid.UUID, reason string) (*model.ClockSessionModel, bool, error) {
	var session model.ClockSessionModel
	if err := s.DB.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, err
	}

	changed, err := ApplyAutoClockOut(&session, reason, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return &session, false, nil
	}

	return s.casClose(ctx, &session)
}

// EmergencyClose is the practitioner-triggered auto clock-out. Resolved by
// practitioner identity like a manual clock-out.
func (s *LifecycleService) EmergencyClose(ctx context.Context, practitionerID uuid.UUID, reason, notes string) (*model.ClockSessionModel, error) {
	var session model.ClockSessionModel
	err := s.DB.WithContext(ctx).
		Where("practitioner_id = ? AND status = ?", practitionerID, model.StatusActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	changed, err := ApplyEmergencyClose(&session, reason, notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race with another close between the read and now.
		return nil, ErrNoActiveSession
	}

	closed, swapped, err := s.casClose(ctx, &session)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrNoActiveSession
	}
	return closed, nil
}

// casClose writes an in-memory closed session guarded by status='active'.
// RowsAffected==0 means another path closed it first; the stored row wins.
func (s *LifecycleService) casClose(ctx context.Context, session *model.ClockSessionModel) (*model.ClockSessionModel, bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.ClockSessionModel{}).
		Where("id = ? AND status = ?", session.ID, model.StatusActive).
		Updates(map[string]interface{}{
			"status":                session.Status,
			"clock_out_time":        session.ClockOutTime,
			"duration_minutes":      session.DurationMinutes,
			"auto_clock_out_reason": session.AutoClockOutReason,
			"requires_review":       session.RequiresReview,
			"session_notes":         session.SessionNotes,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		var current model.ClockSessionModel
		if err := s.DB.WithContext(ctx).First(&current, "id = ?", session.ID).Error; err != nil {
			return nil, false, err
		}
		return &current, false, nil
	}
	return session, true, nil
}

/* ===================== CANCEL ===================== */

// Cancel is the administrative override. Errors on terminal sessions rather
// than no-oping: an admin cancelling a closed session is a mistake worth
// surfacing.
func (s *LifecycleService) Cancel(ctx context.Context, sessionID uuid.UUID) (*model.ClockSessionModel, error) {
	var cancelled *model.ClockSessionModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.ClockSessionModel
		err := tx.Clauses(lockForUpdate()).
			First(&session, "id = ?", sessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if err := ApplyCancel(&session, time.Now().UTC()); err != nil {
			return err
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		cancelled = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

/* ===================== REVIEW ===================== */

func (s *LifecycleService) Review(ctx context.Context, sessionID uuid.UUID, flag bool, reviewerID uuid.UUID, notes string) (*model.ClockSessionModel, error) {
	var session model.ClockSessionModel
	if err := s.DB.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := ApplyReview(&session, flag, reviewerID, notes, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

/* ===================== QUERIES ===================== */

// ActiveSession returns the practitioner's current active session.
func (s *LifecycleService) ActiveSession(ctx context.Context, practitionerID uuid.UUID) (*model.ClockSessionModel, error) {
	var session model.ClockSessionModel
	err := s.DB.WithContext(ctx).
		Where("practitioner_id = ? AND status = ?", practitionerID, model.StatusActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return &session, nil
}

// ListActiveBefore returns active sessions clocked in before the cutoff.
// Feeds the timeout sweeper.
func (s *LifecycleService) ListActiveBefore(ctx context.Context, cutoff time.Time) ([]model.ClockSessionModel, error) {
	var sessions []model.ClockSessionModel
	err := s.DB.WithContext(ctx).
		Where("status = ? AND clock_in_time < ?", model.StatusActive, cutoff).
		Order("clock_in_time").
		Find(&sessions).Error
	return sessions, err
}

func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// isUniqueViolation detects Postgres SQLSTATE 23505 without importing the
// driver.
func isUniqueViolation(err error) bool {
	type sqlStater interface{ SQLState() string }
	var pgErr sqlStater
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}
