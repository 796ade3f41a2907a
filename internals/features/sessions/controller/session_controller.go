package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldclock_backend/internals/configs"
	"fieldclock_backend/internals/features/sessions/dto"
	"fieldclock_backend/internals/features/sessions/model"
	"fieldclock_backend/internals/features/sessions/service"
	userModel "fieldclock_backend/internals/features/users/model"
	helper "fieldclock_backend/internals/helpers"
)

type SessionController struct {
	DB      *gorm.DB
	Service *service.LifecycleService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:      db,
		Service: service.NewLifecycleService(db, configs.GPSAccuracyThresholdMeters),
	}
}

var validate = validator.New()

/* ===================== CLOCK IN ===================== */
// POST /api/u/sessions/clock-in
func (ctrl *SessionController) ClockIn(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.ClockInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.ClockIn(c.UserContext(), service.ClockInParams{
		PractitionerID: practitionerID,
		ClientID:       req.ClientID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Accuracy:       req.Accuracy,
		ServiceType:    req.ServiceType,
		Notes:          req.Notes,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Clocked in successfully", dto.ToSessionResponse(session))
}

/* ===================== CLOCK OUT ===================== */
// POST /api/u/sessions/clock-out
func (ctrl *SessionController) ClockOut(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.ClockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.ClockOut(c.UserContext(), practitionerID, req.Latitude, req.Longitude, req.Accuracy, req.Notes)
	if err != nil {
		return mapServiceError(err)
	}

	return helper.Success(c, "Clocked out successfully", dto.ToSessionResponse(session))
}

/* ===================== ACTIVE SESSION ===================== */
// GET /api/u/sessions/active — 200 with a null session when there is none.
func (ctrl *SessionController) Active(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	session, err := ctrl.Service.ActiveSession(c.UserContext(), practitionerID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			return helper.Success(c, "No active session found", fiber.Map{"active_session": nil})
		}
		return mapServiceError(err)
	}

	resp := dto.ToSessionResponse(session)
	return helper.Success(c, "OK", fiber.Map{"active_session": resp})
}

/* ===================== MY SESSIONS ===================== */
// GET /api/u/sessions?start_date=&end_date=&status=&page=&per_page=
func (ctrl *SessionController) MySessions(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)
	q := ctrl.DB.Model(&model.ClockSessionModel{}).
		Where("practitioner_id = ?", practitionerID)
	q = applySessionFilters(q, c)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count sessions")
	}

	var sessions []model.ClockSessionModel
	if err := q.Order("clock_in_time DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&sessions).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list sessions")
	}

	return helper.Success(c, "OK", fiber.Map{
		"sessions":   dto.ToSessionResponses(sessions),
		"pagination": helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

/* ===================== DETAIL ===================== */
// GET /api/u/sessions/:id — practitioners see their own, supervisors see all.
func (ctrl *SessionController) Detail(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	q := ctrl.DB.Where("id = ?", sessionID)
	if !userModel.ElevatedRole(helper.GetUserRole(c)) {
		q = q.Where("practitioner_id = ?", practitionerID)
	}

	var session model.ClockSessionModel
	if err := q.First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return helper.Success(c, "OK", dto.ToSessionResponse(&session))
}

/* ===================== LOCATION UPDATE ===================== */
// POST /api/u/sessions/location-update
func (ctrl *SessionController) LocationUpdate(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.LocationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.ActiveSession(c.UserContext(), practitionerID)
	if err != nil {
		return mapServiceError(err)
	}

	sample, err := ctrl.Service.AppendLocationSample(c.UserContext(), session.ID, service.SampleParams{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
		BatteryLevel: req.BatteryLevel,
		DeviceInfo:   req.DeviceInfo,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return helper.Success(c, "Location updated successfully", fiber.Map{
		"timestamp": sample.Timestamp,
	})
}

/* ===================== EMERGENCY END ===================== */
// POST /api/u/sessions/emergency-end
func (ctrl *SessionController) EmergencyEnd(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req dto.EmergencyEndRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.EmergencyClose(c.UserContext(), practitionerID, req.Reason, req.Notes)
	if err != nil {
		return mapServiceError(err)
	}

	return helper.Success(c, "Session terminated due to emergency", dto.ToSessionResponse(session))
}

/* ===================== STATISTICS ===================== */
// GET /api/u/sessions/statistics?start_date=&end_date= — own sessions for
// practitioners, everyone's for supervisors and admins.
func (ctrl *SessionController) Statistics(c *fiber.Ctx) error {
	practitionerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	startDate := now.AddDate(0, 0, -30)
	if v := c.Query("start_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			startDate = parsed
		}
	}
	endBound, endDisplay := resolveStatsEnd(c.Query("end_date"), now)

	q := ctrl.DB.Model(&model.ClockSessionModel{}).
		Where("clock_in_time >= ? AND clock_in_time < ?", startDate, endBound)
	if !userModel.ElevatedRole(helper.GetUserRole(c)) {
		q = q.Where("practitioner_id = ?", practitionerID)
	}

	stats, err := computeStats(q)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute statistics")
	}

	return helper.Success(c, "OK", dto.StatisticsResponse{
		Period: dto.StatisticsPeriod{
			StartDate: startDate.Format("2006-01-02"),
			EndDate:   endDisplay.Format("2006-01-02"),
		},
		Statistics: stats,
	})
}

// resolveStatsEnd turns the optional end_date parameter into the exclusive
// query bound and the date shown in the response period. Without a parameter
// the range runs through now and today is displayed; with one, the bound is
// the start of the next day so the named date is fully included.
func resolveStatsEnd(param string, now time.Time) (bound, display time.Time) {
	if param != "" {
		if parsed, err := time.Parse("2006-01-02", param); err == nil {
			return parsed.AddDate(0, 0, 1), parsed
		}
	}
	return now, now
}

func computeStats(q *gorm.DB) (dto.SessionStats, error) {
	var stats dto.SessionStats

	type row struct {
		Status string
		N      int64
		Review int64
		Mins   int64
	}
	var rows []row
	err := q.Select(
		"status, COUNT(*) AS n, " +
			"COUNT(*) FILTER (WHERE requires_review) AS review, " +
			"COALESCE(SUM(duration_minutes), 0) AS mins").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}

	var totalMinutes int64
	for _, r := range rows {
		stats.TotalSessions += r.N
		stats.SessionsRequiringReview += r.Review
		totalMinutes += r.Mins
		switch r.Status {
		case model.StatusCompleted:
			stats.CompletedSessions = r.N
		case model.StatusActive:
			stats.ActiveSessions = r.N
		case model.StatusAutoClockedOut:
			stats.AutoClockedOut = r.N
		}
	}

	stats.TotalHours = roundTo2(float64(totalMinutes) / 60)
	if stats.CompletedSessions > 0 {
		stats.AverageSessionMinutes = roundTo2(float64(totalMinutes) / float64(stats.CompletedSessions))
	}
	return stats, nil
}

func roundTo2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func applySessionFilters(q *gorm.DB, c *fiber.Ctx) *gorm.DB {
	if v := c.Query("start_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("clock_in_time >= ?", parsed)
		}
	}
	if v := c.Query("end_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("clock_in_time < ?", parsed.AddDate(0, 0, 1))
		}
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}
	return q
}

// mapServiceError translates lifecycle sentinels to HTTP errors.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrAlreadyClockedIn):
		return fiber.NewError(fiber.StatusConflict, "Already clocked in - an active session exists")
	case errors.Is(err, service.ErrNoActiveSession):
		return fiber.NewError(fiber.StatusNotFound, "No active session found")
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrSessionNotActive):
		return fiber.NewError(fiber.StatusConflict, "Session is not active")
	case errors.Is(err, service.ErrSessionStillActive):
		return fiber.NewError(fiber.StatusConflict, "Session is still active")
	case errors.Is(err, service.ErrInvalidCoordinates):
		return fiber.NewError(fiber.StatusBadRequest, "Coordinates out of range")
	case errors.Is(err, service.ErrInvalidReason):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid auto clock-out reason")
	case errors.Is(err, service.ErrClientNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Client not found")
	case errors.Is(err, service.ErrClientInactive):
		return fiber.NewError(fiber.StatusBadRequest, "Client is not active")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
