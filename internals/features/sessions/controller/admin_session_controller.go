package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldclock_backend/internals/configs"
	"fieldclock_backend/internals/features/sessions/dto"
	"fieldclock_backend/internals/features/sessions/model"
	"fieldclock_backend/internals/features/sessions/service"
	helper "fieldclock_backend/internals/helpers"
)

/* ===================== ALL SESSIONS ===================== */
// GET /api/a/sessions?practitioner=&client=&start_date=&end_date=&status=
func (ctrl *SessionController) AllSessions(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.ClockSessionModel{})
	if v := c.Query("practitioner"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("practitioner_id = ?", id)
		}
	}
	if v := c.Query("client"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("client_id = ?", id)
		}
	}
	if v := c.Query("requires_review"); v != "" {
		q = q.Where("requires_review = ?", v == "true")
	}
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

/* ===================== REVIEW ===================== */
// PATCH /api/a/sessions/:id/review
func (ctrl *SessionController) Review(c *fiber.Ctx) error {
	reviewerID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctrl.Service.Review(c.UserContext(), sessionID, *req.RequiresReview, reviewerID, req.Notes)
	if err != nil {
		return mapServiceError(err)
	}
	return helper.Success(c, "Session reviewed", dto.ToSessionResponse(session))
}

/* ===================== CANCEL ===================== */
// POST /api/a/sessions/:id/cancel
func (ctrl *SessionController) Cancel(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	session, err := ctrl.Service.Cancel(c.UserContext(), sessionID)
	if err != nil {
		return mapServiceError(err)
	}
	return helper.Success(c, "Session cancelled", dto.ToSessionResponse(session))
}

/* ===================== AUTO CLOCK OUT ===================== */
// POST /api/a/sessions/:id/auto-clock-out — manual trigger for operators;
// idempotent like the sweeper's path.
func (ctrl *SessionController) AutoClockOut(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var req dto.AutoClockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, changed, err := ctrl.Service.AutoClockOut(c.UserContext(), sessionID, req.Reason)
	if err != nil {
		return mapServiceError(err)
	}

	msg := "Session auto clocked out"
	if !changed {
		msg = "Session already closed - no changes made"
	}
	return helper.Success(c, msg, fiber.Map{
		"changed": changed,
		"session": dto.ToSessionResponse(session),
	})
}

/* ===================== SWEEP ===================== */
// POST /api/a/sessions/sweep — on-demand run of the timeout sweep.
func (ctrl *SessionController) Sweep(c *fiber.Ctx) error {
	var req dto.SweepRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}
		if err := validate.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	timeoutMinutes := req.TimeoutMinutes
	if timeoutMinutes <= 0 {
		timeoutMinutes = configs.SessionTimeoutMinutes
	}

	result, err := service.SweepTimeouts(
		c.UserContext(),
		ctrl.Service,
		time.Now().UTC(),
		time.Duration(timeoutMinutes)*time.Minute,
		req.DryRun,
	)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Sweep failed: "+err.Error())
	}
	return helper.Success(c, "Sweep completed", result)
}

/* ===================== LOCATION TRAIL ===================== */
// GET /api/a/sessions/:id/location-updates
func (ctrl *SessionController) LocationTrail(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	var session model.ClockSessionModel
	if err := ctrl.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	samples, err := ctrl.Service.ListSamples(c.UserContext(), sessionID, 500)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list location updates")
	}
	return helper.Success(c, "OK", fiber.Map{
		"session_id": sessionID,
		"updates":    samples,
		"count":      len(samples),
	})
}
