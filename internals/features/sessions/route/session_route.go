package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionCtrl "fieldclock_backend/internals/features/sessions/controller"
)

// SessionUserRoutes wires the practitioner-facing session endpoints.
func SessionUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := sessionCtrl.NewSessionController(db)

	grp := r.Group("/sessions")
	grp.Post("/clock-in", ctrl.ClockIn)
	grp.Post("/clock-out", ctrl.ClockOut)
	grp.Get("/active", ctrl.Active)
	grp.Get("/statistics", ctrl.Statistics)
	grp.Post("/location-update", ctrl.LocationUpdate)
	grp.Post("/emergency-end", ctrl.EmergencyEnd)
	grp.Get("/", ctrl.MySessions)
	grp.Get("/:id", ctrl.Detail)
}

// SessionAdminRoutes wires the supervisor/admin session endpoints.
func SessionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := sessionCtrl.NewSessionController(db)

	grp := r.Group("/sessions")
	grp.Get("/", ctrl.AllSessions)
	grp.Post("/sweep", ctrl.Sweep)
	grp.Patch("/:id/review", ctrl.Review)
	grp.Post("/:id/cancel", ctrl.Cancel)
	grp.Post("/:id/auto-clock-out", ctrl.AutoClockOut)
	grp.Get("/:id/location-updates", ctrl.LocationTrail)
}
