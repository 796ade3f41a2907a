package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userCtrl "fieldclock_backend/internals/features/users/controller"
	"fieldclock_backend/internals/middlewares"
)

// AuthRoutes wires the public auth endpoints.
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := userCtrl.NewAuthController(db)

	grp := app.Group("/api/auth")
	grp.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	grp.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
}

// MeRoutes wires the authenticated profile endpoint.
func MeRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userCtrl.NewAuthController(db)
	r.Get("/auth/me", ctrl.Me)
}
