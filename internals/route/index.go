package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientRoute "fieldclock_backend/internals/features/clients/route"
	sessionRoute "fieldclock_backend/internals/features/sessions/route"
	userModel "fieldclock_backend/internals/features/users/model"
	userRoute "fieldclock_backend/internals/features/users/route"
	authMiddleware "fieldclock_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(app, db)

	// ===================== PRIVATE (practitioner) =====================
	log.Println("[INFO] Setting up private group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware(db))
	userRoute.MeRoutes(private, db)
	sessionRoute.SessionUserRoutes(private, db)
	clientRoute.ClientUserRoutes(private, db)

	// ===================== ADMIN (supervisor/admin) =====================
	log.Println("[INFO] Setting up admin group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.RequireRoles(userModel.RoleSupervisor, userModel.RoleAdmin),
	)
	sessionRoute.SessionAdminRoutes(admin, db)
	clientRoute.ClientAdminRoutes(admin, db)
}
