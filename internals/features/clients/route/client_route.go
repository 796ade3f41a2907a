package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientCtrl "fieldclock_backend/internals/features/clients/controller"
)

// ClientUserRoutes wires the read-only client endpoints for practitioners.
func ClientUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := clientCtrl.NewClientController(db)

	grp := r.Group("/clients")
	grp.Get("/", ctrl.List)
	grp.Get("/nearby", ctrl.Nearby)
	grp.Get("/:id", ctrl.GetByID)
}

// ClientAdminRoutes wires the mutating client endpoints for supervisors and
// admins.
func ClientAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := clientCtrl.NewClientController(db)

	grp := r.Group("/clients")
	grp.Post("/", ctrl.Create)
	grp.Put("/:id", ctrl.Update)
	grp.Delete("/:id", ctrl.Deactivate)
}
