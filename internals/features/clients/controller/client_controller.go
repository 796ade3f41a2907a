package controller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldclock_backend/internals/features/clients/dto"
	"fieldclock_backend/internals/features/clients/model"
	"fieldclock_backend/internals/features/clients/service"
	helper "fieldclock_backend/internals/helpers"
	"fieldclock_backend/internals/helpers/geo"
)

type ClientController struct {
	DB *gorm.DB
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{DB: db}
}

var validate = validator.New()

/* ===================== CREATE ===================== */
// POST /api/a/clients
func (ctrl *ClientController) Create(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctrl.DB.Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return fiber.NewError(fiber.StatusConflict, "Client code already exists")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create client")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Client created", m)
}

/* ===================== LIST ===================== */
// GET /api/u/clients?active=&search=&page=&per_page=
func (ctrl *ClientController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.ClientModel{})
	if active := c.Query("active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ? OR client_code ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count clients")
	}

	var clients []model.ClientModel
	if err := q.Order("last_name, first_name").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&clients).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list clients")
	}

	return helper.Success(c, "OK", fiber.Map{
		"clients":    clients,
		"pagination": helper.BuildPagination(total, paging.Page, paging.PerPage),
	})
}

/* ===================== NEARBY ===================== */
// GET /api/u/clients/nearby?latitude=&longitude=&radius=
func (ctrl *ClientController) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("longitude"), 64)
	radiusKm, errRad := strconv.ParseFloat(c.Query("radius", "5"), 64)
	if errLat != nil || errLon != nil || errRad != nil || radiusKm <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid latitude, longitude, or radius parameters")
	}
	if !geo.ValidCoordinates(lat, lon) {
		return fiber.NewError(fiber.StatusBadRequest, "Coordinates out of range")
	}

	// Cheap rectangular pre-filter pushed down as an indexed range query;
	// FindNearby does the exact-distance refinement and sort.
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(lat, lon, radiusKm)

	var candidates []model.ClientModel
	if err := ctrl.DB.
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLon, maxLon).
		Where("is_active = ?", true).
		Find(&candidates).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to query clients")
	}

	hits := service.FindNearby(lat, lon, radiusKm, candidates)

	return helper.Success(c, "OK", fiber.Map{
		"clients": dto.ToNearbyClientResponses(hits),
		"search_location": fiber.Map{
			"latitude":  lat,
			"longitude": lon,
		},
		"radius_km": radiusKm,
		"count":     len(hits),
	})
}

/* ===================== DETAIL ===================== */
// GET /api/u/clients/:id
func (ctrl *ClientController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
	}

	var client model.ClientModel
	if err := ctrl.DB.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return helper.Success(c, "OK", client)
}

/* ===================== UPDATE ===================== */
// PUT /api/a/clients/:id
func (ctrl *ClientController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
	}

	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var client model.ClientModel
	if err := ctrl.DB.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	applyClientUpdate(&client, &req)
	if err := ctrl.DB.Save(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update client")
	}
	return helper.Success(c, "Client updated", client)
}

/* ===================== DEACTIVATE ===================== */
// DELETE /api/a/clients/:id — clients are never physically deleted, only
// deactivated so historical sessions keep their target.
func (ctrl *ClientController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid client id")
	}

	res := ctrl.DB.Model(&model.ClientModel{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate client")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Client not found")
	}
	return helper.Success(c, "Client deactivated", fiber.Map{"id": id})
}

func applyClientUpdate(m *model.ClientModel, req *dto.UpdateClientRequest) {
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.StreetAddress != nil {
		m.StreetAddress = *req.StreetAddress
	}
	if req.City != nil {
		m.City = *req.City
	}
	if req.State != nil {
		m.State = *req.State
	}
	if req.ZipCode != nil {
		m.ZipCode = *req.ZipCode
	}
	if req.Latitude != nil {
		m.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		m.Longitude = *req.Longitude
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.CareLevel != nil {
		m.CareLevel = *req.CareLevel
	}
	if req.SpecialInstructions != nil {
		m.SpecialInstructions = *req.SpecialInstructions
	}
	if req.AccessInstructions != nil {
		m.AccessInstructions = *req.AccessInstructions
	}
	if req.SafetyFlags != nil {
		m.SafetyFlags = *req.SafetyFlags
	}
}

// isDuplicateKey detects a Postgres unique violation (SQLSTATE 23505).
func isDuplicateKey(err error) bool {
	type sqlStater interface{ SQLState() string }
	var pgErr sqlStater
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}
