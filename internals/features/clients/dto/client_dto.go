package dto

import (
	"math"

	"github.com/google/uuid"

	"fieldclock_backend/internals/features/clients/model"
	"fieldclock_backend/internals/features/clients/service"
)

type CreateClientRequest struct {
	ClientCode string `json:"client_code" validate:"required,max=20"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"omitempty,e164"`
	Email      string `json:"email" validate:"omitempty,email"`

	StreetAddress string `json:"street_address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=50"`
	ZipCode       string `json:"zip_code" validate:"required,max=10"`

	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`

	CareLevel           string   `json:"care_level" validate:"omitempty,oneof=low medium high crisis"`
	SpecialInstructions string   `json:"special_instructions"`
	AccessInstructions  string   `json:"access_instructions"`
	SafetyFlags         []string `json:"safety_flags"`

	EmergencyContactName  string `json:"emergency_contact_name" validate:"omitempty,max=100"`
	EmergencyContactPhone string `json:"emergency_contact_phone" validate:"omitempty,e164"`
}

type UpdateClientRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	Email     *string `json:"email" validate:"omitempty,email"`

	StreetAddress *string `json:"street_address" validate:"omitempty,max=255"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	State         *string `json:"state" validate:"omitempty,max=50"`
	ZipCode       *string `json:"zip_code" validate:"omitempty,max=10"`

	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`

	IsActive            *bool     `json:"is_active"`
	CareLevel           *string   `json:"care_level" validate:"omitempty,oneof=low medium high crisis"`
	SpecialInstructions *string   `json:"special_instructions"`
	AccessInstructions  *string   `json:"access_instructions"`
	SafetyFlags         *[]string `json:"safety_flags"`
}

func (r *CreateClientRequest) ToModel() *model.ClientModel {
	careLevel := r.CareLevel
	if careLevel == "" {
		careLevel = "medium"
	}
	return &model.ClientModel{
		ClientCode:            r.ClientCode,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		Phone:                 r.Phone,
		Email:                 r.Email,
		StreetAddress:         r.StreetAddress,
		City:                  r.City,
		State:                 r.State,
		ZipCode:               r.ZipCode,
		Latitude:              r.Latitude,
		Longitude:             r.Longitude,
		IsActive:              true,
		CareLevel:             careLevel,
		SpecialInstructions:   r.SpecialInstructions,
		AccessInstructions:    r.AccessInstructions,
		SafetyFlags:           r.SafetyFlags,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
	}
}

type NearbyClientResponse struct {
	ID             uuid.UUID `json:"id"`
	ClientCode     string    `json:"client_code"`
	FullName       string    `json:"full_name"`
	StreetAddress  string    `json:"street_address"`
	City           string    `json:"city"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	DistanceMeters float64   `json:"distance_meters"`
	DistanceKm     float64   `json:"distance_km"`
}

func ToNearbyClientResponses(hits []service.NearbyClient) []NearbyClientResponse {
	out := make([]NearbyClientResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, NearbyClientResponse{
			ID:             h.Client.ID,
			ClientCode:     h.Client.ClientCode,
			FullName:       h.Client.FullName(),
			StreetAddress:  h.Client.StreetAddress,
			City:           h.Client.City,
			Latitude:       h.Client.Latitude,
			Longitude:      h.Client.Longitude,
			DistanceMeters: math.Round(h.DistanceMeters*100) / 100,
			DistanceKm:     math.Round(h.DistanceMeters/10) / 100,
		})
	}
	return out
}
