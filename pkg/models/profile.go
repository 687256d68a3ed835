package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace an actor is on.
type Role string

const (
	RoleFarmer  Role = "FARMER"
	RoleCompany Role = "COMPANY"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleCompany
}

// FarmerProfile is a farmer's business identity record, distinct from the
// authentication user record held by the auth provider.
// Stored in farmer_profiles table.
type FarmerProfile struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"` // auth provider subject
	FullName       string    `json:"full_name"`
	FarmName       string    `json:"farm_name"`
	Region         string    `json:"region"`
	FarmSizeHa     float64   `json:"farm_size_ha"`
	Crops          []string  `json:"crops"`
	Certifications []string  `json:"certifications"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CompanyProfile is a buyer company's business identity record.
// Stored in company_profiles table.
type CompanyProfile struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"user_id"`
	CompanyName        string    `json:"company_name"`
	Region             string    `json:"region"`
	BusinessType       string    `json:"business_type"` // e.g. 'exporter', 'processor', 'retailer'
	ProductsOfInterest []string  `json:"products_of_interest"`
	RegistrationNo     string    `json:"registration_no,omitempty"`
	Website            string    `json:"website,omitempty"`
	LogoURL            string    `json:"logo_url,omitempty"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
