package services

import (
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// Confidence score weights. The score is a 0-100 completeness/verification
// metric over four buckets; it is computed on read and never stored.
const (
	identityWeight   = 30
	capacityWeight   = 25
	businessWeight   = 25
	regulatoryWeight = 20
)

// FarmerConfidence computes the confidence score for a farmer profile.
func FarmerConfidence(p *models.FarmerProfile) int {
	score := 0

	// Identity: who they are and where they farm.
	identity := 0
	if p.FullName != "" {
		identity += 10
	}
	if p.FarmName != "" {
		identity += 5
	}
	if p.Region != "" {
		identity += 10
	}
	if p.PhotoURL != "" {
		identity += 5
	}
	score += capBucket(identity, identityWeight)

	// Capacity: what and how much they can grow.
	capacity := 0
	if p.FarmSizeHa > 0 {
		capacity += 10
	}
	if len(p.Crops) > 0 {
		capacity += 15
	}
	score += capBucket(capacity, capacityWeight)

	// Business model: evidence of an established operation.
	business := 0
	if len(p.Certifications) > 0 {
		business += 25
	}
	score += capBucket(business, businessWeight)

	// Regulatory verification.
	if p.Verified {
		score += regulatoryWeight
	}

	return score
}

// CompanyConfidence computes the confidence score for a company profile.
func CompanyConfidence(p *models.CompanyProfile) int {
	score := 0

	identity := 0
	if p.CompanyName != "" {
		identity += 15
	}
	if p.Region != "" {
		identity += 10
	}
	if p.LogoURL != "" {
		identity += 5
	}
	score += capBucket(identity, identityWeight)

	capacity := 0
	if len(p.ProductsOfInterest) > 0 {
		capacity += 25
	}
	score += capBucket(capacity, capacityWeight)

	business := 0
	if p.BusinessType != "" {
		business += 15
	}
	if p.Website != "" {
		business += 10
	}
	score += capBucket(business, businessWeight)

	regulatory := 0
	if p.Verified {
		regulatory += 12
	}
	if p.RegistrationNo != "" {
		regulatory += 8
	}
	score += capBucket(regulatory, regulatoryWeight)

	return score
}

func capBucket(value, max int) int {
	if value > max {
		return max
	}
	return value
}
