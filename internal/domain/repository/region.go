package repository

import "SentiGauge/internal/domain/models"

// IsValidRegion returns true if r is a supported region.
func IsValidRegion(r models.Region) bool {
	switch r {
	case models.RegionUS, models.RegionEU, models.RegionCN:
		return true
	default:
		return false
	}
}

// DefaultRegion returns the default region.
func DefaultRegion() models.Region { return models.RegionUS }

// NormalizeRegion converts a raw string to a valid region (or default).
func NormalizeRegion(s string) models.Region {
	if s == "" {
		return DefaultRegion()
	}
	r := models.Region(s)
	if IsValidRegion(r) {
		return r
	}
	return DefaultRegion()
}
