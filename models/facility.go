package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FacilityStatus enum
type FacilityStatus string

const (
	FacilityActive      FacilityStatus = "active"
	FacilityInactive    FacilityStatus = "inactive"
	FacilityMaintenance FacilityStatus = "maintenance"
)

// ValidFacilityStatus reports whether s is a known facility status.
func ValidFacilityStatus(s string) bool {
	switch FacilityStatus(s) {
	case FacilityActive, FacilityInactive, FacilityMaintenance:
		return true
	}
	return false
}

// Facility represents a municipal asset that citizens can rate and review
type Facility struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Location      string             `bson:"location" json:"location"`
	Latitude      *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	PhotoURL      *string            `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Status        FacilityStatus     `bson:"status" json:"status"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	ReviewCount   int64              `bson:"reviewCount" json:"reviewCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
