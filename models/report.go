package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportCategory enum
type ReportCategory string

const (
	Road           ReportCategory = "road"
	Streetlight    ReportCategory = "streetlight"
	Drainage       ReportCategory = "drainage"
	Park           ReportCategory = "park"
	Bridge         ReportCategory = "bridge"
	PublicFacility ReportCategory = "public_facility"
	Other          ReportCategory = "other"
)

// ReportPriority enum
type ReportPriority string

const (
	Low    ReportPriority = "low"
	Medium ReportPriority = "medium"
	High   ReportPriority = "high"
)

// ValidCategory reports whether s is a known report category.
func ValidCategory(s string) bool {
	switch ReportCategory(s) {
	case Road, Streetlight, Drainage, Park, Bridge, PublicFacility, Other:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known report priority.
func ValidPriority(s string) bool {
	switch ReportPriority(s) {
	case Low, Medium, High:
		return true
	}
	return false
}

// Report represents a facility damage report submitted by a citizen
type Report struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	Location        string              `bson:"location" json:"location"`
	Category        ReportCategory      `bson:"category" json:"category"`
	Priority        ReportPriority      `bson:"priority" json:"priority"`
	Status          string              `bson:"status" json:"status"`
	ReporterEmail   string              `bson:"reporterEmail" json:"reporterEmail"`
	ReporterPhone   *string             `bson:"reporterPhone,omitempty" json:"reporterPhone,omitempty"`
	ImageURL        *string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	AssignedTo      *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CompletionNotes *string             `bson:"completionNotes,omitempty" json:"completionNotes,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
