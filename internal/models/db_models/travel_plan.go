package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TravelPlanRecord is the persisted form of a generated plan. The itinerary
// and summary are stored as the JSON the generation pipeline produced; the
// record is never the source of truth during generation.
type TravelPlanRecord struct {
	BaseModel
	AccountID   uuid.UUID `gorm:"type:uuid;index"`
	Title       string
	Destination string
	StartDate   string `gorm:"size:10"` // ISO date
	EndDate     string `gorm:"size:10"`
	Budget      *float64
	Preferences datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Itinerary   datatypes.JSON `gorm:"type:jsonb"`
	Summary     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
