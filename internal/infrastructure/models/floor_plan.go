package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type FloorPlan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_floor_plan_business_name"`
	FloorName    string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_floor_plan_business_name"`
	CanvasWidth  float64   `gorm:"not null"`
	CanvasHeight float64   `gorm:"not null"`
	Width        float64
	Height       float64
	FloorPlan    null.JSON `gorm:"column:floor_plan;type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (FloorPlan) TableName() string { return "floor_plan" }

type Table struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_table_business_number"`
	FloorPlanID uuid.NullUUID `gorm:"type:uuid;index"`
	TableNumber int           `gorm:"not null;uniqueIndex:idx_table_business_number"`
	Seats       int           `gorm:"not null"`
	Active      bool          `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Table) TableName() string { return "table" }
