package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type Reservation struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	TableID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_reservation_table_date"`
	CustomerID      uuid.NullUUID `gorm:"type:uuid;index"`
	PeopleCount     int           `gorm:"not null"`
	SlotType        string        `gorm:"type:varchar(40)"`
	ReservationDate string        `gorm:"type:varchar(10);not null;index:idx_reservation_table_date"`
	StartTime       string        `gorm:"type:varchar(8);not null"`
	EndTime         string        `gorm:"type:varchar(8);not null"`
	Status          string        `gorm:"type:varchar(20);not null;default:'Active'"`
	CustomerName    null.String   `gorm:"type:varchar(160)"`
	CustomerNumber  null.String   `gorm:"type:varchar(15)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Reservation) TableName() string { return "reservation" }
