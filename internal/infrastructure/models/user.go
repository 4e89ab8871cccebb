package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User rows are owned by the identity service; this service only reads them.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"type:varchar(80);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(160)"`
	Email     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
}

func (User) TableName() string { return "users" }

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"type:varchar(80);not null;uniqueIndex"`
	FullName string    `gorm:"type:varchar(160)"`
	Email    string    `gorm:"type:varchar(255)"`
}

func (Customer) TableName() string { return "customer" }

type BusinessHasUser struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index"`
	BusinessID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	Type              string      `gorm:"type:varchar(10);not null"`
	SupervisorID      uuid.UUID   `gorm:"type:uuid;not null"`
	VerificationToken null.String `gorm:"type:varchar(64);index"`
	IsVerified        bool        `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

func (BusinessHasUser) TableName() string { return "business_has_user" }
