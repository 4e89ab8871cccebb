package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type Business struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	Name              string      `gorm:"type:varchar(160);not null"`
	CategoryID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	LocationID        uuid.UUID   `gorm:"type:uuid;not null"`
	IsVerified        bool        `gorm:"not null;default:false"`
	VerificationToken null.String `gorm:"type:varchar(64);index"`
	Website           null.String `gorm:"type:text"`
	Description       null.String `gorm:"type:text"`
	OpeningHour       null.String `gorm:"type:varchar(8)"`
	ClosingHour       null.String `gorm:"type:varchar(8)"`
	FacebookLink      null.String `gorm:"type:text"`
	InstagramLink     null.String `gorm:"type:text"`
	TwitterLink       null.String `gorm:"type:text"`
	Logo              null.String `gorm:"type:text"`
	Cover             null.String `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Business) TableName() string { return "business" }

type Location struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	Line1   string    `gorm:"column:line1;type:text;not null"`
	Line2   string    `gorm:"column:line2;type:text"`
	Line3   string    `gorm:"column:line3;type:text"`
	Country string    `gorm:"type:varchar(80);not null"`
}

func (Location) TableName() string { return "location" }

type Email struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmailAddress string    `gorm:"type:varchar(255);not null;index"`
	EmailType    string    `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
}

func (Email) TableName() string { return "email" }

type Contact struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Number     string    `gorm:"type:varchar(15);not null"`
	Type       string    `gorm:"type:varchar(40)"`
}

func (Contact) TableName() string { return "contact" }

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	Name string    `gorm:"type:varchar(80);not null;uniqueIndex"`
}

func (Category) TableName() string { return "category" }

type BusinessUpdateLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	BusinessID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

func (BusinessUpdateLog) TableName() string { return "business_update_log" }
