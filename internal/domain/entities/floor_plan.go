package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Floor is one named canvas of a business floor plan. Floors are identified
// by name within a business; a rename is a removal plus an insertion.
type Floor struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"businessId"`
	Name         string    `json:"floorName"`
	CanvasWidth  float64   `json:"canvasWidth"`
	CanvasHeight float64   `json:"canvasHeight"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Layout       null.JSON `json:"floorPlan"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Table is a seatable unit, unique by number within a business. Tables are
// deactivated rather than deleted so reservations keep their reference.
type Table struct {
	ID         uuid.UUID     `json:"id"`
	BusinessID uuid.UUID     `json:"businessId"`
	FloorID    uuid.NullUUID `json:"floorPlanId"`
	Number     int           `json:"tableNumber"`
	Seats      int           `json:"seats"`
	Active     bool          `json:"active"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// DesiredFloor is a floor as submitted by the editor
type DesiredFloor struct {
	Name   string          `json:"floorName"`
	Layout json.RawMessage `json:"floorPlan"`
}

// DesiredTable is a table as submitted by the editor. Floor names the
// DesiredFloor the table sits on.
type DesiredTable struct {
	Number int    `json:"tableNumber"`
	Seats  int    `json:"seats"`
	Floor  string `json:"floor"`
}

// FloorPlanInput is the full desired floor plan of a business
type FloorPlanInput struct {
	BusinessID   uuid.UUID      `json:"-"`
	CanvasWidth  float64        `json:"canvasWidth"`
	CanvasHeight float64        `json:"canvasHeight"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	Floors       []DesiredFloor `json:"floors"`
	Tables       []DesiredTable `json:"tables"`
}

// FloorPlan is the stored floor plan of a business
type FloorPlan struct {
	BusinessID uuid.UUID `json:"businessId"`
	Floors     []*Floor  `json:"floors"`
	Tables     []*Table  `json:"tables"`
}

// ChangeCounts summarizes one reconciliation pass over a record set
type ChangeCounts struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// FloorPlanSummary is returned after a floor plan save
type FloorPlanSummary struct {
	BusinessID uuid.UUID    `json:"businessId"`
	Created    bool         `json:"created"`
	Floors     ChangeCounts `json:"floors"`
	Tables     ChangeCounts `json:"tables"`
}
