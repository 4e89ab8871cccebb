package repositories

import (
	"context"

	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
)

// FloorPlanRepository stores the floor rows of a business floor plan
type FloorPlanRepository interface {
	// ListByBusiness returns floors ordered by creation.
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Floor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Floor, error)
	Create(ctx context.Context, floor *entities.Floor) error
	CreateMany(ctx context.Context, floors []*entities.Floor) error
	Update(ctx context.Context, floor *entities.Floor) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
}

type TableRepository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID, includeInactive bool) ([]*entities.Table, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Table, error)
	// GetByNumber returns the active table with the given number.
	GetByNumber(ctx context.Context, businessID uuid.UUID, number int) (*entities.Table, error)
	Create(ctx context.Context, table *entities.Table) error
	CreateMany(ctx context.Context, tables []*entities.Table) error
	Update(ctx context.Context, table *entities.Table) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// DetachFloor clears the floor reference of every table on the floor and deactivates them.
	DetachFloor(ctx context.Context, floorID uuid.UUID) error
}
