package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"slotzi.backend/internal/domain/entities"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *entities.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Business, int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile entities.BusinessProfile) error
	// SetVerification overwrites the verification flag and token together.
	SetVerification(ctx context.Context, id uuid.UUID, verified bool, token null.String) error
	GetByVerificationToken(ctx context.Context, token string) (*entities.Business, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LocationRepository interface {
	Create(ctx context.Context, location *entities.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Location, error)
	Update(ctx context.Context, location *entities.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error)
	GetByName(ctx context.Context, name string) (*entities.Category, error)
}

// BusinessUpdateLogRepository is append-only
type BusinessUpdateLogRepository interface {
	Create(ctx context.Context, log *entities.BusinessUpdateLog) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error)
}
