package repositories

import (
	"context"

	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
)

type BusinessUserRepository interface {
	Create(ctx context.Context, relation *entities.BusinessUser) error
	CreateMany(ctx context.Context, relations []*entities.BusinessUser) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BusinessUser, error)
	GetByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entities.BusinessUser, error)
	GetByToken(ctx context.Context, token string) (*entities.BusinessUser, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	// DeleteNonOwnerByBusiness removes every relation of the business except the Owner's.
	DeleteNonOwnerByBusiness(ctx context.Context, businessID uuid.UUID) error
	DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error)
	GetByUsername(ctx context.Context, username string) (*entities.Customer, error)
}
