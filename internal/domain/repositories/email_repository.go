package repositories

import (
	"context"

	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
)

type EmailRepository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Email, error)
	Create(ctx context.Context, email *entities.Email) error
	CreateMany(ctx context.Context, emails []*entities.Email) error
	UpdateAddress(ctx context.Context, id uuid.UUID, address string) error
	DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error
	// FindByAddress returns emails with the given address and type across all businesses.
	FindByAddress(ctx context.Context, address string, emailType entities.EmailType) ([]*entities.Email, error)
}

type ContactRepository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Contact, error)
	CreateMany(ctx context.Context, contacts []*entities.Contact) error
	DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error
}
