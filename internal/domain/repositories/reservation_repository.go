package repositories

import (
	"context"

	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
)

type ReservationRepository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.Reservation, error)
	ListByTableAndDate(ctx context.Context, tableID uuid.UUID, date string) ([]*entities.Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Reservation, error)
	Create(ctx context.Context, reservation *entities.Reservation) error
	Update(ctx context.Context, reservation *entities.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status entities.ReservationStatus) error
	// ListExpiredActive returns Active reservations dated strictly before the given date.
	ListExpiredActive(ctx context.Context, before string, limit int) ([]*entities.Reservation, error)
}
