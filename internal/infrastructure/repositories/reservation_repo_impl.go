package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/models"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error) {
	return r.list(r.db.WithContext(ctx).Where("business_id = ?", businessID))
}

func (r *ReservationRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entities.Reservation, error) {
	return r.list(r.db.WithContext(ctx).Where("customer_id = ?", customerID))
}

func (r *ReservationRepository) ListByTableAndDate(ctx context.Context, tableID uuid.UUID, date string) ([]*entities.Reservation, error) {
	return r.list(r.db.WithContext(ctx).Where("table_id = ? AND reservation_date = ?", tableID, date))
}

func (r *ReservationRepository) ListExpiredActive(ctx context.Context, before string, limit int) ([]*entities.Reservation, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND reservation_date < ?", string(entities.ReservationActive), before)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return r.list(query)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reservation, error) {
	var m models.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	m := r.toModel(reservation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	reservation.ID = m.ID
	reservation.CreatedAt = m.CreatedAt
	reservation.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, reservation *entities.Reservation) error {
	updates := map[string]interface{}{
		"table_id":         reservation.TableID,
		"people_count":     reservation.PeopleCount,
		"reservation_date": reservation.Date,
		"start_time":       reservation.StartTime,
		"end_time":         reservation.EndTime,
		"status":           string(reservation.Status),
		"customer_name":    reservation.CustomerName,
		"customer_number":  reservation.CustomerNumber,
		"updated_at":       time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", reservation.ID).Updates(updates))
}

func (r *ReservationRepository) SetStatus(ctx context.Context, id uuid.UUID, status entities.ReservationStatus) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Updates(updates))
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Reservation{}, "id = ?", id))
}

func (r *ReservationRepository) list(query *gorm.DB) ([]*entities.Reservation, error) {
	var ms []models.Reservation
	if err := query.Order("reservation_date ASC, start_time ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Reservation, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *ReservationRepository) toEntity(m *models.Reservation) *entities.Reservation {
	return &entities.Reservation{
		ID:             m.ID,
		BusinessID:     m.BusinessID,
		TableID:        m.TableID,
		CustomerID:     m.CustomerID,
		PeopleCount:    m.PeopleCount,
		SlotType:       m.SlotType,
		Date:           m.ReservationDate,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         entities.ReservationStatus(m.Status),
		CustomerName:   m.CustomerName,
		CustomerNumber: m.CustomerNumber,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *ReservationRepository) toModel(e *entities.Reservation) *models.Reservation {
	return &models.Reservation{
		ID:              ensureID(e.ID),
		BusinessID:      e.BusinessID,
		TableID:         e.TableID,
		CustomerID:      e.CustomerID,
		PeopleCount:     e.PeopleCount,
		SlotType:        e.SlotType,
		ReservationDate: e.Date,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Status:          string(e.Status),
		CustomerName:    e.CustomerName,
		CustomerNumber:  e.CustomerNumber,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
