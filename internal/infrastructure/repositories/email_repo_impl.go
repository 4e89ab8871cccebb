package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/models"
)

type EmailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

func (r *EmailRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Email, error) {
	var ms []models.Email
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *EmailRepository) FindByAddress(ctx context.Context, address string, emailType entities.EmailType) ([]*entities.Email, error) {
	var ms []models.Email
	if err := r.db.WithContext(ctx).
		Where("email_address = ? AND email_type = ?", address, string(emailType)).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *EmailRepository) Create(ctx context.Context, email *entities.Email) error {
	m := r.toModel(email)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	email.ID = m.ID
	email.CreatedAt = m.CreatedAt
	return nil
}

func (r *EmailRepository) CreateMany(ctx context.Context, emails []*entities.Email) error {
	if len(emails) == 0 {
		return nil
	}
	ms := make([]*models.Email, 0, len(emails))
	for _, e := range emails {
		ms = append(ms, r.toModel(e))
	}
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return err
	}
	for i, m := range ms {
		emails[i].ID = m.ID
		emails[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *EmailRepository) UpdateAddress(ctx context.Context, id uuid.UUID, address string) error {
	return affected(r.db.WithContext(ctx).Model(&models.Email{}).Where("id = ?", id).Update("email_address", address))
}

func (r *EmailRepository) DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("business_id = ?", businessID).Delete(&models.Email{}).Error
}

func (r *EmailRepository) toModel(e *entities.Email) *models.Email {
	return &models.Email{
		ID:           ensureID(e.ID),
		BusinessID:   e.BusinessID,
		EmailAddress: e.Address,
		EmailType:    string(e.Type),
		CreatedAt:    e.CreatedAt,
	}
}

func (r *EmailRepository) toEntities(ms []models.Email) []*entities.Email {
	items := make([]*entities.Email, 0, len(ms))
	for i := range ms {
		items = append(items, &entities.Email{
			ID:         ms[i].ID,
			BusinessID: ms[i].BusinessID,
			Address:    ms[i].EmailAddress,
			Type:       entities.EmailType(ms[i].EmailType),
			CreatedAt:  ms[i].CreatedAt,
		})
	}
	return items
}

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Contact, error) {
	var ms []models.Contact
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Contact, 0, len(ms))
	for i := range ms {
		items = append(items, &entities.Contact{
			ID:         ms[i].ID,
			BusinessID: ms[i].BusinessID,
			Number:     ms[i].Number,
			Type:       ms[i].Type,
		})
	}
	return items, nil
}

func (r *ContactRepository) CreateMany(ctx context.Context, contacts []*entities.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	ms := make([]*models.Contact, 0, len(contacts))
	for _, c := range contacts {
		ms = append(ms, &models.Contact{
			ID:         ensureID(c.ID),
			BusinessID: c.BusinessID,
			Number:     c.Number,
			Type:       c.Type,
		})
	}
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return err
	}
	for i, m := range ms {
		contacts[i].ID = m.ID
	}
	return nil
}

func (r *ContactRepository) DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("business_id = ?", businessID).Delete(&models.Contact{}).Error
}
