package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/models"
)

type BusinessUserRepository struct {
	db *gorm.DB
}

func NewBusinessUserRepository(db *gorm.DB) *BusinessUserRepository {
	return &BusinessUserRepository{db: db}
}

func (r *BusinessUserRepository) Create(ctx context.Context, relation *entities.BusinessUser) error {
	m := r.toModel(relation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	relation.ID = m.ID
	relation.CreatedAt = m.CreatedAt
	return nil
}

func (r *BusinessUserRepository) CreateMany(ctx context.Context, relations []*entities.BusinessUser) error {
	if len(relations) == 0 {
		return nil
	}
	ms := make([]*models.BusinessHasUser, 0, len(relations))
	for _, rel := range relations {
		ms = append(ms, r.toModel(rel))
	}
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return err
	}
	for i, m := range ms {
		relations[i].ID = m.ID
		relations[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *BusinessUserRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error) {
	return r.list(ctx, "business_id = ?", businessID)
}

func (r *BusinessUserRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BusinessUser, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *BusinessUserRepository) GetByUserAndBusiness(ctx context.Context, userID, businessID uuid.UUID) (*entities.BusinessUser, error) {
	var m models.BusinessHasUser
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *BusinessUserRepository) GetByToken(ctx context.Context, token string) (*entities.BusinessUser, error) {
	var m models.BusinessHasUser
	if err := r.db.WithContext(ctx).Where("verification_token = ?", token).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *BusinessUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	updates := map[string]interface{}{
		"is_verified":        true,
		"verification_token": nil,
	}
	return affected(r.db.WithContext(ctx).Model(&models.BusinessHasUser{}).Where("id = ?", id).Updates(updates))
}

func (r *BusinessUserRepository) DeleteNonOwnerByBusiness(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("business_id = ? AND type <> ?", businessID, string(entities.RelationOwner)).
		Delete(&models.BusinessHasUser{}).Error
}

func (r *BusinessUserRepository) DeleteByBusiness(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("business_id = ?", businessID).Delete(&models.BusinessHasUser{}).Error
}

func (r *BusinessUserRepository) list(ctx context.Context, cond string, arg uuid.UUID) ([]*entities.BusinessUser, error) {
	var ms []models.BusinessHasUser
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.BusinessUser, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *BusinessUserRepository) toEntity(m *models.BusinessHasUser) *entities.BusinessUser {
	return &entities.BusinessUser{
		ID:                m.ID,
		UserID:            m.UserID,
		BusinessID:        m.BusinessID,
		Type:              entities.RelationType(m.Type),
		SupervisorID:      m.SupervisorID,
		VerificationToken: m.VerificationToken,
		IsVerified:        m.IsVerified,
		CreatedAt:         m.CreatedAt,
	}
}

func (r *BusinessUserRepository) toModel(e *entities.BusinessUser) *models.BusinessHasUser {
	return &models.BusinessHasUser{
		ID:                ensureID(e.ID),
		UserID:            e.UserID,
		BusinessID:        e.BusinessID,
		Type:              string(e.Type),
		SupervisorID:      e.SupervisorID,
		VerificationToken: e.VerificationToken,
		IsVerified:        e.IsVerified,
		CreatedAt:         e.CreatedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) first(ctx context.Context, cond string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.User{ID: m.ID, Username: m.Username, Name: m.Name, Email: m.Email, CreatedAt: m.CreatedAt}, nil
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CustomerRepository) GetByUsername(ctx context.Context, username string) (*entities.Customer, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *CustomerRepository) first(ctx context.Context, cond string, arg interface{}) (*entities.Customer, error) {
	var m models.Customer
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Customer{ID: m.ID, Username: m.Username, FullName: m.FullName, Email: m.Email}, nil
}
