package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/models"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	m := r.toModel(business)
	m.ID = ensureID(m.ID)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	business.ID = m.ID
	business.CreatedAt = m.CreatedAt
	business.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Business, error) {
	var m models.Business
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *BusinessRepository) List(ctx context.Context, limit, offset int) ([]*entities.Business, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Business{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Business
	query := r.db.WithContext(ctx).Order("created_at DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Business, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *BusinessRepository) UpdateProfile(ctx context.Context, id uuid.UUID, p entities.BusinessProfile) error {
	updates := map[string]interface{}{
		"name":           p.Name,
		"category_id":    p.CategoryID,
		"website":        p.Website,
		"description":    p.Description,
		"opening_hour":   p.OpeningHour,
		"closing_hour":   p.ClosingHour,
		"facebook_link":  p.FacebookLink,
		"instagram_link": p.InstagramLink,
		"twitter_link":   p.TwitterLink,
		"logo":           p.Logo,
		"cover":          p.Cover,
		"updated_at":     time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(updates))
}

func (r *BusinessRepository) SetVerification(ctx context.Context, id uuid.UUID, verified bool, token null.String) error {
	updates := map[string]interface{}{
		"is_verified":        verified,
		"verification_token": token,
		"updated_at":         time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(updates))
}

func (r *BusinessRepository) GetByVerificationToken(ctx context.Context, token string) (*entities.Business, error) {
	var m models.Business
	if err := r.db.WithContext(ctx).Where("verification_token = ?", token).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *BusinessRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.SetVerification(ctx, id, true, null.String{})
}

func (r *BusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Business{}, "id = ?", id))
}

func (r *BusinessRepository) toEntity(m *models.Business) *entities.Business {
	return &entities.Business{
		ID: m.ID,
		BusinessProfile: entities.BusinessProfile{
			Name:          m.Name,
			CategoryID:    m.CategoryID,
			Website:       m.Website,
			Description:   m.Description,
			OpeningHour:   m.OpeningHour,
			ClosingHour:   m.ClosingHour,
			FacebookLink:  m.FacebookLink,
			InstagramLink: m.InstagramLink,
			TwitterLink:   m.TwitterLink,
			Logo:          m.Logo,
			Cover:         m.Cover,
		},
		LocationID:        m.LocationID,
		IsVerified:        m.IsVerified,
		VerificationToken: m.VerificationToken,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *BusinessRepository) toModel(e *entities.Business) *models.Business {
	return &models.Business{
		ID:                e.ID,
		Name:              e.Name,
		CategoryID:        e.CategoryID,
		LocationID:        e.LocationID,
		IsVerified:        e.IsVerified,
		VerificationToken: e.VerificationToken,
		Website:           e.Website,
		Description:       e.Description,
		OpeningHour:       e.OpeningHour,
		ClosingHour:       e.ClosingHour,
		FacebookLink:      e.FacebookLink,
		InstagramLink:     e.InstagramLink,
		TwitterLink:       e.TwitterLink,
		Logo:              e.Logo,
		Cover:             e.Cover,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, location *entities.Location) error {
	m := &models.Location{
		ID:      ensureID(location.ID),
		Line1:   location.Line1,
		Line2:   location.Line2,
		Line3:   location.Line3,
		Country: location.Country,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	location.ID = m.ID
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Location, error) {
	var m models.Location
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Location{ID: m.ID, Line1: m.Line1, Line2: m.Line2, Line3: m.Line3, Country: m.Country}, nil
}

func (r *LocationRepository) Update(ctx context.Context, location *entities.Location) error {
	updates := map[string]interface{}{
		"line1":   location.Line1,
		"line2":   location.Line2,
		"line3":   location.Line3,
		"country": location.Country,
	}
	return affected(r.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", location.ID).Updates(updates))
}

func (r *LocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id))
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Category, error) {
	var m models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Category{ID: m.ID, Name: m.Name}, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	var m models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Category{ID: m.ID, Name: m.Name}, nil
}

type BusinessUpdateLogRepository struct {
	db *gorm.DB
}

func NewBusinessUpdateLogRepository(db *gorm.DB) *BusinessUpdateLogRepository {
	return &BusinessUpdateLogRepository{db: db}
}

func (r *BusinessUpdateLogRepository) Create(ctx context.Context, log *entities.BusinessUpdateLog) error {
	m := &models.BusinessUpdateLog{
		ID:          ensureID(log.ID),
		BusinessID:  log.BusinessID,
		UserID:      log.UserID,
		Description: log.Description,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.ID = m.ID
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *BusinessUpdateLogRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error) {
	var ms []models.BusinessUpdateLog
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.BusinessUpdateLog, 0, len(ms))
	for i := range ms {
		items = append(items, &entities.BusinessUpdateLog{
			ID:          ms[i].ID,
			BusinessID:  ms[i].BusinessID,
			UserID:      ms[i].UserID,
			Description: ms[i].Description,
			CreatedAt:   ms[i].CreatedAt,
		})
	}
	return items, nil
}
