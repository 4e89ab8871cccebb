package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/models"
)

type FloorPlanRepository struct {
	db *gorm.DB
}

func NewFloorPlanRepository(db *gorm.DB) *FloorPlanRepository {
	return &FloorPlanRepository{db: db}
}

func (r *FloorPlanRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.Floor, error) {
	var ms []models.FloorPlan
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Floor, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *FloorPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Floor, error) {
	var m models.FloorPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *FloorPlanRepository) Create(ctx context.Context, floor *entities.Floor) error {
	return r.CreateMany(ctx, []*entities.Floor{floor})
}

func (r *FloorPlanRepository) CreateMany(ctx context.Context, floors []*entities.Floor) error {
	if len(floors) == 0 {
		return nil
	}
	ms := make([]*models.FloorPlan, 0, len(floors))
	for _, f := range floors {
		ms = append(ms, r.toModel(f))
	}
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return err
	}
	for i, m := range ms {
		floors[i].ID = m.ID
		floors[i].CreatedAt = m.CreatedAt
		floors[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *FloorPlanRepository) Update(ctx context.Context, floor *entities.Floor) error {
	updates := map[string]interface{}{
		"floor_name":    floor.Name,
		"canvas_width":  floor.CanvasWidth,
		"canvas_height": floor.CanvasHeight,
		"width":         floor.Width,
		"height":        floor.Height,
		"floor_plan":    floor.Layout,
		"updated_at":    time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.FloorPlan{}).Where("id = ?", floor.ID).Updates(updates))
}

func (r *FloorPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.FloorPlan{}, "id = ?", id))
}

func (r *FloorPlanRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.FloorPlan{}).Error
}

func (r *FloorPlanRepository) toEntity(m *models.FloorPlan) *entities.Floor {
	return &entities.Floor{
		ID:           m.ID,
		BusinessID:   m.BusinessID,
		Name:         m.FloorName,
		CanvasWidth:  m.CanvasWidth,
		CanvasHeight: m.CanvasHeight,
		Width:        m.Width,
		Height:       m.Height,
		Layout:       m.FloorPlan,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *FloorPlanRepository) toModel(e *entities.Floor) *models.FloorPlan {
	return &models.FloorPlan{
		ID:           ensureID(e.ID),
		BusinessID:   e.BusinessID,
		FloorName:    e.Name,
		CanvasWidth:  e.CanvasWidth,
		CanvasHeight: e.CanvasHeight,
		Width:        e.Width,
		Height:       e.Height,
		FloorPlan:    e.Layout,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

type TableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, includeInactive bool) ([]*entities.Table, error) {
	var ms []models.Table
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("table_number ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Table, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *TableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Table, error) {
	var m models.Table
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *TableRepository) GetByNumber(ctx context.Context, businessID uuid.UUID, number int) (*entities.Table, error) {
	var m models.Table
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND table_number = ? AND active = ?", businessID, number, true).
		First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *TableRepository) Create(ctx context.Context, table *entities.Table) error {
	return r.CreateMany(ctx, []*entities.Table{table})
}

func (r *TableRepository) CreateMany(ctx context.Context, tables []*entities.Table) error {
	if len(tables) == 0 {
		return nil
	}
	ms := make([]*models.Table, 0, len(tables))
	for _, t := range tables {
		ms = append(ms, r.toModel(t))
	}
	if err := r.db.WithContext(ctx).Create(&ms).Error; err != nil {
		return err
	}
	for i, m := range ms {
		tables[i].ID = m.ID
		tables[i].CreatedAt = m.CreatedAt
		tables[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *TableRepository) Update(ctx context.Context, table *entities.Table) error {
	updates := map[string]interface{}{
		"floor_plan_id": table.FloorID,
		"seats":         table.Seats,
		"active":        table.Active,
		"updated_at":    time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", table.ID).Updates(updates))
}

func (r *TableRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	updates := map[string]interface{}{
		"active":     active,
		"updated_at": time.Now(),
	}
	return affected(r.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(updates))
}

func (r *TableRepository) DetachFloor(ctx context.Context, floorID uuid.UUID) error {
	updates := map[string]interface{}{
		"floor_plan_id": nil,
		"active":        false,
		"updated_at":    time.Now(),
	}
	return r.db.WithContext(ctx).Model(&models.Table{}).Where("floor_plan_id = ?", floorID).Updates(updates).Error
}

func (r *TableRepository) toEntity(m *models.Table) *entities.Table {
	return &entities.Table{
		ID:         m.ID,
		BusinessID: m.BusinessID,
		FloorID:    m.FloorPlanID,
		Number:     m.TableNumber,
		Seats:      m.Seats,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *TableRepository) toModel(e *entities.Table) *models.Table {
	return &models.Table{
		ID:          ensureID(e.ID),
		BusinessID:  e.BusinessID,
		FloorPlanID: e.FloorID,
		TableNumber: e.Number,
		Seats:       e.Seats,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
