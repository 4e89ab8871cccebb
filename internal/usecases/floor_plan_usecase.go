package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/domain/repositories"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/pkg/logger"
	"slotzi.backend/pkg/reconcile"
	"slotzi.backend/pkg/saga"
	"slotzi.backend/pkg/utils"
)

const floorPlanCreateSaga = "floor_plan_create"

// FloorPlanUsecase keeps stored floors and tables in line with the editor's full snapshot
type FloorPlanUsecase struct {
	businessRepo repositories.BusinessRepository
	floorRepo    repositories.FloorPlanRepository
	tableRepo    repositories.TableRepository
	locker       repositories.Locker
}

// NewFloorPlanUsecase creates a new floor plan usecase
func NewFloorPlanUsecase(
	businessRepo repositories.BusinessRepository,
	floorRepo repositories.FloorPlanRepository,
	tableRepo repositories.TableRepository,
	locker repositories.Locker,
) *FloorPlanUsecase {
	return &FloorPlanUsecase{
		businessRepo: businessRepo,
		floorRepo:    floorRepo,
		tableRepo:    tableRepo,
		locker:       locker,
	}
}

// GetFloorPlan returns the floors and active tables of a business
func (u *FloorPlanUsecase) GetFloorPlan(ctx context.Context, businessID uuid.UUID) (*entities.FloorPlan, error) {
	floors, err := u.floorRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(floors) == 0 {
		return nil, domainerrors.NotFound("Floor plan not found")
	}
	tables, err := u.tableRepo.ListByBusiness(ctx, businessID, false)
	if err != nil {
		return nil, err
	}
	return &entities.FloorPlan{BusinessID: businessID, Floors: floors, Tables: tables}, nil
}

// SaveFloorPlan reconciles the stored floor plan against input. The first
// submission for a business takes the bulk creation path.
func (u *FloorPlanUsecase) SaveFloorPlan(ctx context.Context, input *entities.FloorPlanInput) (*entities.FloorPlanSummary, error) {
	if err := normalizeFloorPlanInput(input); err != nil {
		return nil, err
	}
	if _, err := u.businessRepo.GetByID(ctx, input.BusinessID); err != nil {
		return nil, notFoundAs(err, "Business not found")
	}

	ctx = logger.WithBusiness(ctx, input.BusinessID.String())
	var summary *entities.FloorPlanSummary
	err := u.locker.WithLock(ctx, "floorplan:"+input.BusinessID.String(), func(ctx context.Context) error {
		floors, err := u.floorRepo.ListByBusiness(ctx, input.BusinessID)
		if err != nil {
			return err
		}
		tables, err := u.tableRepo.ListByBusiness(ctx, input.BusinessID, true)
		if err != nil {
			return err
		}

		if len(floors) == 0 && len(tables) == 0 {
			summary, err = u.createFloorPlan(ctx, input)
			return err
		}
		summary, err = u.reconcileFloorPlan(ctx, input, floors, tables)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Floor plan saved",
		zap.Bool("created", summary.Created),
		zap.Int("floors_inserted", summary.Floors.Inserted),
		zap.Int("floors_removed", summary.Floors.Removed),
		zap.Int("tables_inserted", summary.Tables.Inserted),
		zap.Int("tables_updated", summary.Tables.Updated),
		zap.Int("tables_deactivated", summary.Tables.Removed),
	)
	return summary, nil
}

// DeleteFloor removes one floor. Its tables are detached and deactivated
// first so reservations keep a valid table reference.
func (u *FloorPlanUsecase) DeleteFloor(ctx context.Context, floorID uuid.UUID) error {
	floor, err := u.floorRepo.GetByID(ctx, floorID)
	if err != nil {
		return notFoundAs(err, "Floor not found")
	}

	return u.locker.WithLock(ctx, "floorplan:"+floor.BusinessID.String(), func(ctx context.Context) error {
		if err := u.tableRepo.DetachFloor(ctx, floor.ID); err != nil {
			return err
		}
		return u.floorRepo.Delete(ctx, floor.ID)
	})
}

func (u *FloorPlanUsecase) createFloorPlan(ctx context.Context, input *entities.FloorPlanInput) (*entities.FloorPlanSummary, error) {
	floors := make([]*entities.Floor, 0, len(input.Floors))
	floorIDs := make(map[string]uuid.UUID, len(input.Floors))
	for _, d := range input.Floors {
		f := newFloor(input, d)
		f.ID = utils.GenerateUUIDv7()
		floors = append(floors, f)
		floorIDs[f.Name] = f.ID
	}

	tables := make([]*entities.Table, 0, len(input.Tables))
	for _, d := range input.Tables {
		tables = append(tables, &entities.Table{
			BusinessID: input.BusinessID,
			FloorID:    uuid.NullUUID{UUID: floorIDs[d.Floor], Valid: true},
			Number:     d.Number,
			Seats:      d.Seats,
			Active:     true,
		})
	}

	s := saga.New(floorPlanCreateSaga, metrics.SagaObserver())
	err := s.Run(ctx,
		saga.Step{
			Name: "insert_floors",
			Do:   func(ctx context.Context) error { return u.floorRepo.CreateMany(ctx, floors) },
			Compensate: func(ctx context.Context) error {
				ids := make([]uuid.UUID, 0, len(floors))
				for _, f := range floors {
					ids = append(ids, f.ID)
				}
				return u.floorRepo.DeleteMany(ctx, ids)
			},
		},
		saga.Step{
			Name: "insert_tables",
			Do:   func(ctx context.Context) error { return u.tableRepo.CreateMany(ctx, tables) },
		},
	)
	metrics.ObserveSaga(floorPlanCreateSaga, err)
	if err != nil {
		logSagaFailure(ctx, err)
		return nil, err
	}

	return &entities.FloorPlanSummary{
		BusinessID: input.BusinessID,
		Created:    true,
		Floors:     entities.ChangeCounts{Inserted: len(floors)},
		Tables:     entities.ChangeCounts{Inserted: len(tables)},
	}, nil
}

func (u *FloorPlanUsecase) reconcileFloorPlan(ctx context.Context, input *entities.FloorPlanInput, stored []*entities.Floor, before []*entities.Table) (*entities.FloorPlanSummary, error) {
	// Tables detached by the floor pass are already inactive when the table
	// pass sees them; they still count as removed by this submission.
	activeBefore := make(map[uuid.UUID]bool, len(before))
	for _, t := range before {
		activeBefore[t.ID] = t.Active
	}

	floorRes, err := reconcile.Apply(ctx, stored, input.Floors,
		func(f *entities.Floor) string { return f.Name },
		func(d entities.DesiredFloor) string { return d.Name },
		reconcile.Ops[*entities.Floor, entities.DesiredFloor]{
			Equal: func(f *entities.Floor, d entities.DesiredFloor) bool {
				return f.CanvasWidth == input.CanvasWidth &&
					f.CanvasHeight == input.CanvasHeight &&
					f.Width == input.Width &&
					f.Height == input.Height &&
					sameLayout(f.Layout, d.Layout)
			},
			Update: func(ctx context.Context, f *entities.Floor, d entities.DesiredFloor) error {
				next := newFloor(input, d)
				next.ID = f.ID
				return u.floorRepo.Update(ctx, next)
			},
			Insert: func(ctx context.Context, d entities.DesiredFloor) error {
				return u.floorRepo.Create(ctx, newFloor(input, d))
			},
			Missing: func(ctx context.Context, f *entities.Floor) error {
				if err := u.tableRepo.DetachFloor(ctx, f.ID); err != nil {
					return err
				}
				return u.floorRepo.Delete(ctx, f.ID)
			},
		},
	)
	metrics.ObserveReconcile("floors", floorRes)
	if err != nil {
		return nil, fmt.Errorf("reconcile floors: %w", err)
	}

	// Ids of inserted floors are only known after the floor pass.
	current, err := u.floorRepo.ListByBusiness(ctx, input.BusinessID)
	if err != nil {
		return nil, err
	}
	floorIDs := make(map[string]uuid.UUID, len(current))
	for _, f := range current {
		floorIDs[f.Name] = f.ID
	}

	tables, err := u.tableRepo.ListByBusiness(ctx, input.BusinessID, true)
	if err != nil {
		return nil, err
	}

	resolve := func(d entities.DesiredTable) (uuid.NullUUID, error) {
		id, ok := floorIDs[d.Floor]
		if !ok {
			return uuid.NullUUID{}, domainerrors.Structural(fmt.Sprintf("floor %q of table %d does not exist", d.Floor, d.Number))
		}
		return uuid.NullUUID{UUID: id, Valid: true}, nil
	}

	alreadyInactive := 0
	tableRes, err := reconcile.Apply(ctx, tables, input.Tables,
		func(t *entities.Table) int { return t.Number },
		func(d entities.DesiredTable) int { return d.Number },
		reconcile.Ops[*entities.Table, entities.DesiredTable]{
			Equal: func(t *entities.Table, d entities.DesiredTable) bool {
				id, ok := floorIDs[d.Floor]
				return ok && t.Active && t.Seats == d.Seats && t.FloorID.Valid && t.FloorID.UUID == id
			},
			Update: func(ctx context.Context, t *entities.Table, d entities.DesiredTable) error {
				floorID, err := resolve(d)
				if err != nil {
					return err
				}
				next := *t
				next.FloorID = floorID
				next.Seats = d.Seats
				next.Active = true
				return u.tableRepo.Update(ctx, &next)
			},
			Insert: func(ctx context.Context, d entities.DesiredTable) error {
				floorID, err := resolve(d)
				if err != nil {
					return err
				}
				return u.tableRepo.Create(ctx, &entities.Table{
					BusinessID: input.BusinessID,
					FloorID:    floorID,
					Number:     d.Number,
					Seats:      d.Seats,
					Active:     true,
				})
			},
			Missing: func(ctx context.Context, t *entities.Table) error {
				if !t.Active {
					if !activeBefore[t.ID] {
						alreadyInactive++
					}
					return nil
				}
				return u.tableRepo.SetActive(ctx, t.ID, false)
			},
		},
	)
	tableRes.Missing -= alreadyInactive
	tableRes.Unchanged += alreadyInactive
	metrics.ObserveReconcile("tables", tableRes)
	if err != nil {
		return nil, fmt.Errorf("reconcile tables: %w", err)
	}

	return &entities.FloorPlanSummary{
		BusinessID: input.BusinessID,
		Floors:     changeCounts(floorRes),
		Tables:     changeCounts(tableRes),
	}, nil
}

func newFloor(input *entities.FloorPlanInput, d entities.DesiredFloor) *entities.Floor {
	return &entities.Floor{
		BusinessID:   input.BusinessID,
		Name:         d.Name,
		CanvasWidth:  input.CanvasWidth,
		CanvasHeight: input.CanvasHeight,
		Width:        input.Width,
		Height:       input.Height,
		Layout:       layoutJSON(d.Layout),
	}
}

func changeCounts(r reconcile.Result) entities.ChangeCounts {
	return entities.ChangeCounts{
		Inserted:  r.Inserted,
		Updated:   r.Updated,
		Unchanged: r.Unchanged,
		Removed:   r.Missing,
	}
}

func layoutJSON(raw json.RawMessage) null.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return null.JSON{}
	}
	return null.JSONFrom(trimmed)
}

// sameLayout compares layouts by value so store-side reformatting of the
// document is not mistaken for a change.
func sameLayout(stored null.JSON, desired json.RawMessage) bool {
	want := layoutJSON(desired)
	if !stored.Valid || !want.Valid {
		return stored.Valid == want.Valid
	}
	var a, b interface{}
	if json.Unmarshal(stored.JSON, &a) != nil || json.Unmarshal(want.JSON, &b) != nil {
		return bytes.Equal(stored.JSON, want.JSON)
	}
	return reflect.DeepEqual(a, b)
}

// normalizeFloorPlanInput trims names and rejects a desired state that cannot
// be applied, before anything is written.
func normalizeFloorPlanInput(input *entities.FloorPlanInput) error {
	if input.BusinessID == uuid.Nil {
		return domainerrors.BadRequest("business id is required")
	}
	if input.CanvasWidth <= 0 || input.CanvasHeight <= 0 {
		return domainerrors.BadRequest("canvas width and height must be positive")
	}
	if input.Width < 0 || input.Height < 0 {
		return domainerrors.BadRequest("width and height must not be negative")
	}
	if len(input.Floors) == 0 {
		return domainerrors.BadRequest("at least one floor is required")
	}

	floorNames := make(map[string]struct{}, len(input.Floors))
	for i := range input.Floors {
		f := &input.Floors[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return domainerrors.BadRequest("floor name is required")
		}
		if _, dup := floorNames[f.Name]; dup {
			return domainerrors.BadRequest(fmt.Sprintf("duplicate floor name %q", f.Name))
		}
		if len(bytes.TrimSpace(f.Layout)) > 0 && !json.Valid(f.Layout) {
			return domainerrors.BadRequest(fmt.Sprintf("floor %q has an invalid layout", f.Name))
		}
		floorNames[f.Name] = struct{}{}
	}

	numbers := make(map[int]struct{}, len(input.Tables))
	for i := range input.Tables {
		t := &input.Tables[i]
		t.Floor = strings.TrimSpace(t.Floor)
		if t.Number <= 0 {
			return domainerrors.BadRequest("table number must be positive")
		}
		if _, dup := numbers[t.Number]; dup {
			return domainerrors.BadRequest(fmt.Sprintf("duplicate table number %d", t.Number))
		}
		if t.Seats < 1 {
			return domainerrors.BadRequest(fmt.Sprintf("table %d must have at least one seat", t.Number))
		}
		if _, ok := floorNames[t.Floor]; !ok {
			return domainerrors.Structural(fmt.Sprintf("floor %q of table %d does not exist", t.Floor, t.Number))
		}
		numbers[t.Number] = struct{}{}
	}
	return nil
}

func logSagaFailure(ctx context.Context, err error) {
	se, ok := err.(*saga.Error)
	if !ok {
		logger.Error(ctx, "Saga failed", zap.Error(err))
		return
	}
	fields := []zap.Field{
		zap.String("saga", se.Saga),
		zap.String("step", se.Step),
		zap.Error(se.Err),
		zap.Bool("rolled_back", se.RolledBack()),
	}
	for _, cerr := range se.CompensationErrors {
		logger.Error(ctx, "Compensation failed", zap.String("saga", se.Saga), zap.Error(cerr))
	}
	logger.Error(ctx, "Saga failed", fields...)
}
