package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/utils"
)

type MockBusinessService struct{ mock.Mock }

func (m *MockBusinessService) CreateBusiness(ctx context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessService) GetBusiness(ctx context.Context, id uuid.UUID) (*entities.BusinessDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessDetail), args.Error(1)
}

func (m *MockBusinessService) ListBusinesses(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Business, utils.PaginationMeta, error) {
	args := m.Called(ctx, pagination)
	return args.Get(0).([]*entities.Business), args.Get(1).(utils.PaginationMeta), args.Error(2)
}

func (m *MockBusinessService) ListUpdateLogs(ctx context.Context, id uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error) {
	args := m.Called(ctx, id, limit)
	return args.Get(0).([]*entities.BusinessUpdateLog), args.Error(1)
}

func (m *MockBusinessService) UpdateBusiness(ctx context.Context, userID, businessID uuid.UUID, patch *entities.BusinessPatch) (*entities.BusinessUpdateResult, error) {
	args := m.Called(ctx, userID, businessID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessUpdateResult), args.Error(1)
}

func (m *MockBusinessService) DeleteBusiness(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockBusinessService) VerifyBusinessEmail(ctx context.Context, token string) (*entities.Business, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

type MockFloorPlanService struct{ mock.Mock }

func (m *MockFloorPlanService) GetFloorPlan(ctx context.Context, businessID uuid.UUID) (*entities.FloorPlan, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FloorPlan), args.Error(1)
}

func (m *MockFloorPlanService) SaveFloorPlan(ctx context.Context, input *entities.FloorPlanInput) (*entities.FloorPlanSummary, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FloorPlanSummary), args.Error(1)
}

func (m *MockFloorPlanService) DeleteFloor(ctx context.Context, floorID uuid.UUID) error {
	return m.Called(ctx, floorID).Error(0)
}

type MockRelationService struct{ mock.Mock }

func (m *MockRelationService) CreateBusinessRelation(ctx context.Context, supervisorID uuid.UUID, input *entities.CreateRelationInput) (*entities.BusinessUser, error) {
	args := m.Called(ctx, supervisorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessUser), args.Error(1)
}

func (m *MockRelationService) ListRelationsByUser(ctx context.Context, username string) ([]*entities.BusinessUser, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]*entities.BusinessUser), args.Error(1)
}

func (m *MockRelationService) ListRelationsByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]*entities.BusinessUser), args.Error(1)
}

func (m *MockRelationService) VerifyRelation(ctx context.Context, token string) (*entities.BusinessUser, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BusinessUser), args.Error(1)
}

type MockReservationService struct{ mock.Mock }

func (m *MockReservationService) GetReservations(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservationsByCustomer(ctx context.Context, username string) ([]*entities.Reservation, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) CreateReservation(ctx context.Context, input *entities.CreateReservationInput) (*entities.Reservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, id uuid.UUID, input *entities.UpdateReservationInput) (*entities.Reservation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) ConfirmReservation(ctx context.Context, id uuid.UUID) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReservationService) CheckAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*entities.Availability, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Availability), args.Error(1)
}

type stubMediaReader struct {
	objects map[string][]byte
}

func (s stubMediaReader) Read(_ context.Context, key string) ([]byte, string, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, "", domainerrors.ErrNotFound
	}
	return data, "image/png", nil
}
