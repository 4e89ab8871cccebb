package usecases

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/domain/repositories"
	"slotzi.backend/internal/domain/services"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/pkg/logger"
)

// ReservationDeleted is the payload broadcast when a reservation is removed
type ReservationDeleted struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"businessId"`
}

// ReservationPolicy controls date defaults and double-booking protection
type ReservationPolicy struct {
	Location *time.Location
	// EnforceOverlap rejects writes that overlap a blocking reservation of
	// the same table and date. When false overlap is advisory only.
	EnforceOverlap bool
}

// ReservationUsecase books tables and fans every change out to the business room
type ReservationUsecase struct {
	reservationRepo repositories.ReservationRepository
	tableRepo       repositories.TableRepository
	customerRepo    repositories.CustomerRepository
	businessRepo    repositories.BusinessRepository
	predictor       services.DurationPredictor
	broadcaster     services.Broadcaster
	locker          repositories.Locker
	policy          ReservationPolicy
	now             func() time.Time
}

// NewReservationUsecase creates a new reservation usecase
func NewReservationUsecase(
	reservationRepo repositories.ReservationRepository,
	tableRepo repositories.TableRepository,
	customerRepo repositories.CustomerRepository,
	businessRepo repositories.BusinessRepository,
	predictor services.DurationPredictor,
	broadcaster services.Broadcaster,
	locker repositories.Locker,
	policy ReservationPolicy,
) *ReservationUsecase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if broadcaster == nil {
		broadcaster = services.NopBroadcaster{}
	}
	return &ReservationUsecase{
		reservationRepo: reservationRepo,
		tableRepo:       tableRepo,
		customerRepo:    customerRepo,
		businessRepo:    businessRepo,
		predictor:       predictor,
		broadcaster:     broadcaster,
		locker:          locker,
		policy:          policy,
		now:             time.Now,
	}
}

// GetReservations returns the full reservation snapshot of a business
func (u *ReservationUsecase) GetReservations(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error) {
	reservations, err := u.reservationRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := u.attachTableNumbers(ctx, businessID, reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListReservationsByCustomer returns the reservations of a registered customer
func (u *ReservationUsecase) ListReservationsByCustomer(ctx context.Context, username string) ([]*entities.Reservation, error) {
	customer, err := u.customerRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, notFoundAs(err, "Customer not found")
	}
	return u.reservationRepo.ListByCustomer(ctx, customer.ID)
}

// CreateReservation books a table. The end time comes from the request or,
// when absent, from the duration predictor.
func (u *ReservationUsecase) CreateReservation(ctx context.Context, input *entities.CreateReservationInput) (*entities.Reservation, error) {
	if err := validateCreateReservation(input); err != nil {
		return nil, err
	}
	start, err := entities.NormalizeClock(input.StartTime)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid start time")
	}
	date, err := u.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}

	if _, err := u.businessRepo.GetByID(ctx, input.BusinessID); err != nil {
		return nil, notFoundAs(err, "Business not found")
	}
	table, err := u.tableRepo.GetByNumber(ctx, input.BusinessID, input.TableNumber)
	if err != nil {
		return nil, notFoundAs(err, "Table not found")
	}

	reservation := &entities.Reservation{
		BusinessID:     input.BusinessID,
		TableID:        table.ID,
		TableNumber:    table.Number,
		PeopleCount:    input.PeopleCount,
		SlotType:       strings.TrimSpace(input.SlotType),
		Date:           date,
		StartTime:      start,
		Status:         entities.ReservationActive,
		CustomerName:   optional(input.CustomerName),
		CustomerNumber: optional(input.CustomerNumber),
	}
	if username := strings.TrimSpace(input.CustomerUsername); username != "" {
		customer, err := u.customerRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, notFoundAs(err, "Customer not found")
		}
		reservation.CustomerID = uuid.NullUUID{UUID: customer.ID, Valid: true}
		if !reservation.CustomerName.Valid {
			reservation.CustomerName = null.StringFrom(customer.FullName)
		}
	}

	if reservation.EndTime, err = u.endTime(ctx, input, reservation); err != nil {
		return nil, err
	}

	write := func(ctx context.Context) error {
		return u.reservationRepo.Create(ctx, reservation)
	}
	if err := u.guardedWrite(ctx, reservation, write); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("business_id", reservation.BusinessID.String()),
	)
	u.broadcaster.Broadcast(ctx, reservation.BusinessID, services.EventReservationCreated, reservation)
	return reservation, nil
}

// UpdateReservation applies a partial change. Status follows
// Active -> Confirmed | Cancelled; Confirmed and Cancelled are terminal.
func (u *ReservationUsecase) UpdateReservation(ctx context.Context, id uuid.UUID, input *entities.UpdateReservationInput) (*entities.Reservation, error) {
	current, err := u.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domainerrors.BadRequest("Invalid reservation status")
		}
		if !current.Status.CanTransition(*input.Status) {
			return nil, domainerrors.InvalidTransition(fmt.Sprintf("cannot change status from %s to %s", current.Status, *input.Status))
		}
		next.Status = *input.Status
	}
	if current.Status == entities.ReservationCancelled && touchesBooking(input) {
		return nil, domainerrors.InvalidTransition("cancelled reservations cannot be modified")
	}

	if input.TableNumber != nil && *input.TableNumber != current.TableNumber {
		table, err := u.tableRepo.GetByNumber(ctx, current.BusinessID, *input.TableNumber)
		if err != nil {
			return nil, notFoundAs(err, "Table not found")
		}
		next.TableID, next.TableNumber = table.ID, table.Number
	}
	if input.PeopleCount != nil {
		if *input.PeopleCount < 1 {
			return nil, domainerrors.BadRequest("People count must be at least 1")
		}
		next.PeopleCount = *input.PeopleCount
	}
	if input.Date != nil {
		if next.Date, err = u.resolveDate(*input.Date); err != nil {
			return nil, err
		}
	}
	if input.StartTime != nil {
		if next.StartTime, err = entities.NormalizeClock(*input.StartTime); err != nil {
			return nil, domainerrors.BadRequest("Invalid start time")
		}
	}
	if input.EndTime != nil {
		if next.EndTime, err = entities.NormalizeClock(*input.EndTime); err != nil {
			return nil, domainerrors.BadRequest("Invalid end time")
		}
	}
	if next.StartTime == next.EndTime {
		return nil, domainerrors.BadRequest("End time must differ from start time")
	}
	if input.CustomerName != nil {
		next.CustomerName = optional(*input.CustomerName)
	}
	if input.CustomerNumber != nil {
		next.CustomerNumber = optional(*input.CustomerNumber)
	}

	write := func(ctx context.Context) error {
		return u.reservationRepo.Update(ctx, &next)
	}
	moved := next.TableID != current.TableID || next.Date != current.Date ||
		next.StartTime != current.StartTime || next.EndTime != current.EndTime
	if moved && next.Status.Blocking() {
		err = u.guardedWrite(ctx, &next, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	if err := u.attachTableNumbers(ctx, next.BusinessID, []*entities.Reservation{&next}); err != nil {
		logger.Warn(ctx, "Failed to resolve table number", zap.String("reservation_id", next.ID.String()), zap.Error(err))
	}
	u.broadcaster.Broadcast(ctx, next.BusinessID, services.EventReservationUpdated, &next)
	return &next, nil
}

// ConfirmReservation marks an Active reservation as paid. Confirming a
// Confirmed reservation is a no-op.
func (u *ReservationUsecase) ConfirmReservation(ctx context.Context, id uuid.UUID) (*entities.Reservation, error) {
	reservation, err := u.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == entities.ReservationConfirmed {
		return reservation, nil
	}
	if !reservation.Status.CanTransition(entities.ReservationConfirmed) {
		return nil, domainerrors.InvalidTransition(fmt.Sprintf("cannot confirm a %s reservation", reservation.Status))
	}
	if err := u.reservationRepo.SetStatus(ctx, id, entities.ReservationConfirmed); err != nil {
		return nil, err
	}
	reservation.Status = entities.ReservationConfirmed

	if err := u.attachTableNumbers(ctx, reservation.BusinessID, []*entities.Reservation{reservation}); err != nil {
		logger.Warn(ctx, "Failed to resolve table number", zap.String("reservation_id", id.String()), zap.Error(err))
	}
	u.broadcaster.Broadcast(ctx, reservation.BusinessID, services.EventReservationUpdated, reservation)
	return reservation, nil
}

// DeleteReservation removes a reservation
func (u *ReservationUsecase) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	reservation, err := u.getReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := u.reservationRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "Reservation not found")
	}
	u.broadcaster.Broadcast(ctx, reservation.BusinessID, services.EventReservationDeleted, ReservationDeleted{
		ID:         id,
		BusinessID: reservation.BusinessID,
	})
	return nil
}

// CheckAvailability reports the blocking reservations a window would overlap.
// It never writes and never locks.
func (u *ReservationUsecase) CheckAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*entities.Availability, error) {
	start, err := entities.NormalizeClock(query.StartTime)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid start time")
	}
	end, err := entities.NormalizeClock(query.EndTime)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid end time")
	}
	date, err := u.resolveDate(query.Date)
	if err != nil {
		return nil, err
	}
	table, err := u.tableRepo.GetByNumber(ctx, query.BusinessID, query.TableNumber)
	if err != nil {
		return nil, notFoundAs(err, "Table not found")
	}

	existing, err := u.reservationRepo.ListByTableAndDate(ctx, table.ID, date)
	if err != nil {
		return nil, err
	}
	conflicts, err := entities.FindConflicts(existing, &entities.Reservation{
		TableID:   table.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}
	for _, r := range conflicts {
		r.TableNumber = table.Number
	}
	return &entities.Availability{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// ExpireReservations cancels Active reservations dated before today and
// returns how many were cancelled.
func (u *ReservationUsecase) ExpireReservations(ctx context.Context, limit int) (int, error) {
	expired, err := u.reservationRepo.ListExpiredActive(ctx, u.today(), limit)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, r := range expired {
		if err := u.reservationRepo.SetStatus(ctx, r.ID, entities.ReservationCancelled); err != nil {
			logger.Error(ctx, "Failed to expire reservation", zap.String("reservation_id", r.ID.String()), zap.Error(err))
			continue
		}
		r.Status = entities.ReservationCancelled
		cancelled++
		metrics.ReservationsExpired.Inc()
		u.broadcaster.Broadcast(ctx, r.BusinessID, services.EventReservationUpdated, r)
	}
	return cancelled, nil
}

// guardedWrite runs write under the table/date lease after checking for
// overlapping blocking reservations. Without enforcement it runs write directly.
func (u *ReservationUsecase) guardedWrite(ctx context.Context, candidate *entities.Reservation, write func(context.Context) error) error {
	if !u.policy.EnforceOverlap {
		return write(ctx)
	}
	key := fmt.Sprintf("reservation:%s:%s", candidate.TableID, candidate.Date)
	return u.locker.WithLock(ctx, key, func(ctx context.Context) error {
		existing, err := u.reservationRepo.ListByTableAndDate(ctx, candidate.TableID, candidate.Date)
		if err != nil {
			return err
		}
		conflicts, err := entities.FindConflicts(existing, candidate)
		if err != nil {
			return domainerrors.BadRequest(err.Error())
		}
		if len(conflicts) > 0 {
			metrics.ReservationConflicts.Inc()
			return domainerrors.Conflict("Table is already reserved for the selected time")
		}
		return write(ctx)
	})
}

func (u *ReservationUsecase) endTime(ctx context.Context, input *entities.CreateReservationInput, r *entities.Reservation) (string, error) {
	if raw := strings.TrimSpace(input.EndTime); raw != "" {
		end, err := entities.NormalizeClock(raw)
		if err != nil {
			return "", domainerrors.BadRequest("Invalid end time")
		}
		if end == r.StartTime {
			return "", domainerrors.BadRequest("End time must differ from start time")
		}
		return end, nil
	}

	predicted, err := u.predictor.PredictEndTime(ctx, services.PredictionRequest{
		GroupSize: r.PeopleCount,
		SlotType:  r.SlotType,
		Date:      r.Date,
		Time:      r.StartTime,
	})
	if err != nil {
		return "", domainerrors.NewAppError(http.StatusBadGateway, domainerrors.CodeInternalError, "Failed to predict reservation end time", err)
	}
	end, err := entities.NormalizeClock(predicted)
	if err != nil {
		return "", domainerrors.NewAppError(http.StatusBadGateway, domainerrors.CodeInternalError, "Predictor returned an invalid end time", err)
	}
	return end, nil
}

func (u *ReservationUsecase) getReservation(ctx context.Context, id uuid.UUID) (*entities.Reservation, error) {
	reservation, err := u.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Reservation not found")
	}
	return reservation, nil
}

// attachTableNumbers fills the display table number of each reservation,
// deactivated tables included.
func (u *ReservationUsecase) attachTableNumbers(ctx context.Context, businessID uuid.UUID, reservations []*entities.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	tables, err := u.tableRepo.ListByBusiness(ctx, businessID, true)
	if err != nil {
		return err
	}
	numbers := make(map[uuid.UUID]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
	}
	for _, r := range reservations {
		if n, ok := numbers[r.TableID]; ok {
			r.TableNumber = n
		}
	}
	return nil
}

func (u *ReservationUsecase) resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return u.today(), nil
	}
	date, err := entities.NormalizeDate(raw)
	if err != nil {
		return "", domainerrors.BadRequest("Date must use the YYYY-MM-DD format")
	}
	return date, nil
}

func (u *ReservationUsecase) today() string {
	return u.now().In(u.policy.Location).Format(entities.DateLayout)
}

func validateCreateReservation(input *entities.CreateReservationInput) error {
	switch {
	case input == nil:
		return domainerrors.BadRequest("Reservation details are required")
	case input.BusinessID == uuid.Nil:
		return domainerrors.BadRequest("Business is required")
	case input.TableNumber < 1:
		return domainerrors.BadRequest("Table number is required")
	case input.PeopleCount < 1:
		return domainerrors.BadRequest("People count must be at least 1")
	case strings.TrimSpace(input.SlotType) == "":
		return domainerrors.BadRequest("Slot type is required")
	case strings.TrimSpace(input.StartTime) == "":
		return domainerrors.BadRequest("Start time is required")
	case strings.TrimSpace(input.CustomerUsername) == "" && strings.TrimSpace(input.CustomerName) == "":
		return domainerrors.BadRequest("Customer username or name is required")
	}
	if n := strings.TrimSpace(input.CustomerNumber); n != "" && !entities.ValidContactNumber(n) {
		return domainerrors.BadRequest("Invalid customer number")
	}
	return nil
}

func touchesBooking(input *entities.UpdateReservationInput) bool {
	return input.TableNumber != nil || input.PeopleCount != nil || input.Date != nil ||
		input.StartTime != nil || input.EndTime != nil
}
