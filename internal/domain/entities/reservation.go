package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "Active"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var clockLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "3:04:05 PM", "03:04 PM"}

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationActive, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Blocking reports whether a reservation in this status holds its table.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationActive || s == ReservationConfirmed
}

// CanTransition reports whether a reservation may move from s to next.
// Re-applying the current status is allowed; Confirmed and Cancelled are terminal.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	if s == next {
		return true
	}
	return s == ReservationActive && (next == ReservationConfirmed || next == ReservationCancelled)
}

// Reservation books a table for a time window on a date
type Reservation struct {
	ID             uuid.UUID         `json:"id"`
	BusinessID     uuid.UUID         `json:"businessId"`
	TableID        uuid.UUID         `json:"tableId"`
	TableNumber    int               `json:"tableNumber,omitempty"`
	CustomerID     uuid.NullUUID     `json:"customerId"`
	PeopleCount    int               `json:"peopleCount"`
	SlotType       string            `json:"slotType"`
	Date           string            `json:"date"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	Status         ReservationStatus `json:"status"`
	CustomerName   null.String       `json:"customerName"`
	CustomerNumber null.String       `json:"customerNumber"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Window returns the reservation's time range within its date.
func (r *Reservation) Window() (TimeWindow, error) {
	return NewTimeWindow(r.StartTime, r.EndTime)
}

// CreateReservationInput is a booking request. CustomerUsername may be empty
// for walk-ins, in which case CustomerName is required.
type CreateReservationInput struct {
	BusinessID       uuid.UUID `json:"businessId"`
	TableNumber      int       `json:"tableNumber"`
	CustomerUsername string    `json:"customerUsername"`
	CustomerName     string    `json:"customerName"`
	CustomerNumber   string    `json:"customerNumber"`
	PeopleCount      int       `json:"peopleCount"`
	SlotType         string    `json:"slotType"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
}

// UpdateReservationInput is a partial reservation change
type UpdateReservationInput struct {
	TableNumber    *int               `json:"tableNumber"`
	PeopleCount    *int               `json:"peopleCount"`
	Date           *string            `json:"date"`
	StartTime      *string            `json:"startTime"`
	EndTime        *string            `json:"endTime"`
	Status         *ReservationStatus `json:"status"`
	CustomerName   *string            `json:"customerName"`
	CustomerNumber *string            `json:"customerNumber"`
}

// AvailabilityQuery asks whether a table is free for a window on a date
type AvailabilityQuery struct {
	BusinessID  uuid.UUID `json:"businessId"`
	TableNumber int       `json:"tableNumber"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
}

// Availability is the advisory answer to an AvailabilityQuery
type Availability struct {
	Available bool           `json:"available"`
	Conflicts []*Reservation `json:"conflicts"`
}

// TimeWindow is a half-open [Start, End) range measured from midnight.
// An End at or before Start wraps past midnight.
type TimeWindow struct {
	Start time.Duration
	End   time.Duration
}

// NewTimeWindow builds a window from two normalized clock strings.
func NewTimeWindow(start, end string) (TimeWindow, error) {
	s, err := clockOffset(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := clockOffset(end)
	if err != nil {
		return TimeWindow{}, err
	}
	if e <= s {
		e += 24 * time.Hour
	}
	return TimeWindow{Start: s, End: e}, nil
}

// Overlaps reports whether two windows share any instant.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start < o.End && o.Start < w.End
}

// NormalizeClock accepts HH:MM, HH:MM:SS and h:mm AM/PM (including the
// narrow and regular no-break spaces some clients emit) and returns HH:MM:SS.
func NormalizeClock(raw string) (string, error) {
	cleaned := strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(strings.TrimSpace(raw))
	cleaned = strings.ToUpper(strings.Join(strings.Fields(cleaned), " "))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", raw)
}

// NormalizeDate accepts YYYY-MM-DD and returns it unchanged when valid.
func NormalizeDate(raw string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid date %q", raw)
	}
	return t.Format(DateLayout), nil
}

func clockOffset(clock string) (time.Duration, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", clock)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

// FindConflicts returns the blocking reservations in existing that sit on the
// same table and date as candidate and overlap its window. The candidate
// itself (same id) is ignored so updates can be checked against their own row.
func FindConflicts(existing []*Reservation, candidate *Reservation) ([]*Reservation, error) {
	want, err := candidate.Window()
	if err != nil {
		return nil, err
	}
	conflicts := make([]*Reservation, 0)
	for _, r := range existing {
		if r.ID == candidate.ID && candidate.ID != uuid.Nil {
			continue
		}
		if r.TableID != candidate.TableID || r.Date != candidate.Date || !r.Status.Blocking() {
			continue
		}
		w, err := r.Window()
		if err != nil {
			continue
		}
		if want.Overlaps(w) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}
