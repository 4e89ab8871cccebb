package services

import (
	"context"

	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
)

// Realtime event names emitted to business rooms
const (
	EventReservationCreated = "reservationCreated"
	EventReservationUpdated = "reservationUpdated"
	EventReservationDeleted = "reservationDeleted"
)

// EmailDispatcher sends verification and support mail
type EmailDispatcher interface {
	SendBusinessVerification(ctx context.Context, to, token string) error
	SendRelationVerification(ctx context.Context, to, token string) error
	SendSupportEmail(ctx context.Context, to, subject, body string) error
}

// PredictionRequest describes the reservation whose end time is estimated
type PredictionRequest struct {
	GroupSize int    `json:"group_size"`
	SlotType  string `json:"slot_type"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// DurationPredictor estimates when a reservation ends. The returned value is
// an HH:MM:SS clock string.
type DurationPredictor interface {
	PredictEndTime(ctx context.Context, req PredictionRequest) (string, error)
}

// MediaStore keeps uploaded business images
type MediaStore interface {
	UploadImage(ctx context.Context, upload *entities.MediaUpload, folder string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// Broadcaster fans events out to the clients watching a business
type Broadcaster interface {
	Broadcast(ctx context.Context, businessID uuid.UUID, event string, payload any)
}

// NopBroadcaster drops every event
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(context.Context, uuid.UUID, string, any) {}
