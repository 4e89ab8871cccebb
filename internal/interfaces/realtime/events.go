package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/logger"
)

// Inbound actions and outbound-only events
const (
	actionGetReservations   = "getReservations"
	actionCreateReservation = "createReservation"
	actionUpdateReservation = "updateReservation"
	actionDeleteReservation = "deleteReservation"

	eventAck               = "ack"
	eventError             = "error"
	eventReservationsData  = "reservationsData"
	eventReservationsError = "reservationsError"
)

type inbound struct {
	Event string          `json:"event"`
	Ack   string          `json:"ack,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Ack   string `json:"ack,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type ackData struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type updatePayload struct {
	ReservationID uuid.UUID                        `json:"reservationId"`
	UpdateData    *entities.UpdateReservationInput `json:"updateData"`
}

type deletePayload struct {
	ReservationID uuid.UUID `json:"reservationId"`
}

var errNoService = errors.New("reservations are unavailable")

func (h *Hub) dispatch(ctx context.Context, c *client, msg *inbound) {
	if h.reservations == nil {
		c.reply(ctx, msg.Ack, nil, errNoService)
		return
	}

	switch msg.Event {
	case actionGetReservations:
		reservations, err := h.reservations.GetReservations(ctx, c.businessID)
		if err != nil {
			c.emit(ctx, outbound{Event: eventReservationsError, Data: ackData{Success: false, Message: clientMessage(err)}})
		} else {
			c.emit(ctx, outbound{Event: eventReservationsData, Data: ackData{Success: true, Data: reservations}})
		}
		c.reply(ctx, msg.Ack, reservations, err)

	case actionCreateReservation:
		var input entities.CreateReservationInput
		if err := decode(msg.Data, &input); err != nil {
			c.reply(ctx, msg.Ack, nil, err)
			return
		}
		input.BusinessID = c.businessID
		reservation, err := h.reservations.CreateReservation(ctx, &input)
		c.reply(ctx, msg.Ack, reservation, err)

	case actionUpdateReservation:
		var in updatePayload
		if err := decode(msg.Data, &in); err != nil {
			c.reply(ctx, msg.Ack, nil, err)
			return
		}
		if in.UpdateData == nil {
			c.reply(ctx, msg.Ack, nil, domainerrors.BadRequest("updateData is required"))
			return
		}
		reservation, err := h.reservations.UpdateReservation(ctx, in.ReservationID, in.UpdateData)
		c.reply(ctx, msg.Ack, reservation, err)

	case actionDeleteReservation:
		var in deletePayload
		if err := decode(msg.Data, &in); err != nil {
			c.reply(ctx, msg.Ack, nil, err)
			return
		}
		err := h.reservations.DeleteReservation(ctx, in.ReservationID)
		c.reply(ctx, msg.Ack, nil, err)

	default:
		c.reply(ctx, msg.Ack, nil, domainerrors.BadRequest("Unknown event "+msg.Event))
	}
}

// reply acknowledges an inbound action. Actions sent without an ack id get no reply.
func (c *client) reply(ctx context.Context, ack string, data any, err error) {
	if err != nil {
		logger.Debug(ctx, "Realtime action failed", zap.Error(err))
	}
	if ack == "" {
		return
	}

	body := ackData{Success: err == nil, Data: data}
	if err != nil {
		body.Data = nil
		body.Message = clientMessage(err)
	}
	c.emit(ctx, outbound{Event: eventAck, Ack: ack, Data: body})
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return domainerrors.BadRequest("data is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return domainerrors.BadRequest("Malformed data")
	}
	return nil
}

func clientMessage(err error) string {
	return domainerrors.FromError(err).Message
}
