package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/infrastructure/metrics"
	"slotzi.backend/internal/interfaces/http/response"
	"slotzi.backend/pkg/logger"
)

const defaultSendBuffer = 64

// ReservationService is the part of the reservation usecase reachable over the socket
type ReservationService interface {
	GetReservations(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error)
	CreateReservation(ctx context.Context, input *entities.CreateReservationInput) (*entities.Reservation, error)
	UpdateReservation(ctx context.Context, id uuid.UUID, input *entities.UpdateReservationInput) (*entities.Reservation, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) error
}

// Hub keeps one room of websocket clients per business and fans events out to them
type Hub struct {
	mu           sync.RWMutex
	rooms        map[uuid.UUID]map[*client]struct{}
	reservations ReservationService
	upgrader     websocket.Upgrader
	sendBuffer   int
}

// NewHub creates a hub. An empty allowedOrigins list accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Hub{
		rooms:      make(map[uuid.UUID]map[*client]struct{}),
		sendBuffer: defaultSendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// SetReservationService attaches the usecase serving inbound socket actions.
// It must be called before ServeWS handles traffic.
func (h *Hub) SetReservationService(svc ReservationService) {
	h.reservations = svc
}

// ServeWS upgrades GET /ws?business_id=<uuid> and joins the business room.
func (h *Hub) ServeWS(c *gin.Context) {
	businessID, err := uuid.Parse(c.Query("business_id"))
	if err != nil {
		response.ErrorWithError(c, http.StatusBadRequest, "INVALID_INPUT", "business_id query parameter is required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "Websocket upgrade failed", zap.Error(err))
		return
	}

	ctx := logger.WithBusiness(c.Request.Context(), businessID.String())
	cl := newClient(h, conn, businessID, h.sendBuffer)
	h.join(cl)
	logger.Debug(ctx, "Realtime client connected")

	go cl.writePump()
	cl.readPump(ctx)
}

// Broadcast sends an event to every client in the business room. Clients
// whose send buffer is full are disconnected.
func (h *Hub) Broadcast(ctx context.Context, businessID uuid.UUID, event string, payload any) {
	msg, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		logger.Error(ctx, "Failed to encode realtime event", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*client
	h.mu.RLock()
	for cl := range h.rooms[businessID] {
		select {
		case cl.send <- msg:
		default:
			slow = append(slow, cl)
		}
	}
	h.mu.RUnlock()
	metrics.RealtimeEvents.WithLabelValues(event).Inc()

	for _, cl := range slow {
		h.drop(ctx, cl)
	}
}

// ClientCount reports how many clients watch a business.
func (h *Hub) ClientCount(businessID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[businessID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for businessID, room := range h.rooms {
		for cl := range room {
			close(cl.send)
			metrics.RealtimeClients.Dec()
		}
		delete(h.rooms, businessID)
	}
}

func (h *Hub) join(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[cl.businessID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[cl.businessID] = room
	}
	room[cl] = struct{}{}
	metrics.RealtimeClients.Inc()
}

// leave removes a client once; the second call for the same client is a no-op.
func (h *Hub) leave(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[cl.businessID]
	if !ok {
		return false
	}
	if _, ok := room[cl]; !ok {
		return false
	}
	delete(room, cl)
	if len(room) == 0 {
		delete(h.rooms, cl.businessID)
	}
	close(cl.send)
	metrics.RealtimeClients.Dec()
	return true
}

func (h *Hub) drop(ctx context.Context, cl *client) {
	if h.leave(cl) {
		metrics.RealtimeDropped.Inc()
		logger.Warn(ctx, "Dropped slow realtime client", zap.String("business_id", cl.businessID.String()))
	}
}

// sendTo queues a message for one client and drops it when its buffer is full.
func (h *Hub) sendTo(ctx context.Context, cl *client, msg []byte) {
	h.mu.RLock()
	_, member := h.rooms[cl.businessID][cl]
	full := false
	if member {
		select {
		case cl.send <- msg:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		h.drop(ctx, cl)
	}
}
