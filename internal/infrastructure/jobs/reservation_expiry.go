package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"slotzi.backend/pkg/logger"
)

const expiryBatchSize = 100

// reservationExpirer cancels stale Active reservations and reports how many
type reservationExpirer interface {
	ExpireReservations(ctx context.Context, limit int) (int, error)
}

// ReservationExpiryJob cancels Active reservations whose date has passed
type ReservationExpiryJob struct {
	expirer  reservationExpirer
	interval time.Duration
	stop     chan struct{}
}

func NewReservationExpiryJob(expirer reservationExpirer, interval time.Duration) *ReservationExpiryJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ReservationExpiryJob{
		expirer:  expirer,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *ReservationExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting reservation expiry job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Reservation expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Reservation expiry job stopped")
			return
		case <-ticker.C:
			j.processExpiredReservations(ctx)
		}
	}
}

func (j *ReservationExpiryJob) Stop() {
	close(j.stop)
}

// processExpiredReservations drains stale reservations batch by batch.
func (j *ReservationExpiryJob) processExpiredReservations(ctx context.Context) {
	total := 0
	for {
		n, err := j.expirer.ExpireReservations(ctx, expiryBatchSize)
		if err != nil {
			logger.Error(ctx, "Error expiring reservations", zap.Error(err))
			break
		}
		total += n
		if n < expiryBatchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		logger.Info(ctx, "Expired reservations", zap.Int("count", total))
	}
}
