package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/leak-ticket-service/internal/config"
	"github.com/spec-kit/leak-ticket-service/internal/events"
	"github.com/spec-kit/leak-ticket-service/internal/persistence"
	"github.com/spec-kit/leak-ticket-service/internal/service"
)

// reminderClaimTTLSeconds keeps a dedupe key alive for one day so each
// overdue ticket is reminded at most once per day across restarts.
const reminderClaimTTLSeconds = 24 * 60 * 60

// OverdueWorker periodically scans for PENDING tickets older than the
// configured threshold and publishes a reminder event per ticket.
type OverdueWorker struct {
	tickets    *service.TicketService
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	cfg        config.OverdueConfig
	logger     *zap.Logger
}

// NewOverdueWorker constructs the worker.
func NewOverdueWorker(tickets *service.TicketService, dispatcher events.Dispatcher, redis *persistence.Redis, cfg config.OverdueConfig, logger *zap.Logger) *OverdueWorker {
	return &OverdueWorker{
		tickets:    tickets,
		dispatcher: dispatcher,
		redis:      redis,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run blocks scanning on a ticker until the context is cancelled.
func (w *OverdueWorker) Run(ctx context.Context) {
	interval := w.cfg.ScanInterval()
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("overdue scanner started",
		zap.Duration("interval", interval),
		zap.Duration("threshold", w.cfg.Threshold()))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("overdue scanner stopped")
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan performs one pass and reports how many reminders were published.
func (w *OverdueWorker) Scan(ctx context.Context) int {
	overdue, err := w.tickets.ListOverduePending(ctx, w.cfg.Threshold())
	if err != nil {
		w.logger.Error("list overdue tickets", zap.Error(err))
		return 0
	}

	published := 0
	for i := range overdue {
		ticket := overdue[i]
		if !w.claimReminder(ctx, ticket.ID) {
			continue
		}
		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketOverdue,
			Timestamp: time.Now(),
			Ticket:    ticket,
		})
		published++
	}
	if published > 0 {
		w.logger.Info("overdue reminders published", zap.Int("count", published))
	}
	return published
}

// claimReminder dedupes reminders per ticket per day. When redis is
// unreachable the reminder is sent anyway; a duplicate email beats a
// missed one.
func (w *OverdueWorker) claimReminder(ctx context.Context, ticketID string) bool {
	key := "overdue_reminder:" + ticketID + ":" + time.Now().Format("2006-01-02")
	claimed, err := w.redis.ClaimOnce(ctx, key, reminderClaimTTLSeconds)
	if err != nil {
		w.logger.Warn("reminder dedupe unavailable", zap.String("ticket_id", ticketID), zap.Error(err))
		return true
	}
	return claimed
}
