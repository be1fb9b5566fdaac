package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/leak-ticket-service/internal/catalog"
	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/events"
	"github.com/spec-kit/leak-ticket-service/internal/repository"
	"github.com/spec-kit/leak-ticket-service/internal/storage"
	apperrors "github.com/spec-kit/leak-ticket-service/pkg/util"
)

const dateLayout = "2006-01-02"

// PhotoSaver persists submitted photo evidence and returns sharable
// references. Satisfied by *storage.PhotoStore.
type PhotoSaver interface {
	SaveAll(storeName, ticketID string, photos []string) []string
}

// TicketService coordinates the incident ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	photos     PhotoSaver
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Photos     PhotoSaver
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes an outlet's incident report.
type TicketCreateInput struct {
	ReportDate string
	Indicator  string
	Photos     []string
}

// PlanInput describes the admin scheduling mutation.
type PlanInput struct {
	Department    string
	PlannedDate   string
	TargetEndDate string

	// Optional risk re-assessment; empty values leave the derived
	// fields untouched.
	RiskLevel      domain.RiskLevel
	BusinessImpact string
	Recommendation string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		photos:     deps.Photos,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// CreateTicket files a new incident for the outlet bound to the session.
// The indicator must come from the risk catalog and at least one photo
// is required; the derived risk fields are resolved server-side and the
// status is always PENDING regardless of caller input.
func (s *TicketService) CreateTicket(ctx context.Context, storeName string, input TicketCreateInput) (*domain.Ticket, error) {
	entry, ok := catalog.Lookup(input.Indicator)
	if !ok {
		return nil, apperrors.NewValidationError("unknown problem indicator", nil)
	}
	if len(input.Photos) == 0 {
		return nil, apperrors.NewValidationError("at least one photo is required", nil)
	}

	reportDate := strings.TrimSpace(input.ReportDate)
	if reportDate == "" {
		reportDate = s.now().Format(dateLayout)
	}

	ticket := &domain.Ticket{
		ID:               generateTicketID(),
		Status:           domain.TicketStatusPending,
		StoreName:        storeName,
		ReportDate:       reportDate,
		ProblemIndicator: entry.Indicator,
		RiskLevel:        entry.RiskLevel,
		BusinessImpact:   entry.BusinessImpact,
		Recommendation:   entry.Recommendation,
	}
	ticket.Photos = s.photos.SaveAll(storeName, ticket.ID, input.Photos)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventTicketCreated, storeName, ticket)
	return ticket, nil
}

// ListForOutlet returns exactly the tickets owned by the store.
func (s *TicketService) ListForOutlet(ctx context.Context, storeName string) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{StoreName: &storeName})
}

// ListAll returns every ticket, optionally filtered by status.
func (s *TicketService) ListAll(ctx context.Context, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{Statuses: statuses})
}

// GetTicket fetches one ticket, enforcing outlet ownership. Admins may
// read any ticket.
func (s *TicketService) GetTicket(ctx context.Context, role domain.AccountRole, actorName, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && ticket.StoreName != actorName {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// SavePlan schedules a ticket: requires department, planned date and
// target end date, records the acting admin as PIC and moves the status
// to PLANNED. Finished tickets can no longer be planned.
func (s *TicketService) SavePlan(ctx context.Context, adminName, ticketID string, input PlanInput) (*domain.Ticket, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.Department) == "" {
		missing["department"] = "required"
	}
	if strings.TrimSpace(input.PlannedDate) == "" {
		missing["planned_date"] = "required"
	}
	if strings.TrimSpace(input.TargetEndDate) == "" {
		missing["target_end_date"] = "required"
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("department, planned date and target end date are required", missing)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(ticket.Status, domain.TicketStatusPlanned) {
		return nil, apperrors.NewConflict("ticket can no longer be planned", map[string]any{"status": ticket.Status})
	}

	ticket.Status = domain.TicketStatusPlanned
	ticket.Department = strings.TrimSpace(input.Department)
	ticket.PlannedDate = strings.TrimSpace(input.PlannedDate)
	ticket.TargetEndDate = strings.TrimSpace(input.TargetEndDate)
	ticket.PICName = adminName
	if input.RiskLevel != "" {
		ticket.RiskLevel = input.RiskLevel
	}
	if strings.TrimSpace(input.BusinessImpact) != "" {
		ticket.BusinessImpact = strings.TrimSpace(input.BusinessImpact)
	}
	if strings.TrimSpace(input.Recommendation) != "" {
		ticket.Recommendation = strings.TrimSpace(input.Recommendation)
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventTicketPlanned, adminName, ticket)
	return ticket, nil
}

// FinishTicket closes a ticket and stamps the completion date. The
// transition is terminal; finished tickets reject any further mutation.
func (s *TicketService) FinishTicket(ctx context.Context, adminName, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(ticket.Status, domain.TicketStatusFinished) {
		return nil, apperrors.NewConflict("ticket already finished", map[string]any{"status": ticket.Status})
	}

	ticket.Status = domain.TicketStatusFinished
	ticket.ActualFinishedDate = s.now().Format(dateLayout)
	if ticket.PICName == "" {
		ticket.PICName = adminName
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventTicketFinished, adminName, ticket)
	return ticket, nil
}

// ListOverduePending returns PENDING tickets created before the cutoff.
func (s *TicketService) ListOverduePending(ctx context.Context, olderThan time.Duration) ([]domain.Ticket, error) {
	cutoff := s.now().Add(-olderThan)
	return s.tickets.List(ctx, repository.TicketFilter{
		Statuses:      []domain.TicketStatus{domain.TicketStatusPending},
		CreatedBefore: &cutoff,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, actor string, ticket *domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: s.now(),
		Ticket:    *ticket,
	})
}

func generateTicketID() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var _ PhotoSaver = (*storage.PhotoStore)(nil)
