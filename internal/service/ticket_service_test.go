package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leak-ticket-service/internal/catalog"
	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/events"
	"github.com/spec-kit/leak-ticket-service/internal/repository"
	apperrors "github.com/spec-kit/leak-ticket-service/pkg/util"
)

type mockTicketRepo struct {
	mock.Mock
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *mockTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// passthroughSaver returns the submitted photo references unchanged.
type passthroughSaver struct{}

func (passthroughSaver) SaveAll(_, _ string, photos []string) []string {
	return photos
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func newTicketService(repo repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Photos:     passthroughSaver{},
		Dispatcher: dispatcher,
	})
}

func catalogIndicator(t *testing.T) string {
	t.Helper()
	entries := catalog.Entries()
	require.NotEmpty(t, entries)
	return entries[0].Indicator
}

func TestCreateTicket_Success(t *testing.T) {
	repo := new(mockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.CreateTicket(context.Background(), "OUTLET BANDUNG", TicketCreateInput{
		ReportDate: "2026-08-30",
		Indicator:  catalogIndicator(t),
		Photos:     []string{"data:image/png;base64,aGVsbG8="},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, "OUTLET BANDUNG", ticket.StoreName)
	assert.True(t, strings.HasPrefix(ticket.ID, "TKT-"))
	assert.Len(t, ticket.ID, len("TKT-")+8)
	assert.NotEmpty(t, ticket.RiskLevel)
	assert.NotEmpty(t, ticket.BusinessImpact)
	assert.NotEmpty(t, ticket.Recommendation)
	assert.Len(t, ticket.Photos, 1)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.published[0].Type)
	assert.Equal(t, ticket.ID, dispatcher.published[0].Ticket.ID)
	repo.AssertExpectations(t)
}

func TestCreateTicket_UnknownIndicator(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	_, err := svc.CreateTicket(context.Background(), "OUTLET A", TicketCreateInput{
		Indicator: "not in the catalog",
		Photos:    []string{"data:image/png;base64,aGVsbG8="},
	})

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateTicket_RequiresPhoto(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	_, err := svc.CreateTicket(context.Background(), "OUTLET A", TicketCreateInput{
		Indicator: catalogIndicator(t),
	})

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateTicket_DefaultsReportDate(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.CreateTicket(context.Background(), "OUTLET A", TicketCreateInput{
		Indicator: catalogIndicator(t),
		Photos:    []string{"data:image/png;base64,aGVsbG8="},
	})

	require.NoError(t, err)
	_, parseErr := time.Parse(dateLayout, ticket.ReportDate)
	assert.NoError(t, parseErr)
}

func TestSavePlan_Success(t *testing.T) {
	repo := new(mockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	existing := &domain.Ticket{ID: "TKT-AAAA1111", Status: domain.TicketStatusPending, StoreName: "OUTLET A"}
	repo.On("GetByID", mock.Anything, "TKT-AAAA1111").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.SavePlan(context.Background(), "ADMIN PUSAT", "TKT-AAAA1111", PlanInput{
		Department:    "Maintenance",
		PlannedDate:   "2026-09-02",
		TargetEndDate: "2026-09-05",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPlanned, ticket.Status)
	assert.Equal(t, "ADMIN PUSAT", ticket.PICName)
	assert.Equal(t, "Maintenance", ticket.Department)
	assert.Equal(t, "2026-09-02", ticket.PlannedDate)
	assert.Equal(t, "2026-09-05", ticket.TargetEndDate)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketPlanned, dispatcher.published[0].Type)
}

func TestSavePlan_MissingFields(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	_, err := svc.SavePlan(context.Background(), "ADMIN", "TKT-AAAA1111", PlanInput{
		Department: "Maintenance",
	})

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "planned_date")
	assert.Contains(t, domainErr.Details, "target_end_date")
	repo.AssertNotCalled(t, "GetByID")
}

func TestSavePlan_ReplanKeepsDerivedFields(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{
		ID:             "TKT-BBBB2222",
		Status:         domain.TicketStatusPlanned,
		RiskLevel:      domain.RiskLevelHigh,
		BusinessImpact: "existing impact",
		Recommendation: "existing recommendation",
	}
	repo.On("GetByID", mock.Anything, "TKT-BBBB2222").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.SavePlan(context.Background(), "ADMIN", "TKT-BBBB2222", PlanInput{
		Department:    "Maintenance",
		PlannedDate:   "2026-09-10",
		TargetEndDate: "2026-09-12",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskLevelHigh, ticket.RiskLevel)
	assert.Equal(t, "existing impact", ticket.BusinessImpact)
	assert.Equal(t, "existing recommendation", ticket.Recommendation)
}

func TestSavePlan_RiskOverride(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{ID: "TKT-CCCC3333", Status: domain.TicketStatusPending, RiskLevel: domain.RiskLevelMedium}
	repo.On("GetByID", mock.Anything, "TKT-CCCC3333").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.SavePlan(context.Background(), "ADMIN", "TKT-CCCC3333", PlanInput{
		Department:     "Maintenance",
		PlannedDate:    "2026-09-10",
		TargetEndDate:  "2026-09-12",
		RiskLevel:      domain.RiskLevelCritical,
		BusinessImpact: "escalated",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskLevelCritical, ticket.RiskLevel)
	assert.Equal(t, "escalated", ticket.BusinessImpact)
}

func TestSavePlan_FinishedIsTerminal(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{ID: "TKT-DDDD4444", Status: domain.TicketStatusFinished}
	repo.On("GetByID", mock.Anything, "TKT-DDDD4444").Return(existing, nil)

	_, err := svc.SavePlan(context.Background(), "ADMIN", "TKT-DDDD4444", PlanInput{
		Department:    "Maintenance",
		PlannedDate:   "2026-09-10",
		TargetEndDate: "2026-09-12",
	})

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	repo.AssertNotCalled(t, "Update")
}

func TestFinishTicket_Success(t *testing.T) {
	repo := new(mockTicketRepo)
	dispatcher := &recordingDispatcher{}
	svc := newTicketService(repo, dispatcher)

	existing := &domain.Ticket{ID: "TKT-EEEE5555", Status: domain.TicketStatusPlanned, PICName: "ADMIN AWAL"}
	repo.On("GetByID", mock.Anything, "TKT-EEEE5555").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.FinishTicket(context.Background(), "ADMIN LAIN", "TKT-EEEE5555")

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusFinished, ticket.Status)
	assert.Equal(t, "ADMIN AWAL", ticket.PICName)
	_, parseErr := time.Parse(dateLayout, ticket.ActualFinishedDate)
	assert.NoError(t, parseErr)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketFinished, dispatcher.published[0].Type)
}

func TestFinishTicket_FillsPICWhenEmpty(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{ID: "TKT-FFFF6666", Status: domain.TicketStatusPending}
	repo.On("GetByID", mock.Anything, "TKT-FFFF6666").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	ticket, err := svc.FinishTicket(context.Background(), "ADMIN PUSAT", "TKT-FFFF6666")

	require.NoError(t, err)
	assert.Equal(t, "ADMIN PUSAT", ticket.PICName)
}

func TestFinishTicket_AlreadyFinished(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{ID: "TKT-GGGG7777", Status: domain.TicketStatusFinished}
	repo.On("GetByID", mock.Anything, "TKT-GGGG7777").Return(existing, nil)

	_, err := svc.FinishTicket(context.Background(), "ADMIN", "TKT-GGGG7777")

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	repo.AssertNotCalled(t, "Update")
}

func TestGetTicket_OutletOwnership(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	existing := &domain.Ticket{ID: "TKT-HHHH8888", StoreName: "OUTLET A"}
	repo.On("GetByID", mock.Anything, "TKT-HHHH8888").Return(existing, nil)

	_, err := svc.GetTicket(context.Background(), domain.RoleOutlet, "OUTLET B", "TKT-HHHH8888")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	ticket, err := svc.GetTicket(context.Background(), domain.RoleAdmin, "ADMIN", "TKT-HHHH8888")
	require.NoError(t, err)
	assert.Equal(t, "OUTLET A", ticket.StoreName)
}

func TestGetTicket_NotFound(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	repo.On("GetByID", mock.Anything, "TKT-MISSING1").Return(nil, pgx.ErrNoRows)

	_, err := svc.GetTicket(context.Background(), domain.RoleAdmin, "ADMIN", "TKT-MISSING1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListScopes(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	var captured []repository.TicketFilter
	repo.On("List", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = append(captured, args.Get(1).(repository.TicketFilter))
	}).Return([]domain.Ticket{}, nil)

	_, err := svc.ListForOutlet(context.Background(), "OUTLET A")
	require.NoError(t, err)
	_, err = svc.ListAll(context.Background(), []domain.TicketStatus{domain.TicketStatusPlanned})
	require.NoError(t, err)

	require.Len(t, captured, 2)
	require.NotNil(t, captured[0].StoreName)
	assert.Equal(t, "OUTLET A", *captured[0].StoreName)
	assert.Empty(t, captured[0].Statuses)

	assert.Nil(t, captured[1].StoreName)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusPlanned}, captured[1].Statuses)
}

func TestListOverduePending_Filter(t *testing.T) {
	repo := new(mockTicketRepo)
	svc := newTicketService(repo, &recordingDispatcher{})

	var captured repository.TicketFilter
	repo.On("List", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(repository.TicketFilter)
	}).Return([]domain.Ticket{}, nil)

	_, err := svc.ListOverduePending(context.Background(), 72*time.Hour)

	require.NoError(t, err)
	require.NotNil(t, captured.CreatedBefore)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusPending}, captured.Statuses)
	assert.WithinDuration(t, time.Now().Add(-72*time.Hour), *captured.CreatedBefore, time.Minute)
}
