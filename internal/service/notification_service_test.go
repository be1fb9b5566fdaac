package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/events"
)

// captureSender records outbound emails instead of sending them.
type captureSender struct {
	recipients []string
	subject    string
	body       string
	calls      int
}

func (c *captureSender) Send(_ context.Context, recipients []string, subject, body string) error {
	c.recipients = recipients
	c.subject = subject
	c.body = body
	c.calls++
	return nil
}

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		ID:               "TKT-AAAA1111",
		Status:           domain.TicketStatusPending,
		StoreName:        "OUTLET BANDUNG",
		ReportDate:       "2026-08-30",
		ProblemIndicator: "Bocor deras di area gudang",
		RiskLevel:        domain.RiskLevelHigh,
		BusinessImpact:   "Operasional terganggu",
		Recommendation:   "Perbaikan atap segera",
		Photos:           []string{"/photos/OUTLET_BANDUNG/TKT-AAAA1111_1.jpg"},
	}
}

func TestComposeEmail_Subjects(t *testing.T) {
	ticket := sampleTicket()

	cases := []struct {
		eventType events.EventType
		prefix    string
	}{
		{events.EventTicketCreated, "[TIKET BARU]"},
		{events.EventTicketPlanned, "[RENCANA UPDATE]"},
		{events.EventTicketFinished, "[PEKERJAAN SELESAI]"},
		{events.EventTicketOverdue, "[REMINDER 3 HARI]"},
	}
	for _, tc := range cases {
		subject, body := composeEmail(tc.eventType, &ticket)
		assert.Equal(t, tc.prefix+" | ID: TKT-AAAA1111 | TOKO: OUTLET BANDUNG", subject)
		assert.Contains(t, body, "OUTLET BANDUNG")
		assert.Contains(t, body, "[>] Foto 1:")
	}
}

func TestComposeEmail_Fallbacks(t *testing.T) {
	ticket := sampleTicket()
	ticket.BusinessImpact = ""
	ticket.Recommendation = ""
	ticket.Photos = nil

	_, body := composeEmail(events.EventTicketCreated, &ticket)

	assert.Contains(t, body, "Belum dianalisa")
	assert.Contains(t, body, "Belum ditentukan")
	assert.Contains(t, body, "(Tidak ada foto yang diunggah)")
}

func TestResolveRecipients_OutletAndAdmins(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := NewNotificationService(nil, repo, &captureSender{}, zap.NewNop())

	repo.On("List", mock.Anything).Return([]domain.Account{
		{ID: "OUTLET BANDUNG", Role: domain.RoleOutlet, Email: "bandung@example.com"},
		{ID: "OUTLET JAKARTA", Role: domain.RoleOutlet, Email: "jakarta@example.com"},
		{ID: "ADMIN PUSAT", Role: domain.AccountRole("admin"), Email: "admin@example.com"},
		{ID: "ADMIN KOSONG", Role: domain.RoleAdmin, Email: ""},
	}, nil)

	recipients, err := svc.resolveRecipients(context.Background(), " outlet bandung ")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bandung@example.com", "admin@example.com"}, recipients)
}

func TestResolveRecipients_Dedupes(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := NewNotificationService(nil, repo, &captureSender{}, zap.NewNop())

	repo.On("List", mock.Anything).Return([]domain.Account{
		{ID: "TOKO UTAMA", Role: domain.RoleAdmin, Email: "shared@example.com"},
		{ID: "ADMIN DUA", Role: domain.RoleAdmin, Email: "shared@example.com"},
	}, nil)

	recipients, err := svc.resolveRecipients(context.Background(), "TOKO UTAMA")

	require.NoError(t, err)
	assert.Equal(t, []string{"shared@example.com"}, recipients)
}

func TestHandleEvent_SendsToResolvedRecipients(t *testing.T) {
	repo := new(mockAccountRepo)
	sender := &captureSender{}
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, repo, sender, zap.NewNop())
	svc.RegisterHandlers()

	repo.On("List", mock.Anything).Return([]domain.Account{
		{ID: "OUTLET BANDUNG", Role: domain.RoleOutlet, Email: "bandung@example.com"},
		{ID: "ADMIN PUSAT", Role: domain.RoleAdmin, Email: "admin@example.com"},
	}, nil)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventTicketCreated,
		Ticket: sampleTicket(),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.ElementsMatch(t, []string{"bandung@example.com", "admin@example.com"}, sender.recipients)
	assert.Contains(t, sender.subject, "[TIKET BARU]")
}

func TestHandleEvent_NoRecipientsIsSilent(t *testing.T) {
	repo := new(mockAccountRepo)
	sender := &captureSender{}
	svc := NewNotificationService(nil, repo, sender, zap.NewNop())

	repo.On("List", mock.Anything).Return([]domain.Account{
		{ID: "OUTLET LAIN", Role: domain.RoleOutlet, Email: "lain@example.com"},
	}, nil)

	err := svc.handleEvent(context.Background(), events.Event{
		Type:   events.EventTicketCreated,
		Ticket: sampleTicket(),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, sender.calls)
}
