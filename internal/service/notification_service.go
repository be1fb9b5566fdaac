package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/events"
	"github.com/spec-kit/leak-ticket-service/internal/repository"
)

// NotificationService turns ticket lifecycle events into emails for the
// reporting outlet and every admin.
type NotificationService struct {
	dispatcher events.Dispatcher
	accounts   repository.AccountRepository
	sender     EmailSender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, accounts repository.AccountRepository, sender EmailSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		accounts:   accounts,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketPlanned, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketFinished, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketOverdue, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	recipients, err := n.resolveRecipients(ctx, event.Ticket.StoreName)
	if err != nil {
		n.logger.Error("resolve notification recipients", zap.String("ticket_id", event.Ticket.ID), zap.Error(err))
		return err
	}
	if len(recipients) == 0 {
		// no registered addresses for this store and no admins; the
		// legacy backend silently skipped these as well
		return nil
	}

	subject, body := composeEmail(event.Type, &event.Ticket)
	if err := n.sender.Send(ctx, recipients, subject, body); err != nil {
		n.logger.Error("send notification", zap.String("ticket_id", event.Ticket.ID), zap.Error(err))
		return err
	}
	n.logger.Info("notification sent",
		zap.String("ticket_id", event.Ticket.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("recipients", len(recipients)))
	return nil
}

// resolveRecipients collects the outlet's registered email (matched by
// trimmed, case-insensitive account id) plus all admin emails.
func (n *NotificationService) resolveRecipients(ctx context.Context, storeName string) ([]string, error) {
	accounts, err := n.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	target := strings.ToUpper(strings.TrimSpace(storeName))
	seen := map[string]struct{}{}
	var recipients []string
	add := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" || !strings.Contains(email, "@") {
			return
		}
		if _, dup := seen[email]; dup {
			return
		}
		seen[email] = struct{}{}
		recipients = append(recipients, email)
	}

	for _, account := range accounts {
		if strings.ToUpper(strings.TrimSpace(account.ID)) == target {
			add(account.Email)
		}
	}
	for _, account := range accounts {
		if domain.NormalizeRole(string(account.Role)) == domain.RoleAdmin {
			add(account.Email)
		}
	}
	return recipients, nil
}

func composeEmail(eventType events.EventType, t *domain.Ticket) (subject, body string) {
	var titlePrefix, header string
	switch eventType {
	case events.EventTicketCreated:
		titlePrefix = "[TIKET BARU]"
		header = "Halo Tim Maintenance, terdapat laporan perbaikan plafon baru yang perlu segera ditinjau."
	case events.EventTicketPlanned:
		titlePrefix = "[RENCANA UPDATE]"
		header = "Halo Tim Outlet, jadwal dan rencana pengerjaan untuk tiket Anda telah diperbarui oleh Admin."
	case events.EventTicketFinished:
		titlePrefix = "[PEKERJAAN SELESAI]"
		header = "Kabar baik! Pekerjaan perbaikan plafon telah selesai dilaksanakan dan tiket kini ditutup."
	case events.EventTicketOverdue:
		titlePrefix = "[REMINDER 3 HARI]"
		header = "Peringatan: Tiket berikut sudah melampaui batas waktu tanpa ada rencana pengerjaan."
	default:
		titlePrefix = "[UPDATE]"
		header = "Terdapat pembaruan pada tiket berikut."
	}

	subject = fmt.Sprintf("%s | ID: %s | TOKO: %s", titlePrefix, t.ID, t.StoreName)

	impact := t.BusinessImpact
	if impact == "" {
		impact = "Belum dianalisa"
	}
	recommendation := t.Recommendation
	if recommendation == "" {
		recommendation = "Belum ditentukan"
	}

	var photos strings.Builder
	if len(t.Photos) == 0 {
		photos.WriteString("   [x] (Tidak ada foto yang diunggah)")
	} else {
		for i, url := range t.Photos {
			if i > 0 {
				photos.WriteString("\n")
			}
			fmt.Fprintf(&photos, "   [>] Foto %d: %s", i+1, url)
		}
	}

	body = fmt.Sprintf(`Yth. Rekan Tim,

%s

==================================================
DETAIL LAPORAN PELAPORAN
==================================================

* Nama Toko      : %s
* ID Tiket       : %s
* Tanggal Lapor  : %s
* Indikator      :
  > %s
* Level Resiko   : %s
* Dampak Bisnis  :
  > %s
* Rekomendasi    :
  > %s

==================================================
BUKTI FOTO DOKUMENTASI
==================================================
%s

Mohon dapat segera dikoordinasikan lebih lanjut. Terima kasih atas kerja samanya.

--------------------------------------------------
DASHBOARD PELAPORAN KEBOCORAN PLAFON
Sistem Notifikasi Otomatis
--------------------------------------------------`,
		header, t.StoreName, t.ID, t.ReportDate, t.ProblemIndicator,
		t.RiskLevel, impact, recommendation, photos.String())

	return subject, body
}
