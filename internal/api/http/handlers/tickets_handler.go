package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leak-ticket-service/internal/api/dto"
	"github.com/spec-kit/leak-ticket-service/internal/auth"
	"github.com/spec-kit/leak-ticket-service/internal/catalog"
	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/photo"
	"github.com/spec-kit/leak-ticket-service/internal/service"
	apperrors "github.com/spec-kit/leak-ticket-service/pkg/util"
)

// TicketsHandler manages incident ticket endpoints for both roles.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Catalog GET /catalog returns the static risk catalog for the report form.
func (h *TicketsHandler) Catalog(c *fiber.Ctx) error {
	entries := catalog.Entries()
	items := make([]dto.CatalogEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.CatalogEntryResponse{
			Indicator:      e.Indicator,
			RiskLevel:      e.RiskLevel,
			RiskLabel:      e.RiskLabel,
			BusinessImpact: e.BusinessImpact,
			Recommendation: e.Recommendation,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicket POST /tickets (outlet only).
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		ReportDate: req.ReportDate,
		Indicator:  req.Indicator,
		Photos:     req.Photos,
	}
	ticket, err := h.service.CreateTicket(c.Context(), principal.Name(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets. Outlets see their own history; admins see
// everything, optionally filtered by ?status=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	if principal.Role == domain.RoleAdmin {
		tickets, err = h.service.ListAll(c.Context(), parseStatusQuery(c))
	} else {
		tickets, err = h.service.ListForOutlet(c.Context(), principal.Name())
	}
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicket(c.Context(), principal.Role, principal.Name(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SavePlan PUT /tickets/:id/plan (admin only).
func (h *TicketsHandler) SavePlan(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PlanInput{
		Department:     req.Department,
		PlannedDate:    req.PlannedDate,
		TargetEndDate:  req.TargetEndDate,
		RiskLevel:      req.RiskLevel,
		BusinessImpact: req.BusinessImpact,
		Recommendation: req.Recommendation,
	}
	ticket, err := h.service.SavePlan(c.Context(), principal.Name(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// FinishTicket PUT /tickets/:id/finish (admin only).
func (h *TicketsHandler) FinishTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.FinishTicket(c.Context(), principal.Name(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func parseStatusQuery(c *fiber.Ctx) []domain.TicketStatus {
	statusStr := c.Query("status")
	if statusStr == "" {
		return nil
	}
	var statuses []domain.TicketStatus
	for _, part := range strings.Split(statusStr, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			statuses = append(statuses, domain.TicketStatus(strings.ToUpper(part)))
		}
	}
	return statuses
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	display := make([]string, 0, len(ticket.Photos))
	for _, ref := range ticket.Photos {
		display = append(display, photo.DirectLink(ref))
	}
	return dto.TicketResponse{
		ID:                 ticket.ID,
		Status:             ticket.Status,
		StoreName:          ticket.StoreName,
		ReportDate:         ticket.ReportDate,
		ProblemIndicator:   ticket.ProblemIndicator,
		RiskLevel:          ticket.RiskLevel,
		BusinessImpact:     ticket.BusinessImpact,
		Recommendation:     ticket.Recommendation,
		Photos:             ticket.Photos,
		DisplayPhotos:      display,
		CreatedAt:          ticket.CreatedAt,
		Department:         ticket.Department,
		PICName:            ticket.PICName,
		PlannedDate:        ticket.PlannedDate,
		TargetEndDate:      ticket.TargetEndDate,
		ActualFinishedDate: ticket.ActualFinishedDate,
	}
}
