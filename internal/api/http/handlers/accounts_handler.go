package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leak-ticket-service/internal/api/dto"
	"github.com/spec-kit/leak-ticket-service/internal/service"
	apperrors "github.com/spec-kit/leak-ticket-service/pkg/util"
)

// AccountsHandler exposes login and account provisioning endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// ListAccounts handles GET /auth/accounts. It backs the login picker
// and never exposes credentials or emails.
func (h *AccountsHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.auth.ListAccounts(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, dto.AccountSummary{ID: account.ID, Role: account.Role})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Login handles POST /auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, exp, err := h.auth.Login(c.Context(), req.ID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountSummary{ID: account.ID, Role: account.Role},
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Provision handles POST /accounts (admin only).
func (h *AccountsHandler) Provision(c *fiber.Ctx) error {
	var req dto.ProvisionAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.auth.ProvisionAccount(c.Context(), req.ID, req.Password, req.Role, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AccountSummary{ID: account.ID, Role: account.Role},
	})
}
