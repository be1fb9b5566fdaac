package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current TicketStatus
		next    TicketStatus
		allowed bool
	}{
		{TicketStatusPending, TicketStatusPlanned, true},
		{TicketStatusPending, TicketStatusFinished, true},
		{TicketStatusPlanned, TicketStatusPlanned, true},
		{TicketStatusPlanned, TicketStatusFinished, true},
		{TicketStatusFinished, TicketStatusPlanned, false},
		{TicketStatusFinished, TicketStatusFinished, false},
		{TicketStatusPlanned, TicketStatusPending, false},
		{TicketStatusFinished, TicketStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.current, tc.next),
			"%s -> %s", tc.current, tc.next)
	}
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole("ADMIN"))
	assert.Equal(t, RoleAdmin, NormalizeRole("admin"))
	assert.Equal(t, RoleAdmin, NormalizeRole("  Admin  "))
	assert.Equal(t, RoleOutlet, NormalizeRole("OUTLET"))
	assert.Equal(t, RoleOutlet, NormalizeRole("anything else"))
	assert.Equal(t, RoleOutlet, NormalizeRole(""))
}
