package events

import (
	"time"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketPlanned  EventType = "ticket_planned"
	EventTicketFinished EventType = "ticket_finished"
	EventTicketOverdue  EventType = "ticket_overdue"
)

// Event represents a domain event emitted by services. The payload is a
// full ticket snapshot so notification templates never re-read storage.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Actor     string        `json:"actor,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Ticket    domain.Ticket `json:"ticket"`
}
