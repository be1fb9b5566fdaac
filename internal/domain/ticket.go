package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusPlanned  TicketStatus = "PLANNED"
	TicketStatusFinished TicketStatus = "FINISHED"
)

// RiskLevel enumerates derived incident severity.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Ticket is the aggregate for a ceiling-leak incident report.
type Ticket struct {
	ID               string
	Status           TicketStatus
	StoreName        string
	ReportDate       string
	ProblemIndicator string
	RiskLevel        RiskLevel
	BusinessImpact   string
	Recommendation   string
	Photos           []string
	CreatedAt        time.Time

	// Admin-assigned scheduling fields, empty until a plan is saved.
	Department         string
	PICName            string
	PlannedDate        string
	TargetEndDate      string
	ActualFinishedDate string
}

// Status only advances PENDING -> PLANNED -> FINISHED. Re-saving a plan
// while PLANNED overwrites scheduling fields; FINISHED is terminal.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:  {TicketStatusPlanned, TicketStatusFinished},
	TicketStatusPlanned:  {TicketStatusPlanned, TicketStatusFinished},
	TicketStatusFinished: {},
}

// CanTransition reports whether a status change is permitted.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
