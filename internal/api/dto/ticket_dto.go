package dto

import (
	"time"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
)

// CreateTicketRequest payload. Photos are data URLs; the service stores
// them and responds with sharable URLs.
type CreateTicketRequest struct {
	ReportDate string   `json:"report_date"`
	Indicator  string   `json:"indicator"`
	Photos     []string `json:"photos"`
}

// PlanRequest payload for the admin scheduling mutation.
type PlanRequest struct {
	Department     string           `json:"department"`
	PlannedDate    string           `json:"planned_date"`
	TargetEndDate  string           `json:"target_end_date"`
	RiskLevel      domain.RiskLevel `json:"risk_level,omitempty"`
	BusinessImpact string           `json:"business_impact,omitempty"`
	Recommendation string           `json:"recommendation,omitempty"`
}

// TicketResponse is the full ticket view. DisplayPhotos carries the
// normalized direct-view links for rendering; Photos the stored refs.
type TicketResponse struct {
	ID                 string              `json:"id"`
	Status             domain.TicketStatus `json:"status"`
	StoreName          string              `json:"store_name"`
	ReportDate         string              `json:"report_date"`
	ProblemIndicator   string              `json:"problem_indicator"`
	RiskLevel          domain.RiskLevel    `json:"risk_level"`
	BusinessImpact     string              `json:"business_impact"`
	Recommendation     string              `json:"recommendation"`
	Photos             []string            `json:"photos"`
	DisplayPhotos      []string            `json:"display_photos"`
	CreatedAt          time.Time           `json:"created_at"`
	Department         string              `json:"department,omitempty"`
	PICName            string              `json:"pic_name,omitempty"`
	PlannedDate        string              `json:"planned_date,omitempty"`
	TargetEndDate      string              `json:"target_end_date,omitempty"`
	ActualFinishedDate string              `json:"actual_finished_date,omitempty"`
}

// CatalogEntryResponse exposes one risk catalog row for the report form.
type CatalogEntryResponse struct {
	Indicator      string           `json:"indicator"`
	RiskLevel      domain.RiskLevel `json:"risk_level"`
	RiskLabel      string           `json:"risk_label"`
	BusinessImpact string           `json:"business_impact"`
	Recommendation string           `json:"recommendation"`
}
