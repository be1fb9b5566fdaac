package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leak-ticket-service/internal/domain"
)

// The SELECT column order matched by scanTicket. Column names keep the
// legacy sheet header spellings; the domain model uses the client names.
const ticketColumns = `id, status, outlet_name, report_date, indicator, risk_level,
               business_impact, recomendation, photos, created_at,
               departement, pic, plan_date, target_date, completion_date`

// TicketFilter captures listing parameters.
type TicketFilter struct {
	StoreName     *string
	Statuses      []domain.TicketStatus
	CreatedBefore *time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, status, outlet_name, report_date, indicator, risk_level,
                             business_impact, recomendation, photos,
                             departement, pic, plan_date, target_date, completion_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Status,
		ticket.StoreName,
		ticket.ReportDate,
		ticket.ProblemIndicator,
		ticket.RiskLevel,
		ticket.BusinessImpact,
		ticket.Recommendation,
		ticket.Photos,
		ticket.Department,
		ticket.PICName,
		ticket.PlannedDate,
		ticket.TargetEndDate,
		ticket.ActualFinishedDate,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, risk_level=$2, business_impact=$3, recomendation=$4,
            departement=$5, pic=$6, plan_date=$7, target_date=$8, completion_date=$9
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.RiskLevel,
		ticket.BusinessImpact,
		ticket.Recommendation,
		ticket.Department,
		ticket.PICName,
		ticket.PlannedDate,
		ticket.TargetEndDate,
		ticket.ActualFinishedDate,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.StoreName != nil {
		args = append(args, *filter.StoreName)
		clauses = append(clauses, fmt.Sprintf("outlet_name=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Status,
		&ticket.StoreName,
		&ticket.ReportDate,
		&ticket.ProblemIndicator,
		&ticket.RiskLevel,
		&ticket.BusinessImpact,
		&ticket.Recommendation,
		&ticket.Photos,
		&ticket.CreatedAt,
		&ticket.Department,
		&ticket.PICName,
		&ticket.PlannedDate,
		&ticket.TargetEndDate,
		&ticket.ActualFinishedDate,
	); err != nil {
		return nil, err
	}
	if ticket.Photos == nil {
		ticket.Photos = []string{}
	}
	return &ticket, nil
}
