package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// RuleRepository manages auto-close rule records. Rules are created and
// edited by administrators; the engine itself only lists active rules and
// bumps the running counter after a sweep.
type RuleRepository interface {
	ListActive(ctx context.Context) ([]domain.AutoCloseRule, error)
	List(ctx context.Context) ([]domain.AutoCloseRule, error)
	GetByID(ctx context.Context, id string) (*domain.AutoCloseRule, error)
	Create(ctx context.Context, rule *domain.AutoCloseRule) error
	Update(ctx context.Context, rule *domain.AutoCloseRule) error
	Delete(ctx context.Context, id string) error
	// IncrementTicketsClosed applies a single atomic counter update so
	// concurrent sweeps cannot lose increments.
	IncrementTicketsClosed(ctx context.Context, id string, n int) error
}

type ruleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository instantiates repository.
func NewRuleRepository(pool *pgxpool.Pool) RuleRepository {
	return &ruleRepository{pool: pool}
}

const ruleColumns = `id, name, is_active, condition_type, condition_value, after_days, after_hours,
               notify_user, notify_agent, add_note, note_text, tickets_closed, created_at, updated_at`

func (r *ruleRepository) ListActive(ctx context.Context) ([]domain.AutoCloseRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM autoclose_rules WHERE is_active = TRUE ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *ruleRepository) List(ctx context.Context) ([]domain.AutoCloseRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM autoclose_rules ORDER BY created_at ASC`
	return r.list(ctx, query)
}

func (r *ruleRepository) list(ctx context.Context, query string) ([]domain.AutoCloseRule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AutoCloseRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	return result, rows.Err()
}

func (r *ruleRepository) GetByID(ctx context.Context, id string) (*domain.AutoCloseRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM autoclose_rules WHERE id=$1`
	return scanRule(r.pool.QueryRow(ctx, query, id))
}

func (r *ruleRepository) Create(ctx context.Context, rule *domain.AutoCloseRule) error {
	const query = `
        INSERT INTO autoclose_rules (name, is_active, condition_type, condition_value, after_days, after_hours,
                                     notify_user, notify_agent, add_note, note_text)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, tickets_closed, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.IsActive,
		rule.ConditionType,
		rule.ConditionValue,
		rule.AfterDays,
		rule.AfterHours,
		rule.NotifyUser,
		rule.NotifyAgent,
		rule.AddNote,
		rule.NoteText,
	).Scan(&rule.ID, &rule.TicketsClosed, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *ruleRepository) Update(ctx context.Context, rule *domain.AutoCloseRule) error {
	const query = `
        UPDATE autoclose_rules SET name=$1, is_active=$2, condition_type=$3, condition_value=$4,
            after_days=$5, after_hours=$6, notify_user=$7, notify_agent=$8, add_note=$9, note_text=$10,
            updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.IsActive,
		rule.ConditionType,
		rule.ConditionValue,
		rule.AfterDays,
		rule.AfterHours,
		rule.NotifyUser,
		rule.NotifyAgent,
		rule.AddNote,
		rule.NoteText,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ruleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM autoclose_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ruleRepository) IncrementTicketsClosed(ctx context.Context, id string, n int) error {
	const query = `
        UPDATE autoclose_rules SET tickets_closed = tickets_closed + $1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, n, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRule(row pgx.Row) (*domain.AutoCloseRule, error) {
	var rule domain.AutoCloseRule
	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.IsActive,
		&rule.ConditionType,
		&rule.ConditionValue,
		&rule.AfterDays,
		&rule.AfterHours,
		&rule.NotifyUser,
		&rule.NotifyAgent,
		&rule.AddNote,
		&rule.NoteText,
		&rule.TicketsClosed,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rule, nil
}
