package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository stores messages in Postgres.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository creates a Postgres message repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, m *Message) (*Message, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (name, email, phone, subject, message, property_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+selectColumns,
		m.Name, m.Email, m.Phone, m.Subject, m.Message, m.PropertyID, string(StatusNew),
	)
	saved, err := scanPGMessage(row)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	return saved, nil
}

func (r *PGRepository) Get(ctx context.Context, id int64) (*Message, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM contact_messages WHERE id = $1", selectColumns), id)
	m, err := scanPGMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying message %d: %w", id, err)
	}
	return m, nil
}

func (r *PGRepository) List(ctx context.Context, f Filter) ([]*Message, error) {
	tail, args := f.where(pgPlaceholder)
	rows, err := r.pool.Query(ctx, fmt.Sprintf("SELECT %s FROM contact_messages", selectColumns)+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Message, error) {
		return scanPGMessage(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning messages: %w", err)
	}
	if messages == nil {
		messages = []*Message{}
	}
	return messages, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Message, error) {
	row := r.pool.QueryRow(ctx,
		"UPDATE contact_messages SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+selectColumns,
		string(status), id,
	)
	m, err := scanPGMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("updating message status: %w", err)
	}
	return m, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM contact_messages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanPGMessage(row pgx.Row) (*Message, error) {
	var m Message
	var status string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&m.PropertyID, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Status = Status(status)
	return &m, nil
}
