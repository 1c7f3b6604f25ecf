package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evcraddock/realty-site/internal/db"
)

// SQLRepository stores messages in SQLite.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a message repository.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts a message with status new.
func (r *SQLRepository) Create(ctx context.Context, m *Message) (*Message, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, phone, subject, message, property_id, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Phone, m.Subject, m.Message, m.PropertyID, string(StatusNew),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.Get(ctx, id)
}

// Get returns a message by its ID.
func (r *SQLRepository) Get(ctx context.Context, id int64) (*Message, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT %s FROM contact_messages WHERE id = ?", selectColumns), id)
	m, err := scanSQLMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying message %d: %w", id, err)
	}
	return m, nil
}

// List returns messages matching the filter, newest first.
func (r *SQLRepository) List(ctx context.Context, f Filter) (messages []*Message, err error) {
	tail, args := f.where(sqlitePlaceholder)
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM contact_messages", selectColumns)+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer db.CloseRows(rows, &err)

	messages = []*Message{}
	for rows.Next() {
		m, err := scanSQLMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return messages, nil
}

// UpdateStatus sets a message's status and stamps updated_at.
func (r *SQLRepository) UpdateStatus(ctx context.Context, id int64, status Status) (*Message, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE contact_messages SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating message status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}

	return r.Get(ctx, id)
}

// Delete removes a message by ID.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("message %d: %w", id, ErrNotFound)
	}

	return nil
}

func scanSQLMessage(row interface{ Scan(...any) error }) (*Message, error) {
	var m Message
	var propertyID sql.NullInt64
	var status string
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&propertyID, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if propertyID.Valid {
		m.PropertyID = &propertyID.Int64
	}
	m.Status = Status(status)
	return &m, nil
}
