package booktypes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type BookTypeRepository struct {
	db *sql.DB
}

func NewBookTypeRepository(db *sql.DB) *BookTypeRepository {
	return &BookTypeRepository{db: db}
}

// GetByName matches case-insensitively so "Fiction" and "fiction" are the
// same type. Returns (nil, nil) when no type matches.
func (r *BookTypeRepository) GetByName(ctx context.Context, name string) (*domain.BookType, error) {
	query := `
		SELECT id, name, description, created_at
		FROM book_types
		WHERE LOWER(name) = LOWER($1)
	`

	var bt domain.BookType
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, name).Scan(&bt.ID, &bt.Name, &description, &bt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book type by name: %w", err)
	}
	bt.Description = description.String
	return &bt, nil
}

func (r *BookTypeRepository) Create(ctx context.Context, bt *domain.BookType) error {
	bt.ID = uuid.NewString()
	bt.CreatedAt = time.Now()

	query := `
		INSERT INTO book_types (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, bt.ID, bt.Name, bt.Description, bt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create book type: %w", err)
	}
	return nil
}

func (r *BookTypeRepository) List(ctx context.Context) ([]domain.BookType, error) {
	query := `
		SELECT id, name, description, created_at
		FROM book_types
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list book types: %w", err)
	}
	defer rows.Close()

	types := []domain.BookType{}
	for rows.Next() {
		var bt domain.BookType
		var description sql.NullString
		if err := rows.Scan(&bt.ID, &bt.Name, &description, &bt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book type: %w", err)
		}
		bt.Description = description.String
		types = append(types, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book types: %w", err)
	}
	return types, nil
}

func (r *BookTypeRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM book_types WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book type: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}
