package blogs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type BlogRepository struct {
	db *sql.DB
}

func NewBlogRepository(db *sql.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	blog.ID = uuid.NewString()
	now := time.Now()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	query := `
		INSERT INTO blogs (id, title, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		blog.ID, blog.Title, blog.Description, blog.ImageURL, blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when no blog matches.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	query := `
		SELECT id, title, description, image_url, created_at, updated_at
		FROM blogs
		WHERE id = $1
	`

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return blog, nil
}

func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	blog.UpdatedAt = time.Now()

	query := `
		UPDATE blogs
		SET title = $2, description = $3, image_url = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		blog.ID, blog.Title, blog.Description, blog.ImageURL, blog.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

func (r *BlogRepository) List(ctx context.Context, page, limit int, search string) ([]domain.Blog, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM blogs
		WHERE $1 = '' OR title ILIKE '%' || $1 || '%'
	`
	if err := r.db.QueryRowContext(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	query := `
		SELECT id, title, description, image_url, created_at, updated_at
		FROM blogs
		WHERE $1 = '' OR title ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	blogs := []domain.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, *blog)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate blogs: %w", err)
	}
	return blogs, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*domain.Blog, error) {
	var blog domain.Blog
	var description, imageURL sql.NullString
	err := row.Scan(&blog.ID, &blog.Title, &description, &imageURL, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return nil, err
	}
	blog.Description = description.String
	blog.ImageURL = imageURL.String
	return &blog, nil
}
