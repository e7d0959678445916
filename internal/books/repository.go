package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `
	b.id, b.book_name, b.description, b.mrp, b.discount,
	COALESCE(b.book_type_id::text, ''), COALESCE(bt.name, ''),
	b.count, b.author_name, b.image_url, b.created_at, b.updated_at
`

// nullUUID maps an unset id to NULL so the foreign key stays clean.
func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	book.ID = uuid.New().String()
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO books (id, book_name, description, mrp, discount, book_type_id, count, author_name, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`, book.ID, book.BookName, book.Description, book.MRP, book.Discount,
		nullUUID(book.BookTypeID), book.Count, book.AuthorName, book.ImageURL, now)
	return err
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b
		LEFT JOIN book_types bt ON bt.id = b.book_type_id
		WHERE b.id = $1
	`, id)

	book, err := scanBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return book, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET book_name = $2, description = $3, mrp = $4, discount = $5,
		    book_type_id = $6, count = $7, author_name = $8, image_url = $9,
		    updated_at = NOW()
		WHERE id = $1
	`, book.ID, book.BookName, book.Description, book.MRP, book.Discount,
		nullUUID(book.BookTypeID), book.Count, book.AuthorName, book.ImageURL)
	return err
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

// List pages through the catalog newest first, with a unified search across
// title, author, and type name.
func (r *BookRepository) List(ctx context.Context, page, limit int, search string) ([]domain.Book, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM books b
		LEFT JOIN book_types bt ON bt.id = b.book_type_id
		WHERE $1 = '' OR b.book_name ILIKE '%' || $1 || '%'
		   OR b.author_name ILIKE '%' || $1 || '%'
		   OR bt.name ILIKE '%' || $1 || '%'
	`, search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b
		LEFT JOIN book_types bt ON bt.id = b.book_type_id
		WHERE $1 = '' OR b.book_name ILIKE '%' || $1 || '%'
		   OR b.author_name ILIKE '%' || $1 || '%'
		   OR bt.name ILIKE '%' || $1 || '%'
		ORDER BY b.created_at DESC
		OFFSET $2 LIMIT $3
	`, search, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// PublicList is the storefront listing: unpaginated, filtered by title
// search and type name.
func (r *BookRepository) PublicList(ctx context.Context, search, typeName string) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookColumns+`
		FROM books b
		LEFT JOIN book_types bt ON bt.id = b.book_type_id
		WHERE ($1 = '' OR b.book_name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR bt.name ILIKE '%' || $2 || '%')
		ORDER BY b.created_at DESC
	`, search, typeName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectBooks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var (
		book        domain.Book
		description sql.NullString
		authorName  sql.NullString
		imageURL    sql.NullString
	)

	err := row.Scan(
		&book.ID, &book.BookName, &description, &book.MRP, &book.Discount,
		&book.BookTypeID, &book.TypeName, &book.Count, &authorName, &imageURL,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	book.Description = description.String
	book.AuthorName = authorName.String
	book.ImageURL = imageURL.String
	return &book, nil
}

func collectBooks(rows *sql.Rows) ([]domain.Book, error) {
	books := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}
