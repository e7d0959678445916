package books

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/httpx"
)

// Store is the persistence surface the handlers need.
type Store interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int, search string) ([]domain.Book, int, error)
	PublicList(ctx context.Context, search, typeName string) ([]domain.Book, error)
}

// ImageStore pushes image bytes to the remote file host. May be nil when
// image storage is not configured.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

type Handler struct {
	store  Store
	images ImageStore
	logger *slog.Logger
}

func NewHandler(store Store, images ImageStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		images: images,
		logger: logger,
	}
}

func (h *Handler) uploadImage(ctx context.Context, prefix, filename string, data []byte) (string, error) {
	if h.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}
	name := fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), filename)
	return h.images.Upload(ctx, name, data)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	filename, imageData, err := httpx.FormImage(r)
	if err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid multipart form")
		return
	}

	bookName := r.FormValue("bookName")
	mrp, mrpErr := strconv.ParseFloat(r.FormValue("mrp"), 64)
	if bookName == "" || mrpErr != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Book name and MRP required")
		return
	}

	discount, _ := strconv.ParseFloat(r.FormValue("discount"), 64)
	count, _ := strconv.Atoi(r.FormValue("count"))

	book := &domain.Book{
		BookName:    bookName,
		Description: r.FormValue("description"),
		MRP:         mrp,
		Discount:    discount,
		BookTypeID:  r.FormValue("bookTypeId"),
		Count:       count,
		AuthorName:  r.FormValue("authorName"),
	}

	if imageData != nil {
		url, err := h.uploadImage(r.Context(), "book", filename, imageData)
		if err != nil {
			h.logger.Error("image upload failed", "error", err, "book_name", bookName)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Image upload failed")
			return
		}
		book.ImageURL = url
	}

	if err := h.store.Create(r.Context(), book); err != nil {
		h.logger.Error("failed to create book", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("book created", "book_id", book.ID, "book_name", book.BookName)
	httpx.WriteSuccess(w, h.logger, http.StatusCreated, httpx.Envelope{
		"message": "Book added successfully",
		"data":    book,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := httpx.QueryInt(r, "page", 1)
	limit := httpx.QueryInt(r, "limit", 10)
	search := r.URL.Query().Get("search")

	books, total, err := h.store.List(r.Context(), page, limit, search)
	if err != nil {
		h.logger.Error("failed to list books", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Error fetching books")
		return
	}

	totalPages := (total + limit - 1) / limit
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"data": books,
		"pagination": httpx.Envelope{
			"totalBooks":  total,
			"totalPages":  totalPages,
			"currentPage": page,
			"pageSize":    limit,
		},
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	book, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get book", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error fetching book details")
		return
	}
	if book == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Book not found")
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{"data": book})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid book ID")
		return
	}

	filename, imageData, err := httpx.FormImage(r)
	if err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid multipart form")
		return
	}

	book, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get book", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if book == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Book not found")
		return
	}

	if v := r.FormValue("bookName"); v != "" {
		book.BookName = v
	}
	if v := r.FormValue("description"); v != "" {
		book.Description = v
	}
	if v := r.FormValue("mrp"); v != "" {
		if mrp, err := strconv.ParseFloat(v, 64); err == nil {
			book.MRP = mrp
		}
	}
	if v := r.FormValue("discount"); v != "" {
		if discount, err := strconv.ParseFloat(v, 64); err == nil {
			book.Discount = discount
		}
	}
	if v := r.FormValue("bookTypeId"); v != "" {
		book.BookTypeID = v
	}
	if v := r.FormValue("count"); v != "" {
		if count, err := strconv.Atoi(v); err == nil {
			book.Count = count
		}
	}
	if v := r.FormValue("authorName"); v != "" {
		book.AuthorName = v
	}

	if imageData != nil {
		url, err := h.uploadImage(r.Context(), "book", filename, imageData)
		if err != nil {
			h.logger.Error("image upload failed", "error", err, "id", id)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Image upload failed")
			return
		}
		book.ImageURL = url
	}

	if err := h.store.Update(r.Context(), book); err != nil {
		h.logger.Error("failed to update book", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("book updated", "book_id", book.ID)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Book updated successfully",
		"data":    book,
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid book ID")
		return
	}

	book, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get book", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error while deleting book")
		return
	}
	if book == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Book not found")
		return
	}

	// Best effort: a stale image on the file host is not worth failing the
	// delete over.
	if book.ImageURL != "" && h.images != nil {
		if err := h.images.Delete(r.Context(), book.ImageURL); err != nil {
			h.logger.Error("failed to delete book image", "error", err, "id", id, "image_url", book.ImageURL)
		}
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete book", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error while deleting book")
		return
	}

	h.logger.Info("book deleted", "book_id", id)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Book deleted successfully",
	})
}

func (h *Handler) HandlePublicList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	typeName := r.URL.Query().Get("type")

	books, err := h.store.PublicList(r.Context(), search, typeName)
	if err != nil {
		h.logger.Error("failed to list public books", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error fetching books")
		return
	}

	message := "Books fetched successfully"
	if len(books) == 0 {
		message = "No books found for given filters"
	}
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"data":    books,
		"message": message,
	})
}
