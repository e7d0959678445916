package booktypes

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/httpx"
)

type Store interface {
	GetByName(ctx context.Context, name string) (*domain.BookType, error)
	Create(ctx context.Context, bt *domain.BookType) error
	List(ctx context.Context) ([]domain.BookType, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	store  Store
	logger *slog.Logger
}

func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Book type name is required")
		return
	}

	existing, err := h.store.GetByName(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to check book type", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if existing != nil {
		httpx.WriteError(w, h.logger, http.StatusConflict, "Book type already exists")
		return
	}

	bt := &domain.BookType{Name: req.Name, Description: req.Description}
	if err := h.store.Create(r.Context(), bt); err != nil {
		h.logger.Error("failed to create book type", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("book type created", "book_type_id", bt.ID, "name", bt.Name)
	httpx.WriteSuccess(w, h.logger, http.StatusCreated, httpx.Envelope{
		"message": "Book type added successfully",
		"data":    bt,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list book types", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Error fetching book types")
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{"data": types})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid book type ID")
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete book type", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if !deleted {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Book type not found")
		return
	}

	h.logger.Info("book type deleted", "book_type_id", id)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Book type deleted successfully",
	})
}
