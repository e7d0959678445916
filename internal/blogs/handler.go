package blogs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/httpx"
)

type Store interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int, search string) ([]domain.Blog, int, error)
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

func (h *Handler) uploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	if h.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}
	name := fmt.Sprintf("blog_%d_%s", time.Now().UnixMilli(), filename)
	return h.images.Upload(ctx, name, data)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	filename, imageData, err := httpx.FormImage(r)
	if err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Blog title is required")
		return
	}

	blog := &domain.Blog{
		Title:       title,
		Description: r.FormValue("description"),
	}

	if imageData != nil {
		url, err := h.uploadImage(r.Context(), filename, imageData)
		if err != nil {
			h.logger.Error("blog image upload failed", "error", err, "title", title)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Image upload failed")
			return
		}
		blog.ImageURL = url
	}

	if err := h.store.Create(r.Context(), blog); err != nil {
		h.logger.Error("failed to create blog", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("blog created", "blog_id", blog.ID)
	httpx.WriteSuccess(w, h.logger, http.StatusCreated, httpx.Envelope{
		"message": "Blog added successfully",
		"data":    blog,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := httpx.QueryInt(r, "page", 1)
	limit := httpx.QueryInt(r, "limit", 10)
	search := r.URL.Query().Get("search")

	blogs, total, err := h.store.List(r.Context(), page, limit, search)
	if err != nil {
		h.logger.Error("failed to list blogs", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Error fetching blogs")
		return
	}

	totalPages := (total + limit - 1) / limit
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"data": blogs,
		"pagination": httpx.Envelope{
			"totalBlogs":  total,
			"totalPages":  totalPages,
			"currentPage": page,
			"pageSize":    limit,
		},
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid blog ID format")
		return
	}

	blog, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get blog", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if blog == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Blog not found")
		return
	}

	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{"data": blog})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid blog ID")
		return
	}

	filename, imageData, err := httpx.FormImage(r)
	if err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid multipart form")
		return
	}

	blog, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get blog", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if blog == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Blog not found")
		return
	}

	if v := r.FormValue("title"); v != "" {
		blog.Title = v
	}
	if v := r.FormValue("description"); v != "" {
		blog.Description = v
	}

	if imageData != nil {
		url, err := h.uploadImage(r.Context(), filename, imageData)
		if err != nil {
			h.logger.Error("blog image upload failed", "error", err, "id", id)
			httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Image upload failed")
			return
		}
		blog.ImageURL = url
	}

	if err := h.store.Update(r.Context(), blog); err != nil {
		h.logger.Error("failed to update blog", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("blog updated", "blog_id", blog.ID)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Blog updated successfully",
		"data":    blog,
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid blog ID")
		return
	}

	blog, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get blog", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if blog == nil {
		httpx.WriteError(w, h.logger, http.StatusNotFound, "Blog not found")
		return
	}

	if blog.ImageURL != "" && h.images != nil {
		if err := h.images.Delete(r.Context(), blog.ImageURL); err != nil {
			h.logger.Error("failed to delete blog image", "error", err, "id", id, "image_url", blog.ImageURL)
		}
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete blog", "error", err, "id", id)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("blog deleted", "blog_id", id)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Blog deleted successfully",
	})
}
