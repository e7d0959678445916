package blogs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type fakeStore struct {
	blogs map[string]*domain.Blog
}

func newFakeStore() *fakeStore {
	return &fakeStore{blogs: make(map[string]*domain.Blog)}
}

func (s *fakeStore) Create(_ context.Context, blog *domain.Blog) error {
	blog.ID = uuid.NewString()
	blog.CreatedAt = time.Now()
	copied := *blog
	s.blogs[blog.ID] = &copied
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*domain.Blog, error) {
	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}
	copied := *blog
	return &copied, nil
}

func (s *fakeStore) Update(_ context.Context, blog *domain.Blog) error {
	copied := *blog
	s.blogs[blog.ID] = &copied
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	delete(s.blogs, id)
	return nil
}

func (s *fakeStore) List(_ context.Context, page, limit int, search string) ([]domain.Blog, int, error) {
	all := make([]domain.Blog, 0, len(s.blogs))
	for _, blog := range s.blogs {
		if search != "" && !strings.Contains(strings.ToLower(blog.Title), strings.ToLower(search)) {
			continue
		}
		all = append(all, *blog)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []domain.Blog{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

type fakeImages struct {
	deleted []string
}

func (f *fakeImages) Upload(_ context.Context, name string, _ []byte) (string, error) {
	return "https://files.example.com/uploads/" + name, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func multipartBody(t *testing.T, fields map[string]string, imageName string, imageData []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("failed to write image data: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestHandler_Create(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("creates blog with image", func(t *testing.T) {
		store := newFakeStore()
		handler := NewHandler(store, &fakeImages{}, logger)

		body, contentType := multipartBody(t, map[string]string{
			"title":       "New arrivals this month",
			"description": "Fresh stock on the shelves.",
		}, "banner.jpg", []byte("jpg-bytes"))

		req := httptest.NewRequest(http.MethodPost, "/blogs/create", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", res.StatusCode)
		}
		got := decodeBody(t, res)
		data := got["data"].(map[string]any)
		imageURL, _ := data["imageUrl"].(string)
		if !strings.HasPrefix(imageURL, "https://files.example.com/uploads/blog_") {
			t.Errorf("unexpected image url %q", imageURL)
		}
		if len(store.blogs) != 1 {
			t.Errorf("expected one stored blog, got %d", len(store.blogs))
		}
	})

	t.Run("rejects missing title", func(t *testing.T) {
		handler := NewHandler(newFakeStore(), nil, logger)

		body, contentType := multipartBody(t, map[string]string{"description": "no title"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/blogs/create", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_List(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	for i := 0; i < 3; i++ {
		blog := &domain.Blog{Title: "Post"}
		if err := store.Create(context.Background(), blog); err != nil {
			t.Fatalf("failed to seed blog: %v", err)
		}
	}
	handler := NewHandler(store, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/blogs?page=1&limit=2", nil)
	rec := httptest.NewRecorder()

	handler.HandleList(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	got := decodeBody(t, res)
	pagination := got["pagination"].(map[string]any)
	if pagination["totalBlogs"] != float64(3) {
		t.Errorf("expected totalBlogs 3, got %v", pagination["totalBlogs"])
	}
	if pagination["totalPages"] != float64(2) {
		t.Errorf("expected totalPages 2, got %v", pagination["totalPages"])
	}
	data := got["data"].([]any)
	if len(data) != 2 {
		t.Errorf("expected 2 blogs on first page, got %d", len(data))
	}
}

func TestHandler_ListSearch(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	for _, title := range []string{"Summer reading list", "Store opening hours"} {
		blog := &domain.Blog{Title: title}
		if err := store.Create(context.Background(), blog); err != nil {
			t.Fatalf("failed to seed blog: %v", err)
		}
	}
	handler := NewHandler(store, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/blogs?search=reading", nil)
	rec := httptest.NewRecorder()

	handler.HandleList(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	got := decodeBody(t, res)
	data := got["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 matching blog, got %d", len(data))
	}
	entry := data[0].(map[string]any)
	if entry["title"] != "Summer reading list" {
		t.Errorf("unexpected match %v", entry["title"])
	}
}

func TestHandler_Update(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := newFakeStore()
	blog := &domain.Blog{Title: "Old title", Description: "Old body"}
	if err := store.Create(context.Background(), blog); err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}
	handler := NewHandler(store, nil, logger)

	body, contentType := multipartBody(t, map[string]string{"title": "New title"}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/blogs/update/"+blog.ID, body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", blog.ID)
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := store.blogs[blog.ID]
	if updated.Title != "New title" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Description != "Old body" {
		t.Errorf("expected description unchanged, got %q", updated.Description)
	}
}

func TestHandler_Delete(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("deletes blog and its image", func(t *testing.T) {
		store := newFakeStore()
		images := &fakeImages{}
		blog := &domain.Blog{Title: "Doomed", ImageURL: "https://files.example.com/uploads/blog_1_banner.jpg"}
		if err := store.Create(context.Background(), blog); err != nil {
			t.Fatalf("failed to seed blog: %v", err)
		}
		handler := NewHandler(store, images, logger)

		req := httptest.NewRequest(http.MethodDelete, "/blogs/delete/"+blog.ID, nil)
		req.SetPathValue("id", blog.ID)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if len(store.blogs) != 0 {
			t.Errorf("expected empty store, got %d blogs", len(store.blogs))
		}
		if len(images.deleted) != 1 {
			t.Errorf("expected one image delete, got %d", len(images.deleted))
		}
	})

	t.Run("returns 404 for unknown blog", func(t *testing.T) {
		handler := NewHandler(newFakeStore(), nil, logger)

		unknown := uuid.NewString()
		req := httptest.NewRequest(http.MethodDelete, "/blogs/delete/"+unknown, nil)
		req.SetPathValue("id", unknown)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}
