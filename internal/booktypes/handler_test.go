package booktypes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/inkstone/bookstore-api/internal/domain"
)

type fakeStore struct {
	types []domain.BookType
}

func (s *fakeStore) GetByName(_ context.Context, name string) (*domain.BookType, error) {
	for _, bt := range s.types {
		if strings.EqualFold(bt.Name, name) {
			copied := bt
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(_ context.Context, bt *domain.BookType) error {
	bt.ID = uuid.NewString()
	s.types = append(s.types, *bt)
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]domain.BookType, error) {
	return s.types, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	for i, bt := range s.types {
		if bt.ID == id {
			s.types = append(s.types[:i], s.types[i+1:]...)
			return true, nil
		}
	}
	return false, nil
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

	t.Run("creates a new type", func(t *testing.T) {
		store := &fakeStore{}
		handler := NewHandler(store, logger)

		req := httptest.NewRequest(http.MethodPost, "/book-types/add",
			strings.NewReader(`{"name": "Fiction", "description": "Novels and stories"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", res.StatusCode)
		}
		got := decodeBody(t, res)
		if got["success"] != true {
			t.Errorf("expected success true, got %v", got["success"])
		}
		data := got["data"].(map[string]any)
		if data["name"] != "Fiction" {
			t.Errorf("expected name Fiction, got %v", data["name"])
		}
		if len(store.types) != 1 {
			t.Errorf("expected one stored type, got %d", len(store.types))
		}
	})

	t.Run("rejects duplicate name ignoring case", func(t *testing.T) {
		store := &fakeStore{types: []domain.BookType{{ID: uuid.NewString(), Name: "Fiction"}}}
		handler := NewHandler(store, logger)

		req := httptest.NewRequest(http.MethodPost, "/book-types/add",
			strings.NewReader(`{"name": "fiction"}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		if res.StatusCode != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", res.StatusCode)
		}
		got := decodeBody(t, res)
		if got["message"] != "Book type already exists" {
			t.Errorf("unexpected message %v", got["message"])
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		handler := NewHandler(&fakeStore{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/book-types/add",
			strings.NewReader(`{"name": "   "}`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_List(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := &fakeStore{types: []domain.BookType{
		{ID: uuid.NewString(), Name: "Fiction"},
		{ID: uuid.NewString(), Name: "Technology"},
	}}
	handler := NewHandler(store, logger)

	req := httptest.NewRequest(http.MethodGet, "/book-types", nil)
	rec := httptest.NewRecorder()

	handler.HandleList(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	got := decodeBody(t, res)
	data := got["data"].([]any)
	if len(data) != 2 {
		t.Errorf("expected 2 types, got %d", len(data))
	}
}

func TestHandler_Delete(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("deletes existing type", func(t *testing.T) {
		bt := domain.BookType{ID: uuid.NewString(), Name: "Fiction"}
		store := &fakeStore{types: []domain.BookType{bt}}
		handler := NewHandler(store, logger)

		req := httptest.NewRequest(http.MethodDelete, "/book-types/"+bt.ID, nil)
		req.SetPathValue("id", bt.ID)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if len(store.types) != 0 {
			t.Errorf("expected empty store, got %d types", len(store.types))
		}
	})

	t.Run("returns 404 for unknown type", func(t *testing.T) {
		handler := NewHandler(&fakeStore{}, logger)

		unknown := uuid.NewString()
		req := httptest.NewRequest(http.MethodDelete, "/book-types/"+unknown, nil)
		req.SetPathValue("id", unknown)
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		handler := NewHandler(&fakeStore{}, logger)

		req := httptest.NewRequest(http.MethodDelete, "/book-types/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
