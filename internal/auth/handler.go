package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkstone/bookstore-api/internal/domain"
	"github.com/inkstone/bookstore-api/internal/httpx"
)

// Users is the persistence surface the handlers need.
type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type Handler struct {
	users  Users
	tokens *TokenManager
	logger *slog.Logger
}

func NewHandler(users Users, tokens *TokenManager, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "All fields are required")
		return
	}

	existing, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if existing != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.Error("failed to create user", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	httpx.WriteSuccess(w, h.logger, http.StatusCreated, httpx.Envelope{
		"message": "Registration successful",
		"user":    httpx.Envelope{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Please provide all fields")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}
	if user == nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpx.WriteError(w, h.logger, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		httpx.WriteError(w, h.logger, http.StatusInternalServerError, "Server error")
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	httpx.WriteSuccess(w, h.logger, http.StatusOK, httpx.Envelope{
		"message": "Login successful",
		"token":   token,
		"user":    httpx.Envelope{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}
