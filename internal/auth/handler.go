package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// Handler issues admin session tokens against configured credentials.
type Handler struct {
	secret     []byte
	email      string
	password   string
	sessionTTL time.Duration
	logger     *logging.Logger
	now        func() time.Time
}

// NewHandler creates an auth handler. sessionTTL must be positive.
func NewHandler(secret, email, password string, sessionTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		secret:     []byte(secret),
		email:      email,
		password:   password,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(h.secret) == 0 || h.email == "" || h.password == "" {
		h.logger.Error("admin login rejected, credentials not configured")
		http.Error(w, "admin login unavailable", http.StatusServiceUnavailable)
		return
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !emailOK || !passOK {
		h.logger.Warn("admin login failed", "email", req.Email)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	expiresAt := h.now().Add(h.sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   req.Email,
		IssuedAt:  jwt.NewNumericDate(h.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		h.logger.Error("failed to sign session token", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	h.logger.Info("admin login succeeded", "email", req.Email)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: signed, ExpiresAt: expiresAt})
}
