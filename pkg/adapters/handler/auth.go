package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lza6/NooMiNav-optimization/pkg/config"
)

const sessionCookie = "session"

type AuthHandler struct {
	adminPassword string
	jwtSecret     []byte
	isProduction  bool
}

type loginRequest struct {
	Password string `json:"password"`
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		adminPassword: cfg.AdminPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		isProduction:  cfg.AppEnv == "production",
	}
}

// Login handles POST /admin/login: checks the shared passphrase and
// issues a signed session cookie. Accepts a JSON body or a form post.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.adminPassword == "" {
		http.Error(w, "admin access disabled", http.StatusForbidden)
		return
	}

	password := passwordFrom(r)
	if password != h.adminPassword {
		log.Printf("admin login rejected from %s", r.RemoteAddr)
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := jwtToken.SignedString(h.jwtSecret)
	if err != nil {
		log.Printf("Login error: failed signing JWT: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Expires:  expirationTime,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
}

// Logout handles GET /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func passwordFrom(r *http.Request) string {
	if r.Header.Get("Content-Type") == "application/json" {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			return req.Password
		}
		return ""
	}
	return r.FormValue("password")
}
