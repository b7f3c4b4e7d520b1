package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminCookie  = "__kopimi_admin_session"
	memberCookie = "__kopimi_member_session"

	adminSessionTTL = 12 * time.Hour
)

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// setSession signs a token for subject and stores it in an http-only cookie.
// Without persist the cookie lasts for the browser session only.
func (h *Handler) setSession(w http.ResponseWriter, cookieName, role, subject string, ttl time.Duration, persist bool) error {
	now := h.now()
	expiration := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   subject,
		},
	})
	ss, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     cookieName,
		Value:    ss,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	if persist {
		cookie.Expires = expiration
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return nil
}

func clearSession(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:    cookieName,
		Value:   "",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
		Path:    "/",
	})
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	if len(h.adminHash) == 0 {
		h.errorResponse(w, r, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.adminHash, []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.unauthorized(w, r, "wrong password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setSession(w, adminCookie, RoleAdmin, RoleAdmin, adminSessionTTL, false); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "logged in", nil)
}

func (h *Handler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, adminCookie)
	h.successResponse(w, r, "logged out", nil)
}
