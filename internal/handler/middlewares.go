package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/metrics"
	"github.com/kopimi-kafe/backend/internal/store"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		metrics.IncHTTPRequest(r.Method, rw.StatusCode)
		slog.Info("handled request", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// session parses the JWT stored in the named cookie.
func (h *Handler) session(r *http.Request, cookieName string) (*AuthClaims, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, err
	}

	claims := &AuthClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (h *Handler) requireSession(cookieName, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := h.session(r, cookieName)
			if err != nil {
				switch {
				case errors.Is(err, http.ErrNoCookie):
					h.unauthorized(w, r, "not logged in")
				default:
					h.unauthorized(w, r, "invalid session")
				}
				return
			}
			if claims.Role != role {
				h.unauthorized(w, r, "invalid session")
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, RoleCtxKey, claims.Role)
			ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return h.requireSession(adminCookie, RoleAdmin)(next)
}

func (h *Handler) memberOnly(next http.Handler) http.Handler {
	return h.requireSession(memberCookie, RoleMember)(next)
}

func (h *Handler) barista(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, ok := findByID(store.Get(h.store, store.Baristas), id, func(b domain.Barista) string { return b.ID })
		if !ok {
			h.notFound(w, r, "barista")
			return
		}

		ctx := context.WithValue(r.Context(), BaristaCtxKey, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			h.errorResponse(w, r, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
