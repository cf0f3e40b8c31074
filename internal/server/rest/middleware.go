package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/httpx"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// UserIDFrom returns the account id stored by the auth middleware.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger assigns a request id, echoes it back and logs one line per
// request.
func (s *HTTPServer) requestLogger() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(common.RequestIDHeaderName)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(common.RequestIDHeaderName, reqID)

			ctx := context.WithValue(r.Context(), requestIDKey, reqID)
			rec := httpx.NewStatusRecorder(w)

			next.ServeHTTP(rec, r.WithContext(ctx))

			s.logger.Info(ctx, "http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

// recoverer turns a handler panic into a 500.
func (s *HTTPServer) recoverer() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					s.logger.Error(r.Context(), "handler panic", "request_id", requestIDFrom(r.Context()), "panic", p)
					writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var corsAllowedMethods = strings.Join([]string{
	http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
}, ", ")

// cors allows the configured frontend origin and answers preflight requests
// without reaching the handlers.
func (s *HTTPServer) cors() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.allowedOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", s.allowedOrigin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
				h.Set("Access-Control-Allow-Headers", strings.Join([]string{
					"Content-Type",
					common.AuthorizationHeaderName,
					common.LegacyTokenHeaderName,
					common.RequestIDHeaderName,
				}, ", "))
				h.Set("Access-Control-Expose-Headers", common.RequestIDHeaderName)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate requires a valid token in "Authorization: Bearer <token>" or
// in the legacy x-auth-token header and stores the account id in the
// request context.
func (s *HTTPServer) authenticate() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, err := s.accounts.VerifyToken(ctx, tokenFromRequest(r))
			if err != nil {
				s.writeError(ctx, w, err)
				return
			}

			ctx = context.WithValue(ctx, userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(common.AuthorizationHeaderName); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(common.LegacyTokenHeaderName))
}
