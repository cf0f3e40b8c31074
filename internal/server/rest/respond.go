package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
}

type favoritesResponse struct {
	Message   string   `json:"message"`
	Favorites []string `json:"favorites"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy to an HTTP status and the sentinel whose
// text is shown when err carries no client message.
func statusFor(err error) (int, error) {
	switch {
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError, common.ErrorInternal
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, common.ErrorValidation
	case errors.Is(err, common.ErrorAlreadyFavorited):
		return http.StatusBadRequest, common.ErrorAlreadyFavorited
	case errors.Is(err, common.ErrorDuplicateAccount):
		return http.StatusConflict, common.ErrorDuplicateAccount
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, common.ErrorInvalidCredentials
	case errors.Is(err, common.ErrorUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, common.ErrorUnauthenticated
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound
	case errors.Is(err, common.ErrorUpstreamUnavailable):
		return http.StatusBadGateway, common.ErrorUpstreamUnavailable
	default:
		return http.StatusInternalServerError, common.ErrorInternal
	}
}

func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, fallback := statusFor(err)

	msg := common.PublicMessage(err, fallback)
	if status == http.StatusInternalServerError {
		msg = "Server error"
		s.logger.Error(ctx, "request failed", "request_id", requestIDFrom(ctx), "status", status, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "request_id", requestIDFrom(ctx), "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Message: msg})
}

// decodeBody reads a JSON object into dst. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewError(common.ErrorValidation, "invalid request body")
	}
	return nil
}
