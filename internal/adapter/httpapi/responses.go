package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/escalopa/quran-progress/internal/domain"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSurahNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVerseOutOfRange),
		errors.Is(err, domain.ErrUnknownDirection),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEndOfQuran):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal errors are logged and hidden
// from the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		message = http.StatusText(status)
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	respondJSON(w, r, status, ErrorResponse{
		Error:     message,
		RequestID: RequestID(r.Context()),
	})
}
