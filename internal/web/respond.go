package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vgclassic/storefront/pkg/apperr"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", slog.Any("err", err))
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Unknown errors
// are logged and surfaced as an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := httpStatusFromKind(kind)

	msg := err.Error()
	if kind == apperr.KindUnknown || kind == apperr.KindPersistence {
		slog.Error("request failed", slog.Any("err", err))
		msg = "internal server error"
		if kind == apperr.KindPersistence {
			msg = "temporarily unable to persist changes"
		}
	}

	respondJSON(w, status, ErrorResponse{Error: msg, Code: kind.String()})
}

func httpStatusFromKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindCartEmpty:
		return http.StatusBadRequest
	case apperr.KindNotAuthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindProductUnavailable, apperr.KindOutOfStock, apperr.KindConcurrentModification:
		return http.StatusConflict
	case apperr.KindPersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
