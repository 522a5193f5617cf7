package api

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/core/service"
	"github.com/bornholm/folio/internal/core/viewer"
	"github.com/pkg/errors"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// UnlockURL is the purchase prompt endpoint, set when a purchase is required
	UnlockURL string `json:"unlockUrl,omitempty"`
}

// handleError maps the given error to the matching status code. Errors
// which are not part of the viewing flow are logged and hidden.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, unlockURL string) {
	var declined *port.PurchaseDeclinedError

	switch {
	case errors.As(err, &declined):
		writeJSON(w, r, http.StatusPaymentRequired, ErrorResponse{Error: declined.Message, UnlockURL: unlockURL})

	case errors.Is(err, viewer.ErrPreviewLimitExceeded), errors.Is(err, service.ErrPurchaseRequired):
		writeJSON(w, r, http.StatusPaymentRequired, ErrorResponse{
			Error:     "A purchase is required to access the rest of this document.",
			UnlockURL: unlockURL,
		})

	case errors.Is(err, port.ErrNotFound):
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound)})

	case errors.Is(err, port.ErrUnauthenticated):
		writeJSON(w, r, http.StatusUnauthorized, ErrorResponse{Error: "You must be logged in to purchase this document."})

	case errors.Is(err, viewer.ErrSessionClosed):
		writeJSON(w, r, http.StatusGone, ErrorResponse{Error: "The viewer session is closed."})

	case errors.Is(err, viewer.ErrNotReady), errors.Is(err, viewer.ErrUnlockInProgress),
		errors.Is(err, viewer.ErrNoPendingUnlock), errors.Is(err, viewer.ErrNotPurchasable):
		writeJSON(w, r, http.StatusConflict, ErrorResponse{Error: errors.Cause(err).Error()})

	case errors.Is(err, viewer.ErrLoadFailed):
		writeJSON(w, r, http.StatusConflict, ErrorResponse{Error: "The document could not be loaded, it can still be downloaded."})

	case errors.Is(err, viewer.ErrNotPaginated), errors.Is(err, viewer.ErrStrategyUnavailable), errors.Is(err, service.ErrNotText):
		writeJSON(w, r, http.StatusUnprocessableEntity, ErrorResponse{Error: errors.Cause(err).Error()})

	default:
		slog.ErrorContext(r.Context(), "unexpected error", slog.Any("error", errors.WithStack(err)))
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}
