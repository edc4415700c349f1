package controllers

import (
	"net/http"

	"github.com/mercadia/mercadia-backend/api/responses"
	"github.com/mercadia/mercadia-backend/api/validators"
	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/pkg/logger"
)

// QuoteCheckout prices the payload (or the current cart when it carries no
// items) and returns the quote without persisting anything.
func QuoteCheckout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input checkout.QuoteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// RequoteCart re-quotes the customer's current cart with no overrides.
func RequoteCart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), userID, checkout.QuoteInput{})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}
