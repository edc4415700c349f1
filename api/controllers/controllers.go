package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mercadia/mercadia-backend/api/middleware"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user in context")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user in context")
	}
	return id, nil
}
