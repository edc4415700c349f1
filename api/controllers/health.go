package controllers

import (
	"net/http"

	"github.com/mercadia/mercadia-backend/api/responses"
	pkgdb "github.com/mercadia/mercadia-backend/pkg/db"
	pkgerrors "github.com/mercadia/mercadia-backend/pkg/errors"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	pkgredis "github.com/mercadia/mercadia-backend/pkg/redis"
)

type healthResponse struct {
	Status string `json:"status"`
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, healthResponse{Status: "ok"})
	}
}

// Ready reports readiness by probing the database and cache.
func Ready(db pkgdb.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, healthResponse{Status: "ok"})
	}
}
