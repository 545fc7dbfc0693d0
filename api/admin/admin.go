// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

func getLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, &logLevelResponse{
			CurrentLevel: logLevel.Level().String(),
		})
	}
}

func postLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body logLevelRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		level, ok := log.ParseLevel(body.Level)
		if !ok {
			return utils.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
		}
		logLevel.Set(level)

		return utils.WriteJSON(w, &logLevelResponse{
			CurrentLevel: logLevel.Level().String(),
		})
	}
}

func healthHandler(h *health.Health) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		status := h.Status()
		if !status.Healthy {
			w.Header().Set("Content-Type", utils.JSONContentType)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		return utils.WriteJSON(w, status)
	}
}

// HTTPHandler serves the admin endpoints under /admin.
func HTTPHandler(logLevel *slog.LevelVar, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(getLogLevelHandler(logLevel)))
	sub.Path("/loglevel").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(postLogLevelHandler(logLevel)))
	sub.Path("/health").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(healthHandler(h)))

	return handlers.CompressHandler(router)
}
