// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/events"
	"github.com/vechain/stakepool/api/pools"
	"github.com/vechain/stakepool/api/tokens"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/types"
)

var logger = log.WithContext("pkg", "api")

const genesisIDHeader = "x-genesis-id"

type Options struct {
	AllowedOrigins  []string
	EnableReqLogger bool
	EnableMetrics   bool
	EventsLimit     uint64
	Dev             bool
}

type Status struct {
	GenesisID types.Bytes32 `json:"genesisId"`
	Seq       uint64        `json:"seq"`
	Time      uint64        `json:"time"`
}

// New return api router
func New(n *node.Node, gene *genesis.Genesis, opts Options) http.Handler {
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			origins = append(origins, o)
		}
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(genesisIDHeader, gene.ID().String())
			next.ServeHTTP(w, r)
		})
	})
	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	router.Path("/status").Methods(http.MethodGet).HandlerFunc(
		utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, &Status{
				GenesisID: gene.ID(),
				Seq:       n.Seq(),
				Time:      n.Now(),
			})
		}))

	pools.New(n, gene.Pools()).
		Mount(router, "/pools")
	tokens.New(n, gene.Tokens(), opts.Dev).
		Mount(router, "/tokens")
	if db := n.EventDB(); db != nil {
		events.New(db, opts.EventsLimit).
			Mount(router, "/events")
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.ExposedHeaders([]string{genesisIDHeader, utils.RevertReasonHeader}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler
}
