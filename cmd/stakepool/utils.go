// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/config"
	"github.com/vechain/stakepool/eventdb"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/metrics"
)

const shutdownTimeout = 5 * time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	return log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))
}

// loadConfig loads the config file and applies the flags explicitly set.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.CORS = splitCORS(ctx.String(apiCorsFlag.Name))
	}
	if ctx.Bool(enableAPILogsFlag.Name) {
		cfg.API.RequestLogs = true
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		cfg.Metrics.Enabled = true
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
	return cfg, nil
}

func splitCORS(value string) []string {
	var origins []string
	for _, o := range strings.Split(value, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type databases struct {
	main        *lvldb.LevelDB
	events      *eventdb.EventDB
	instanceDir string
}

// openDatabases opens the state and event databases, on disk under an
// instance dir named by the genesis id, or in memory.
func openDatabases(persist bool, dataDir string, gene *genesis.Genesis) (*databases, error) {
	if !persist {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		eventDB, err := eventdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, err
		}
		return &databases{mainDB, eventDB, "Memory"}, nil
	}

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
		Sync:                   true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", instanceDir)
	}
	eventDB, err := eventdb.New(filepath.Join(instanceDir, "events.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrapf(err, "open event database [%v]", instanceDir)
	}
	return &databases{mainDB, eventDB, instanceDir}, nil
}

func (d *databases) Close() {
	logger.Info("closing event database...")
	if err := d.events.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

type server struct {
	name string
	srv  *http.Server
}

func newServer(name, addr string, handler http.Handler) *server {
	return &server{name, &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}}
}

func newMetricsServer(addr string) *server {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return newServer("metrics", addr, handlers.CompressHandler(router))
}

// serve runs the servers until ctx is done or one of them fails, then shuts all down.
func serve(ctx context.Context, servers ...*server) error {
	listeners := make([]net.Listener, 0, len(servers))
	for _, s := range servers {
		listener, err := net.Listen("tcp", s.srv.Addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return errors.Wrapf(err, "listen %v addr [%v]", s.name, s.srv.Addr)
		}
		listeners = append(listeners, listener)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range servers {
		s := s
		listener := listeners[i]
		logger.Info(s.name+" server started", "url", "http://"+listener.Addr().String())

		g.Go(func() error {
			if err := s.srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "%v server", s.name)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("stopping " + s.name + " server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
