// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/api/admin"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/node"
	"github.com/vechain/stakepool/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

const stateCacheSize = 4096

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakepool",
		Usage:     "Pooled staking ledger with locked deposits and escrowed rewards",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
			devFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	gene, err := genesis.New(cfg)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		metrics.Enable()
	}

	dbs, err := openDatabases(ctx.Bool(persistFlag.Name), cfg.DataDir, gene)
	if err != nil {
		return err
	}
	defer dbs.Close()

	n, err := node.New(state.NewStater(dbs.main, stateCacheSize), dbs.events, node.SystemClock(cfg.ClockOffset))
	if err != nil {
		return err
	}
	if err := gene.Setup(n); err != nil {
		return err
	}

	handler := api.New(n, gene, api.Options{
		AllowedOrigins:  cfg.API.CORS,
		EnableReqLogger: cfg.API.RequestLogs,
		EnableMetrics:   cfg.Metrics.Enabled,
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		Dev:             ctx.Bool(devFlag.Name),
	})

	servers := []*server{newServer("API", cfg.API.Addr, handler)}
	if cfg.Metrics.Enabled {
		servers = append(servers, newMetricsServer(cfg.Metrics.Addr))
	}
	if ctx.Bool(enableAdminFlag.Name) {
		servers = append(servers, newServer("admin", ctx.String(adminAddrFlag.Name), admin.HTTPHandler(logLevel, health.New(n))))
	}

	logger.Info("stakepool started",
		"genesis", gene.ID().AbbrevString(),
		"instance", dbs.instanceDir,
		"seq", n.Seq(),
		"pools", len(gene.Pools()),
		"tokens", len(gene.Tokens()),
	)
	return serve(exitSignal, servers...)
}
