// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vestradao/vdao/api"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/genesis"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	storeFlags := []cli.Flag{dataDirFlag, networkFlag, genesisFlag, cacheFlag, verbosityFlag, jsonLogsFlag}
	queryFlags := withFlags([]cli.Flag{timeFlag}, storeFlags...)

	app := cli.App{
		Version:   fullVersion(),
		Name:      "vdao",
		Usage:     "Token vesting, staking and governance engine",
		Copyright: "2025 Vestra DAO",
		Flags: withFlags(queryFlags,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			pprofFlag,
			skipLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpCheckFlag,
		),
		Action: serveAction,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "apply the genesis deployment to a new data dir",
				Flags:  storeFlags,
				Action: initAction,
			},
			{
				Name:   "phase",
				Usage:  "print the governance epoch phase",
				Flags:  queryFlags,
				Action: phaseAction,
			},
			{
				Name:   "balance",
				Usage:  "print the token balance of an account",
				Flags:  withFlags(queryFlags, accountFlag),
				Action: balanceAction,
			},
			{
				Name:   "claimable",
				Usage:  "print the vested amount an account can claim",
				Flags:  withFlags(queryFlags, accountFlag, categoryFlag),
				Action: claimableAction,
			},
			{
				Name:   "allocate",
				Usage:  "grant vesting allocations from a file as the operator",
				Flags:  withFlags(queryFlags, fileFlag),
				Action: allocateAction,
			},
			{
				Name:  "genesis",
				Usage: "inspect genesis configurations",
				Subcommands: []cli.Command{
					{
						Name:   "dump",
						Usage:  "print the selected genesis as YAML",
						Flags:  []cli.Flag{dataDirFlag, genesisFlag},
						Action: genesisDumpAction,
					},
					{
						Name:   "diff",
						Usage:  "compare --genesis with the genesis stored in the data dir",
						Flags:  []cli.Flag{dataDirFlag, genesisFlag},
						Action: genesisDiffAction,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

// withFlags returns a new slice so commands never share a backing array.
func withFlags(base []cli.Flag, extra ...cli.Flag) []cli.Flag {
	out := make([]cli.Flag, 0, len(base)+len(extra))
	return append(append(out, base...), extra...)
}

func initAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	cfg, err := selectGenesis(ctx, "")
	if err != nil {
		return err
	}
	s, err := openStores(ctx, dataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	network := ctx.String(networkFlag.Name)
	ok, err := deployed(s.events, network)
	if err != nil {
		return err
	}
	if ok {
		return errors.Errorf("network %q is already deployed in [%v]", network, dataDir)
	}

	eng := engine.New(s.state, s.events, engine.NewFixedClock(cfg.DeployTime))
	res, err := genesis.Build(context.Background(), eng, cfg, network)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dataDir, genesisFileName), data, 0o600); err != nil {
		return errors.Wrap(err, "store genesis")
	}

	for _, c := range res.Contracts {
		fmt.Printf("%-12s %v\n", c.Name, c.Address)
	}
	logger.Info("genesis applied", "network", network, "dir", dataDir, "gas", res.TotalGas())
	return nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	eng, _, s, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	handler, closeSubs := api.New(eng, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()
	logger.Info("API server started", "url", apiURL)

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		logger.Info("admin server started", "url", url)
	}

	exitCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(exitCtx)
	if ctx.Bool(ntpCheckFlag.Name) {
		g.Go(func() error {
			checkClockOffset()
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("exit signal received")
		return nil
	})
	return g.Wait()
}

func phaseAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	eng, _, s, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	now := eng.Now()
	index, phase, err := eng.Phase(now)
	if err != nil {
		return err
	}
	fmt.Printf("time %d election %d phase %v\n", now, index, phase)
	return nil
}

func balanceAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	account, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	eng, _, s, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	bal, err := eng.Balance(account)
	if err != nil {
		return err
	}
	fmt.Println(formatAmount(bal))
	return nil
}

func claimableAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	account, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	eng, _, s, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	rows, err := claimableRows(eng, account, ctx.Uint64(categoryFlag.Name), eng.Now())
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Println(r)
	}
	return nil
}
