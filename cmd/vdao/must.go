// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vestradao/vdao/co"
	"github.com/vestradao/vdao/engine"
	"github.com/vestradao/vdao/eventdb"
	"github.com/vestradao/vdao/genesis"
	"github.com/vestradao/vdao/log"
	"github.com/vestradao/vdao/lvldb"
	"github.com/vestradao/vdao/metrics"
)

const (
	stateDirName     = "state"
	eventsFileName   = "events.db"
	genesisFileName  = "genesis.yaml"
	maxClockOffset   = 30 * time.Second
	readHeaderTimout = time.Second
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vestradao.vdao")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vestradao.vdao")
		default:
			return filepath.Join(home, ".org.vestradao.vdao")
		}
	}
	return ""
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d, exceeds max int", val)
	}
	return int(val), nil
}

// initLogger installs the root logger and returns the level it filters at,
// so the admin server can change it at runtime.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, verbosityFlag.Name)
	}
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(verbosity))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// selectGenesis loads the --genesis file, falling back to the copy stored in
// dataDir by init and then to the built-in deployment.
func selectGenesis(ctx *cli.Context, dataDir string) (*genesis.Config, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	if dataDir != "" {
		path := filepath.Join(dataDir, genesisFileName)
		if _, err := os.Stat(path); err == nil {
			return genesis.Load(path)
		}
	}
	return genesis.Default(), nil
}

func selectClock(ctx *cli.Context) engine.Clock {
	if ctx.IsSet(timeFlag.Name) {
		return engine.NewFixedClock(ctx.Uint64(timeFlag.Name))
	}
	return engine.SystemClock{}
}

type stores struct {
	state  *lvldb.LevelDB
	events *eventdb.EventDB
}

func (s *stores) Close() {
	logger.Info("closing event database...")
	if err := s.events.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Info("closing state database...")
	if err := s.state.Close(); err != nil {
		logger.Warn("failed to close state database", "err", err)
	}
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 16
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

func openStores(ctx *cli.Context, dataDir string) (*stores, error) {
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, cacheFlag.Name)
	}
	state, err := lvldb.New(filepath.Join(dataDir, stateDirName), lvldb.Options{
		CacheSize:              normalizeCacheSize(cacheMB),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open state database")
	}
	events, err := eventdb.New(filepath.Join(dataDir, eventsFileName))
	if err != nil {
		state.Close()
		return nil, errors.Wrap(err, "open event database")
	}
	return &stores{state: state, events: events}, nil
}

// deployed reports whether a genesis has been recorded under network.
func deployed(events *eventdb.EventDB, network string) (bool, error) {
	contracts, err := events.Contracts(context.Background(), network)
	if err != nil {
		return false, err
	}
	return len(contracts) > 0, nil
}

// openEngine opens an initialized data dir.
func openEngine(ctx *cli.Context) (*engine.Engine, *genesis.Config, *stores, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := selectGenesis(ctx, dataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := openStores(ctx, dataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	network := ctx.String(networkFlag.Name)
	ok, err := deployed(s.events, network)
	if err != nil {
		s.Close()
		return nil, nil, nil, err
	}
	if !ok {
		s.Close()
		return nil, nil, nil, errors.Errorf("no deployment for network %q in [%v], run init first", network, dataDir)
	}
	return engine.New(s.state, s.events, selectClock(ctx)), cfg, s, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: readHeaderTimout}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	handler := metrics.HTTPHandler()
	if handler == nil {
		return "", nil, errors.New("metrics are not initialized")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimout}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
