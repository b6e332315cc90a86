// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/atmos/api/utils/fpath"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/co"
	"github.com/vechain/atmos/log"
	"github.com/vechain/atmos/lvldb"
	"github.com/vechain/atmos/runtime"
)

const (
	legacyLevelInfo = 3

	maxClockOffset = 5 * time.Second
)

func fatal(args ...any) {
	var w io.Writer
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	} else {
		w = io.MultiWriter(os.Stdout, os.Stderr)
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := ctx.Uint64(verbosityFlag.Name)
	if lvl > math.MaxInt {
		lvl = math.MaxInt
	}
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(lvl)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func defaultDataDir() string {
	if home, err := fpath.HomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".atmos")
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func openMainDB(ctx *cli.Context, dataDir string) *lvldb.LevelDB {
	cacheMB := normalizeCacheSize(int(min(ctx.Uint64(cacheFlag.Name), math.MaxInt32)))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
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
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func mustLoadConfig(ctx *cli.Context) *Config {
	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		fatal(err)
	}
	if ctx.IsSet(contractFlag.Name) {
		cfg.Contract = ctx.String(contractFlag.Name)
	}
	return cfg
}

func newRuntime(cfg *Config, db *lvldb.LevelDB) (*runtime.Runtime, error) {
	self, err := cfg.self()
	if err != nil {
		return nil, err
	}
	contract, err := cfg.newContract()
	if err != nil {
		return nil, err
	}
	return runtime.New(db, self, contract, nil, runtime.NewSystemClock()), nil
}

// configureTokens applies the token entries of the config file, creating new
// tokens and updating the parameters of existing ones.
func configureTokens(ctx context.Context, rt *runtime.Runtime, cfg *Config) error {
	list, err := cfg.tokenParams()
	if err != nil {
		return err
	}
	for _, p := range list {
		args, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := rt.Execute(ctx, &runtime.Action{
			Name:  builtin.ActionConfigure,
			Actor: rt.Self(),
			Args:  args,
		}); err != nil {
			return errors.WithMessagef(err, "configure %v", p.Symbol)
		}
	}
	return nil
}

func checkClockOffset(server string) {
	if server == "" {
		return
	}
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", resp.ClockOffset)
	}
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit limits the body size of POST requests to the size of the largest action.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 2*runtime.MaxArgsSize)
		h.ServeHTTP(w, r)
	})
}

func listen(addr, name string) net.Listener {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen %v addr [%v]: %v", name, addr, err))
	}
	return listener
}

// serve runs an http server on listener until ctx is done.
func serve(ctx context.Context, name string, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var (
		goes     co.Goes
		serveErr error
	)
	goes.Go(func() {
		serveErr = srv.Serve(listener)
	})

	select {
	case <-ctx.Done():
		logger.Info(fmt.Sprintf("stopping %v server...", name))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
		goes.Wait()
		return nil
	case <-goes.Done():
		return errors.Wrapf(serveErr, "%v server", name)
	}
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

func printStartupMessage(rt *runtime.Runtime, cfg *Config, dataDir, apiURL, adminURL, relayURL string) {
	orNone := func(s string) string {
		if s == "" {
			return "disabled"
		}
		return s
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = string(rt.Self())
	}
	fmt.Printf(`Starting Atmos %v
    Contract     [ %v ]
    Namespace    [ %v ]
    Weight       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Admin        [ %v ]
    Relay        [ %v ]
`,
		fullVersion(),
		rt.Self(),
		namespace,
		func() string {
			if cfg.Weight == "" {
				return "linear"
			}
			return cfg.Weight
		}(),
		dataDir,
		apiURL,
		orNone(adminURL),
		orNone(relayURL))
}
