// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/atmos/api"
	"github.com/vechain/atmos/api/actions"
	"github.com/vechain/atmos/api/admin"
	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin"
	"github.com/vechain/atmos/cry"
	"github.com/vechain/atmos/log"
	"github.com/vechain/atmos/metrics"
	"github.com/vechain/atmos/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "atmos")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	storeFlags := []cli.Flag{
		dataDirFlag,
		configFlag,
		contractFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Atmos"
	app.Usage = "Multi-token staking ledger and reward distributor"
	app.Copyright = "2018 VeChain Foundation <https://vechain.org/>"
	app.Flags = append([]cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		apiPageLimitFlag,
		apiSubmitFlag,
		enableAPILogsFlag,
		apiSlowQueriesThresholdFlag,
		apiLog5xxErrorsFlag,
		pprofFlag,
		enableMetricsFlag,
		enableAdminFlag,
		adminAddrFlag,
		relayURLFlag,
		relayBatchFlag,
		relayIntervalFlag,
		ntpServerFlag,
	}, storeFlags...)
	app.Action = serveAction
	app.Commands = []cli.Command{
		{
			Name:      "action",
			Usage:     "execute one action and print its result",
			ArgsUsage: "<name> <actor> [json-args]",
			Flags:     storeFlags,
			Action:    actionAction,
		},
		{
			Name:   "sanity",
			Usage:  "check the aggregates of every token",
			Flags:  storeFlags,
			Action: sanityAction,
		},
		{
			Name:   "keygen",
			Usage:  "generate a depositor key",
			Flags:  []cli.Flag{keyFileFlag},
			Action: keygenAction,
		},
		{
			Name:  "sign-withdraw",
			Usage: "sign the withdrawal message of a position",
			Flags: []cli.Flag{
				keyFileFlag,
				contractFlag,
				namespaceFlag,
				positionIDFlag,
				symbolFlag,
				toFlag,
				memoFlag,
			},
			Action: signWithdrawAction,
		},
	}
	return app
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	exitCtx := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg := mustLoadConfig(ctx)
	dataDir := makeDataDir(ctx)

	mainDB := openMainDB(ctx, dataDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	rt, err := newRuntime(cfg, mainDB)
	if err != nil {
		return err
	}
	if err := configureTokens(exitCtx, rt, cfg); err != nil {
		return err
	}
	checkClockOffset(ctx.String(ntpServerFlag.Name))

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	var handler http.Handler = api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PageLimit:            ctx.Uint64(apiPageLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SubmitOn:             ctx.Bool(apiSubmitFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)

	group, groupCtx := errgroup.WithContext(exitCtx)

	apiListener := listen(ctx.String(apiAddrFlag.Name), "API")
	apiURL := "http://" + apiListener.Addr().String() + "/"
	group.Go(func() error {
		return serve(groupCtx, "API", apiListener, handler)
	})

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		adminListener := listen(ctx.String(adminAddrFlag.Name), "admin")
		adminURL = "http://" + adminListener.Addr().String() + "/admin"
		adminHandler := admin.New(logLevel, apiLogs, rt.TransferDB(), ctx.Uint64(apiPageLimitFlag.Name))
		group.Go(func() error {
			return serve(groupCtx, "admin", adminListener, adminHandler)
		})
	}

	relayURL := ctx.String(relayURLFlag.Name)
	if relayURL != "" {
		r := newRelay(
			rt.TransferDB(),
			relayURL,
			ctx.Uint64(relayBatchFlag.Name),
			time.Duration(max(ctx.Uint64(relayIntervalFlag.Name), 1))*time.Second,
		)
		committed := rt.NewCommitWaiter()
		group.Go(func() error {
			r.run(groupCtx, committed)
			return nil
		})
	}

	printStartupMessage(rt, cfg, dataDir, apiURL, adminURL, relayURL)

	return group.Wait()
}

// openStore opens the database and the runtime of the one-shot commands.
func openStore(ctx *cli.Context) (*runtime.Runtime, func(), error) {
	initLogger(ctx)
	cfg := mustLoadConfig(ctx)
	db := openMainDB(ctx, makeDataDir(ctx))

	rt, err := newRuntime(cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return rt, func() { db.Close() }, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func actionAction(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: atmos action <name> <actor> [json-args]")
	}
	actor, err := atmos.ParseName(args[1])
	if err != nil {
		return errors.WithMessage(err, "actor")
	}
	action := &runtime.Action{Name: args[0], Actor: actor}
	if len(args) == 3 {
		action.Args = json.RawMessage(args[2])
	}

	rt, closeDB, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	out, err := rt.Execute(context.Background(), action)
	if err != nil {
		return err
	}
	return printJSON(actions.NewResult(out))
}

func sanityAction(ctx *cli.Context) error {
	rt, closeDB, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	out, err := rt.Execute(context.Background(), &runtime.Action{
		Name:  builtin.ActionSanity,
		Actor: rt.Self(),
	})
	if err != nil {
		return err
	}
	return printJSON(out.Value)
}

func keygenAction(ctx *cli.Context) error {
	priv, err := cry.GenerateKey()
	if err != nil {
		return err
	}
	k := newKeyFile(priv)
	if path := ctx.String(keyFileFlag.Name); path != "" {
		if err := saveKeyFile(path, k); err != nil {
			return err
		}
		return printJSON(map[string]any{"id": k.ID, "publicKey": k.PublicKey, "file": path})
	}
	return printJSON(k)
}

func signWithdrawAction(ctx *cli.Context) error {
	if !ctx.IsSet(positionIDFlag.Name) {
		return errors.Errorf("-%v is required", positionIDFlag.Name)
	}
	symbol, err := atmos.ParseSymbol(ctx.String(symbolFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "symbol")
	}
	to, err := atmos.ParseName(ctx.String(toFlag.Name))
	if err != nil {
		return errors.WithMessage(err, "to")
	}
	namespace := ctx.String(namespaceFlag.Name)
	if namespace == "" {
		namespace = ctx.String(contractFlag.Name)
	}
	if namespace == "" {
		namespace = defaultContract
	}

	priv, err := loadSigningKey(ctx.String(keyFileFlag.Name))
	if err != nil {
		return err
	}
	id := ctx.Uint64(positionIDFlag.Name)
	memo := ctx.String(memoFlag.Name)
	sig := signWithdraw(priv, namespace, id, to, memo)

	return printJSON(&builtin.WithdrawArgs{
		ID:        id,
		Symbol:    symbol,
		To:        to,
		Memo:      memo,
		Signature: sig,
	})
}
