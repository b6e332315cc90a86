// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		EnvVar: "ATMOS_DATA_DIR",
		Usage:  "directory for the ledger database",
	}
	configFlag = cli.StringFlag{
		Name:   "config",
		EnvVar: "ATMOS_CONFIG",
		Usage:  "path to a YAML file with the contract settings and the tokens to configure at startup",
	}
	contractFlag = cli.StringFlag{
		Name:   "contract",
		EnvVar: "ATMOS_CONTRACT",
		Usage:  "account name of the staking contract (overrides the config file)",
	}
	cacheFlag = cli.Uint64Flag{
		Name:   "cache",
		Value:  256,
		EnvVar: "ATMOS_CACHE",
		Usage:  "megabytes of ram allocated to the database cache",
	}

	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8680",
		EnvVar: "ATMOS_API_ADDR",
		Usage:  "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		EnvVar: "ATMOS_API_CORS",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		EnvVar: "ATMOS_API_TIMEOUT",
		Usage:  "API request timeout value in milliseconds",
	}
	apiPageLimitFlag = cli.Uint64Flag{
		Name:   "api-page-limit",
		Value:  1000,
		EnvVar: "ATMOS_API_PAGE_LIMIT",
		Usage:  "limit the number of items returned by list APIs",
	}
	apiSubmitFlag = cli.BoolFlag{
		Name:   "api-enable-submit",
		EnvVar: "ATMOS_API_ENABLE_SUBMIT",
		Usage:  "enable POST /actions, the actor of a submitted action is trusted so only expose it to the host",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		EnvVar: "ATMOS_ENABLE_API_LOGS",
		Usage:  "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Value:  0,
		EnvVar: "ATMOS_API_SLOW_QUERIES_THRESHOLD",
		Usage:  "all queries with duration longer than this threshold (ms) will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:   "api-log-5xx-errors",
		EnvVar: "ATMOS_API_LOG_5XX_ERRORS",
		Usage:  "log all requests that responded with a 5xx status",
	}
	pprofFlag = cli.BoolFlag{
		Name:   "pprof",
		EnvVar: "ATMOS_PPROF",
		Usage:  "turn on go-pprof",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		EnvVar: "ATMOS_ENABLE_METRICS",
		Usage:  "enables metrics collection, served at /metrics of the API",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		EnvVar: "ATMOS_ENABLE_ADMIN",
		Usage:  "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Value:  "localhost:2113",
		EnvVar: "ATMOS_ADMIN_ADDR",
		Usage:  "admin service listening address",
	}

	relayURLFlag = cli.StringFlag{
		Name:   "relay-url",
		EnvVar: "ATMOS_RELAY_URL",
		Usage:  "URL of the token service endpoint that pending transfers are posted to (relay disabled if empty)",
	}
	relayBatchFlag = cli.Uint64Flag{
		Name:   "relay-batch",
		Value:  100,
		EnvVar: "ATMOS_RELAY_BATCH",
		Usage:  "maximum number of transfers posted in one request",
	}
	relayIntervalFlag = cli.Uint64Flag{
		Name:   "relay-interval",
		Value:  10,
		EnvVar: "ATMOS_RELAY_INTERVAL",
		Usage:  "seconds between retries of the relay",
	}
	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		Value:  "pool.ntp.org",
		EnvVar: "ATMOS_NTP_SERVER",
		Usage:  "NTP server used to check the local clock at startup (check skipped if empty)",
	}

	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  legacyLevelInfo,
		EnvVar: "ATMOS_VERBOSITY",
		Usage:  "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		EnvVar: "ATMOS_JSON_LOGS",
		Usage:  "output logs in JSON format",
	}

	// key tooling flags
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "path of the key file",
	}
	namespaceFlag = cli.StringFlag{
		Name:  "namespace",
		Usage: "prefix of the withdrawal message (defaults to the contract name)",
	}
	positionIDFlag = cli.Uint64Flag{
		Name:  "id",
		Usage: "id of the position to withdraw",
	}
	symbolFlag = cli.StringFlag{
		Name:  "symbol",
		Usage: "symbol of the position token, e.g. 4,ATMOS",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "account receiving the withdrawal",
	}
	memoFlag = cli.StringFlag{
		Name:  "memo",
		Usage: "memo of the withdrawal transfer",
	}
)
