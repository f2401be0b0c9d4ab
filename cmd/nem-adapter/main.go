// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	api "github.com/optakt/nem-adapter/api/nem"
	"github.com/optakt/nem-adapter/codec/zbor"
	"github.com/optakt/nem-adapter/models/nem"
	"github.com/optakt/nem-adapter/nem/broadcaster"
	"github.com/optakt/nem-adapter/nem/builder"
	"github.com/optakt/nem-adapter/nem/catalog"
	"github.com/optakt/nem-adapter/nem/registry"
	"github.com/optakt/nem-adapter/nem/resolver"
	"github.com/optakt/nem-adapter/nem/sweeper"
	"github.com/optakt/nem-adapter/service/index"
	"github.com/optakt/nem-adapter/service/metrics"
	"github.com/optakt/nem-adapter/service/nodes"
	"github.com/optakt/nem-adapter/service/storage"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagConfirmations uint64
		flagData          string
		flagExpiry        uint
		flagExplorer      string
		flagLevel         string
		flagMetrics       string
		flagNetwork       string
		flagNode          string
		flagPort          uint16
		flagSweep         time.Duration
	)

	pflag.Uint64VarP(&flagConfirmations, "confirmations", "c", 6, "number of blocks before a transaction is final")
	pflag.StringVarP(&flagData, "data", "d", "data", "database directory for the operation index")
	pflag.UintVarP(&flagExpiry, "expiry", "e", 120, "transaction deadline in minutes")
	pflag.StringVarP(&flagExplorer, "explorer", "x", "", "explorer URL template with a %s placeholder for the address")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", ":9090", "address to serve metrics on")
	pflag.StringVarP(&flagNetwork, "network", "w", "mainnet", "NEM network identifier")
	pflag.StringVarP(&flagNode, "node", "n", "http://localhost:7890", "host URL of the NIS node")
	pflag.Uint16VarP(&flagPort, "port", "p", 5000, "port to serve the adapter API on")
	pflag.DurationVarP(&flagSweep, "sweep", "s", time.Minute, "interval between deadline sweeps")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	params := nem.Params{
		Network:       flagNetwork,
		NativeAsset:   nem.XEM,
		Confirmations: flagConfirmations,
		ExpiryWindow:  time.Duration(flagExpiry) * time.Minute,
		ExplorerURL:   flagExplorer,
	}

	// Open the operation database and initialize the index.
	db, err := badger.Open(nem.DefaultOptions(flagData))
	if err != nil {
		log.Error().Str("data", flagData).Err(err).Msg("could not open operation database")
		return failure
	}
	defer db.Close()

	codec := zbor.NewCodec()
	lib := storage.New(codec)
	read := index.NewReader(db, lib)
	write := index.NewMetricsWriter(index.NewWriter(db, lib))

	// Component initialization.
	ledger := nodes.NewClient(log, flagNode)
	assets, err := catalog.New(read, write)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize asset catalog")
		return failure
	}
	build := builder.New(params, assets, ledger, read, write)
	broadcast := broadcaster.New(log, params, ledger, read, write)
	resolve := resolver.New(params, ledger, assets, read, write)
	observe := registry.New(read, write)
	sweep := sweeper.New(log, resolve, read, write, flagSweep)

	ctrl := api.NewAPI(params, ledger, build, broadcast, resolve, observe, assets, read, write)

	elog := lecho.From(log)
	svr := echo.New()
	svr.HideBanner = true
	svr.HidePort = true
	svr.Logger = elog
	svr.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	svr.Validator = api.NewValidator()

	svr.GET("/api/addresses/:address/validity", ctrl.Validity)
	svr.GET("/api/addresses/:address/explorer-url", ctrl.ExplorerURL)
	svr.GET("/api/assets", ctrl.Assets)
	svr.GET("/api/assets/:assetId", ctrl.Asset)
	svr.POST("/api/assets", ctrl.UpsertAsset)
	svr.GET("/api/balances", ctrl.Balances)
	svr.POST("/api/balances/:address/observation", ctrl.Observe)
	svr.DELETE("/api/balances/:address/observation", ctrl.Unobserve)
	svr.POST("/api/transactions/single", ctrl.BuildSingle)
	svr.POST("/api/transactions/many-inputs", ctrl.BuildManyInputs)
	svr.POST("/api/transactions/many-outputs", ctrl.BuildManyOutputs)
	svr.PUT("/api/transactions", ctrl.Rebuild)
	svr.POST("/api/transactions/broadcast", ctrl.Broadcast)
	svr.GET("/api/transactions/broadcast/single/:operationId", ctrl.OperationStatus)
	svr.DELETE("/api/transactions/broadcast/:operationId", ctrl.DeleteOperation)
	svr.GET("/api/capabilities", ctrl.Capabilities)
	svr.GET("/api/constants", ctrl.Constants)
	svr.GET("/api/isalive", ctrl.IsAlive)

	msvr := metrics.NewServer(log, flagMetrics)

	// This section launches the main executing components in their own
	// goroutine, so they can run concurrently. Afterwards, we wait for an
	// interrupt signal in order to proceed with the next section.
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go func() {
		log.Info().Msg("NEM adapter starting")
		err := svr.Start(fmt.Sprintf(":%d", flagPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("adapter API encountered error")
		}
		log.Info().Msg("NEM adapter stopped")
	}()
	go func() {
		log.Info().Msg("metrics server starting")
		err := msvr.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server encountered error")
		}
		log.Info().Msg("metrics server stopped")
	}()
	go func() {
		repaired, err := sweep.Reconcile(sweepCtx)
		if err != nil {
			log.Error().Err(err).Msg("deadline reconciliation encountered error")
		}
		if repaired > 0 {
			log.Info().Int("repaired", repaired).Msg("deadline index reconciled")
		}
		err = sweep.Run(sweepCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("deadline sweeper encountered error")
		}
	}()

	<-sig
	log.Info().Msg("NEM adapter stopping")
	go func() {
		<-sig
		log.Warn().Msg("forcing exit")
		os.Exit(1)
	}()

	// The following code starts a shut down with a certain timeout and makes
	// sure that the main executing components are shutting down within the
	// allocated shutdown time. Otherwise, we will force the shutdown and log
	// an error. We then wait for shutdown on each component to complete.
	sweepCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = svr.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not shut down adapter API")
	}

	return success
}
