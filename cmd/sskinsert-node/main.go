// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019-2022 Bernd Fix  >Y<
//
// gnunet-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnunet-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gnunet/bootstrap"
	"gnunet/config"
	"gnunet/core"
	"gnunet/insert"
	"gnunet/rpcapi"
	"gnunet/store"

	"github.com/bfix/gospel/logger"
)

func main() {
	defer func() {
		logger.Println(logger.INFO, "[insert] Bye.")
		logger.Flush()
	}()
	logger.Println(logger.INFO, "[insert] Starting service...")

	var (
		cfgFile  string
		logLevel int
	)
	flag.StringVar(&cfgFile, "c", "gnunet-config.json", "node configuration file")
	flag.IntVar(&logLevel, "L", logger.INFO, "log level (default: INFO)")
	flag.Parse()

	if err := config.ParseConfig(cfgFile); err != nil {
		logger.Printf(logger.ERROR, "[insert] invalid configuration file: %s\n", err.Error())
		return
	}
	logger.SetLogLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := core.NewCore(ctx, config.Cfg.Node)
	if err != nil {
		logger.Printf(logger.ERROR, "[insert] core failed: %s\n", err.Error())
		return
	}
	defer c.Shutdown()
	table := core.NewPeerTable(c.PeerID())

	datastore, err := store.NewBlockStore(config.Cfg.Store)
	if err != nil {
		logger.Printf(logger.ERROR, "[insert] failed to open datastore: %s\n", err.Error())
		return
	}
	cache, err := store.NewClientCache(config.Cfg.Store)
	if err != nil {
		logger.Printf(logger.ERROR, "[insert] failed to open client cache: %s\n", err.Error())
		return
	}

	accept, search, dataInsert, fetch := config.Cfg.Insert.Timeouts()
	driver := insert.NewDriver(c, datastore, cache, accept, search, dataInsert, fetch)
	registry := insert.NewRegistry()
	policy := insert.NewHTLPolicy(config.Cfg.Insert.MaxHTL)
	executor := insert.NewExecutor(config.Cfg.Insert.ExecutorPoolSize)

	// bootstrap: resolve seed peers from DNS, if configured. Connecting
	// them is out of scope here (transport is a non-goal); this only
	// populates logs so an operator can see what seeds were found.
	if bs := config.Cfg.Bootstrap; bs != nil && len(bs.Zone) > 0 {
		seeds, err := bootstrap.DiscoverSeeds(bs.Zone, "8.8.8.8:53")
		if err != nil {
			logger.Printf(logger.WARN, "[insert] bootstrap lookup failed: %s\n", err.Error())
		}
		for _, s := range seeds {
			logger.Printf(logger.INFO, "[insert] seed peer %s @ %f\n", s.PeerID, s.Location)
		}
	}

	// start JSON-RPC admin surface, if configured.
	if rpc := config.Cfg.RPC; rpc != nil && len(rpc.Endpoint) > 0 {
		srv := rpcapi.NewServer(rpc.Endpoint, &rpcapi.Deps{
			Registry: registry,
			Table:    table,
			Driver:   driver,
			Policy:   policy,
			Executor: executor,
		})
		srv.Start(ctx)
		logger.Printf(logger.INFO, "[insert] RPC admin surface listening on %s\n", rpc.Endpoint)
	}

	// handle OS signals
	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh)

	tick := time.NewTicker(5 * time.Minute)
loop:
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGKILL, syscall.SIGINT, syscall.SIGTERM:
				logger.Printf(logger.INFO, "[insert] terminating (on signal '%s')\n", sig)
				break loop
			case syscall.SIGHUP:
				logger.Println(logger.INFO, "[insert] SIGHUP")
			default:
				logger.Println(logger.INFO, "[insert] unhandled signal: "+sig.String())
			}
		case now := <-tick.C:
			logger.Printf(logger.INFO, "[insert] heartbeat at %s, %d job(s) running\n", now, registry.Size())
		}
	}
}
