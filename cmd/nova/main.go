// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/novachain/nova/co"
	"github.com/novachain/nova/genesis"
	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/log"
	"github.com/novachain/nova/metrics"
	"github.com/novachain/nova/nova"
)

var (
	version   string
	gitCommit string
	release   = "dev"

	logger = log.WithContext("pkg", "main")
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-commit%s", release, version, gitCommit)
	app.Name = "nova"
	app.Usage = "Nova dev chain for test & dev"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "data-dir",
			Usage: "directory for chain databases, in-memory when empty",
		},
		cli.Uint64Flag{
			Name:  "block-interval",
			Value: nova.BlockInterval,
			Usage: "seconds between two consecutive blocks",
		},
		cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "metrics service listening address, disabled when empty",
		},
		cli.IntFlag{
			Name:  "verbosity",
			Value: int(log.LevelInfo),
			Usage: "log verbosity (-8 to 8)",
		},
	}
	app.Action = run
	return app
}

func run(ctx *cli.Context) error {
	log.SetDefault(log.NewTerminalLogger(log.Level(ctx.Int("verbosity"))))

	db, err := openStore(ctx.String("data-dir"))
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSolo(db, genesis.NewDevnet(), time.Duration(ctx.Uint64("block-interval"))*time.Second)
	if err != nil {
		return errors.Wrap(err, "prepare dev chain")
	}

	var goes co.Goes
	defer goes.Wait()

	done := make(chan struct{})
	if addr := ctx.String("metrics-addr"); addr != "" {
		metrics.InitializePrometheusMetrics()
		srv := &http.Server{Addr: addr, Handler: metrics.HTTPHandler()}
		defer srv.Close()
		goes.Go(func() {
			logger.Info("metrics service started", "addr", addr)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				logger.Warn("metrics service stopped", "err", err)
			}
		})
	}

	goes.Go(func() { s.loop(done) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	<-quit
	logger.Info("got interrupt, cleaning services......")
	close(done)
	return nil
}

func openStore(dataDir string) (kv.Store, error) {
	if dataDir == "" {
		logger.Info("using in-memory store, state will be lost on exit")
		return kv.NewMem(), nil
	}
	path := filepath.Join(dataDir, "main.db")
	db, err := kv.New(path, kv.Options{CacheSize: 128})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %q", path)
	}
	return db, nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
