package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/meverselabs/farms/cmd/closer"
	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/logger"
	"github.com/meverselabs/farms/contract/farm"
	"github.com/meverselabs/farms/contract/token"
	"github.com/meverselabs/farms/core/backend"
	_ "github.com/meverselabs/farms/core/backend/badger_driver"
	_ "github.com/meverselabs/farms/core/backend/bolt_driver"
	_ "github.com/meverselabs/farms/core/backend/buntdb_driver"
	_ "github.com/meverselabs/farms/core/backend/leveldb_driver"
	"github.com/meverselabs/farms/core/derive"
	"github.com/meverselabs/farms/core/store"
	"github.com/meverselabs/farms/service/apiserver"
)

func serveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "runs the farm ledger with the json rpc api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Verbose)

			programID, err := common.ParseAddress(cfg.ProgramID)
			if err != nil {
				return err
			}
			deriver := derive.NewDeriver(programID)
			tokenID, err := tokenAddress(cfg, deriver)
			if err != nil {
				return err
			}

			cm := closer.NewManager(log)
			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc,
				syscall.SIGHUP,
				syscall.SIGINT,
				syscall.SIGTERM,
				syscall.SIGQUIT)
			go func() {
				<-sigc
				cm.CloseAll()
			}()
			defer cm.CloseAll()

			back, err := backend.Create(cfg.StoreDriver, cfg.StoreRoot)
			if err != nil {
				return err
			}
			st := store.NewStore(back, cfg.CacheSize, clockwork.NewRealClock(), log)
			cm.Add("store", st)

			tok := token.NewTokenContract(tokenID, deriver)
			proc := farm.NewProcessor(st, farm.NewFarmContract(deriver, tok, log), log)

			rpcapi := apiserver.NewAPIServer(cfg.RPCWorkers, log)
			if err := apiserver.RegisterFarm(rpcapi, proc); err != nil {
				return err
			}
			if err := apiserver.RegisterToken(rpcapi, st, tok, cfg.AllowMint); err != nil {
				return err
			}
			cm.Add("apiserver", closer.CloserFunc(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := rpcapi.Close(ctx); err != nil {
					log.Warn("api server close", "err", err)
				}
			}))

			log.Info("farmd started",
				"program", programID.String(),
				"token", tokenID.String(),
				"driver", cfg.StoreDriver,
				"root", cfg.StoreRoot,
			)
			errCh := make(chan error, 1)
			go func() {
				errCh <- rpcapi.Run(cfg.RPCAddress)
			}()

			done := make(chan struct{})
			go func() {
				cm.Wait()
				close(done)
			}()
			select {
			case err := <-errCh:
				return err
			case <-done:
				return nil
			}
		},
	}
}
