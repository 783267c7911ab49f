package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/api"
	"github.com/tgaplan/estimator/internal/pkg/config"
	"github.com/tgaplan/estimator/internal/pkg/constants"
	"github.com/tgaplan/estimator/internal/pkg/logger"
	"github.com/tgaplan/estimator/internal/pkg/store"
	"github.com/tgaplan/estimator/internal/pkg/store/xpgx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Init(); err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Init(os.Getenv("DEBUG") != "")

	var st store.Store
	if dsn := viper.GetString(constants.ViperKeyDatabaseDSN); dsn != "" {
		pool, err := xpgx.NewPool(ctx, dsn)
		if err != nil {
			logger.Fatal(ctx, err)
		}
		defer pool.Close()

		st = store.NewStore(pool)
	} else {
		logger.Infof(ctx, "no database dsn configured, running without persistence")
	}

	apiService, err := api.NewAPIService(st)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go apiService.Serve(viper.GetString(constants.ViperKeyListenAddr))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = apiService.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}
