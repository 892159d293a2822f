package main

import (
	"context"
	"fmt"

	"github.com/grupo7/ecommerce-api/internal/adapter/auth"
	"github.com/grupo7/ecommerce-api/internal/adapter/config"
	"github.com/grupo7/ecommerce-api/internal/adapter/crypto"
	"github.com/grupo7/ecommerce-api/internal/adapter/handler/http"
	"github.com/grupo7/ecommerce-api/internal/adapter/logger"
	"github.com/grupo7/ecommerce-api/internal/adapter/metrics"
	"github.com/grupo7/ecommerce-api/internal/adapter/storage"
	"github.com/grupo7/ecommerce-api/internal/adapter/storage/repository"
	"github.com/grupo7/ecommerce-api/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}

	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	vault, err := crypto.New(conf.Vault)
	if err != nil {
		log.Error("card vault creating error", zap.Error(err))
		return
	}

	svc, err := service.NewService(repo, tokenService, vault, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	serverMetrics := metrics.NewServerMetrics()

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	productHandler, err := http.NewProductHandler(svc, log.Named("Product handler"))
	if err != nil {
		log.Error("product handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, serverMetrics, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, serverMetrics,
		userHandler, productHandler, orderHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
