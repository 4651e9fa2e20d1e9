package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketfront/internal/config"
	"marketfront/internal/db"
	"marketfront/internal/httpserver"
	cartitemrepo "marketfront/internal/repository/cartitem"
	catalogrepo "marketfront/internal/repository/catalog"
	orderrepo "marketfront/internal/repository/order"
	tokenrepo "marketfront/internal/repository/token"
	userrepo "marketfront/internal/repository/user"
	authsvc "marketfront/internal/service/auth"
	cartsvc "marketfront/internal/service/cart"
	checkoutsvc "marketfront/internal/service/checkout"
	ordersvc "marketfront/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	cartItemRepo := cartitemrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	cartService := cartsvc.New(cartItemRepo, catalogRepo)
	checkoutService := checkoutsvc.New(catalogRepo, userRepo, orderRepo, cfg.CommissionBPS, logger)
	orderService := ordersvc.New(orderRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CatalogSvc:  catalogRepo,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		AddressSvc:  userRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
