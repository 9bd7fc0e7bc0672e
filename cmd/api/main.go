package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"reshambazaar/internal/cache"
	"reshambazaar/internal/config"
	"reshambazaar/internal/db"
	"reshambazaar/internal/httpserver"
	"reshambazaar/internal/mailer"
	cartrepo "reshambazaar/internal/repository/cart"
	couponrepo "reshambazaar/internal/repository/coupon"
	orderrepo "reshambazaar/internal/repository/order"
	productrepo "reshambazaar/internal/repository/product"
	tokenrepo "reshambazaar/internal/repository/token"
	userrepo "reshambazaar/internal/repository/user"
	cartsvc "reshambazaar/internal/service/cart"
	checkoutsvc "reshambazaar/internal/service/checkout"
	couponsvc "reshambazaar/internal/service/coupon"
	ordersvc "reshambazaar/internal/service/order"
	productsvc "reshambazaar/internal/service/product"
	usersvc "reshambazaar/internal/service/user"
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

	var couponCache cache.Cache
	if cfg.RedisAddr != "" {
		couponCache = cache.NewRedis(cfg.RedisAddr, "coupon")
		logger.Printf("coupon cache enabled at %s", cfg.RedisAddr)
	}

	var mail mailer.Sender
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
		logger.Printf("order confirmations enabled via %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo)
	couponService := couponsvc.New(couponRepo, couponCache, logger)
	cartService := cartsvc.New(cartRepo, productRepo, couponService)
	userService := usersvc.New(userRepo, tokenRepo)
	checkoutService := checkoutsvc.New(orderRepo, couponService, userRepo, mail, logger)
	orderService := ordersvc.New(orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:     userService,
		ProductSvc:  productService,
		CartSvc:     cartService,
		CouponSvc:   couponService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
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
