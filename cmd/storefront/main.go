package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	cartmysql "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	checkoutapp "github.com/wyfcoding/storefront/internal/checkout/application"
	checkoutdomain "github.com/wyfcoding/storefront/internal/checkout/domain"
	checkoutmysql "github.com/wyfcoding/storefront/internal/checkout/infrastructure/persistence/mysql"
	checkouthttp "github.com/wyfcoding/storefront/internal/checkout/interfaces/http"
	pricingapp "github.com/wyfcoding/storefront/internal/pricing/application"
	pricingdomain "github.com/wyfcoding/storefront/internal/pricing/domain"
	pricingmysql "github.com/wyfcoding/storefront/internal/pricing/infrastructure/persistence/mysql"
	pricinghttp "github.com/wyfcoding/storefront/internal/pricing/interfaces/http"
	wishlistapp "github.com/wyfcoding/storefront/internal/wishlist/application"
	wishlistdomain "github.com/wyfcoding/storefront/internal/wishlist/domain"
	wishlistmysql "github.com/wyfcoding/storefront/internal/wishlist/infrastructure/persistence/mysql"
	wishlistredis "github.com/wyfcoding/storefront/internal/wishlist/infrastructure/persistence/redis"
	wishlisthttp "github.com/wyfcoding/storefront/internal/wishlist/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/mq/outbox"
)

var configPath = flag.String("config", "configs/storefront/config.toml", "config file path")

func main() {
	flag.Parse()
	ctx := context.Background()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 3. 指标
	m := metrics.New(cfg.ServiceName)

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&cartdomain.Cart{},
			&cartdomain.CartItem{},
			&wishlistdomain.WishlistEntry{},
			&pricingdomain.Coupon{},
			&checkoutdomain.Order{},
			&checkoutdomain.OrderItem{},
			&outbox.Message{},
		); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
		SessionTimeout: cfg.Kafka.SessionTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	outboxMgr := outbox.NewManager(database.DB)
	outboxProcessor := outbox.NewProcessor(outboxMgr, producer.SendRaw, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", "error", err)
	}
	defer redisCache.Close()

	// 7. 仓储
	cartRepo := cartmysql.NewCartRepository(database.DB)
	couponRepo := pricingmysql.NewCouponRepository(database.DB)
	wishlistRepo := wishlistmysql.NewWishlistRepository(database.DB)
	membershipCache := wishlistredis.NewMembershipCache(redisCache)
	orderRepo := checkoutmysql.NewOrderRepository(database.DB)

	// 8. 应用服务
	cartSvc := cartapp.NewCartApplicationService(cartRepo, outboxMgr)
	pricingSvc := pricingapp.NewPricingService(couponRepo, cfg.Pricing.TaxRate, cfg.Pricing.Currency)
	wishlistSvc := wishlistapp.NewWishlistService(wishlistRepo, membershipCache, outboxMgr)
	checkoutSvc := checkoutapp.NewCheckoutApplicationService(orderRepo, cartSvc, pricingSvc, outboxMgr)

	// 9. 接口层
	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	r.Use(m.GinMiddleware())

	api := r.Group("/api")
	sessionRoutes := api.Group("", middleware.OptionalAuth(cfg.Auth.JWTSecret))
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(sessionRoutes)
	pricinghttp.NewPricingHandler(pricingSvc, cartSvc, m).RegisterRoutes(sessionRoutes)
	checkouthttp.NewCheckoutHandler(checkoutSvc, m).RegisterRoutes(sessionRoutes)

	authRoutes := api.Group("", middleware.RequireAuth(cfg.Auth.JWTSecret))
	wishlisthttp.NewWishlistHandler(wishlistSvc, m).RegisterRoutes(authRoutes)

	// 10. 启动
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		g.Go(func() error {
			logger.Info(ctx, "Metrics server starting", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down servers...")
		case <-ctx.Done():
			logger.Info(ctx, "context cancelled, shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "failed to shutdown HTTP server", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "failed to shutdown metrics server", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
