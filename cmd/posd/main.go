package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/posbridge/gateway"
	"github.com/example/posbridge/pkg/backend"
	"github.com/example/posbridge/pkg/cart"
	"github.com/example/posbridge/pkg/catalog"
	"github.com/example/posbridge/pkg/config"
	"github.com/example/posbridge/pkg/discovery"
	"github.com/example/posbridge/pkg/plan"
	"github.com/example/posbridge/pkg/realtime"
	"github.com/example/posbridge/pkg/repository"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting POS bridge",
		zap.String("name", cfg.Server.Name),
		zap.String("tenant", cfg.Backend.Tenant),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		sd = nil
	}

	baseURL := cfg.Backend.BaseURL
	if sd != nil {
		resolveCtx, resolveCancel := context.WithTimeout(ctx, 3*time.Second)
		baseURL = sd.ResolveBackend(resolveCtx, cfg.Backend.BaseURL)
		resolveCancel()

		if err := sd.Register(ctx, &discovery.ServiceInstance{
			Name: cfg.Server.Name,
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		}); err != nil {
			logger.Warn("Failed to register in etcd", zap.Error(err))
		}
	}

	// Stores
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Close(context.Background())

	db, err := repository.OpenMySQL(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to open MySQL", zap.Error(err))
	}
	journal := repository.NewOrderJournal(db)

	// Backend client
	client := backend.NewClient(baseURL, cfg.Backend.Token, cfg.Backend.Tenant, cfg.Backend.Timeout, logger)

	// Realtime notification channel
	hub := realtime.NewHub(logger)
	center := realtime.NewCenter(cfg.Backend.Tenant, redisRepo, mongoRepo, hub, logger)
	push := realtime.NewPushSource(cfg.Realtime.BrokerURL, cfg.Realtime.AppKey, cfg.Backend.Tenant, client, logger)
	poll := realtime.NewPollSource(client, cfg.Realtime.PollInterval, logger)
	manager := realtime.NewManager(push, poll, center, mongoRepo, hub,
		cfg.Realtime.ReconnectInitial, cfg.Realtime.ReconnectMax, logger)
	if cfg.Realtime.Enabled {
		manager.Start(ctx)
	}

	// Plan-limit gate
	gate := plan.NewGate(client, client, redisRepo, cfg.Backend.Tenant, cfg.Plan.RefreshInterval, logger)
	gate.Start(ctx)

	// Cart + catalog services
	carts := cart.NewService(cart.NewRedisStore(redisRepo), client, journal, cfg.Backend.Tenant, logger)
	cat := catalog.NewService(client, redisRepo, cfg.Backend.Tenant, logger)

	// Create gateway
	gw := gateway.NewGateway(cfg, logger, carts, center, manager, gate, cat, journal, hub)
	gw.SetupRoutes()

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	logger.Info("POS bridge started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Fatal("Gateway error", zap.Error(err))
	}

	cancel()
	if cfg.Realtime.Enabled {
		manager.Stop()
	}
	gate.Stop()
	hub.Close()
	if sd != nil {
		sd.Close()
	}

	logger.Info("POS bridge stopped")
}
