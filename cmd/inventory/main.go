package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"InventoryAPI/internal/app"
	"InventoryAPI/internal/auth"
	"InventoryAPI/internal/config"
	"InventoryAPI/internal/inventory"
	"InventoryAPI/internal/storage"
	"InventoryAPI/pkg/kit"
)

func main() {
	service := "inventory"

	cfg, err := config.Load()
	if err != nil {
		boot := kit.NewLogger(service, "info")
		boot.Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	products, users, closeStores, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("open stores failed", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer closeStores()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := app.NewHandler(
		app.Deps{
			Products: products,
			Users:    users,
			JWT:      auth.NewTokenMaker(cfg.JWTSecret),
			TokenTTL: cfg.TokenTTL,
			Limits: auth.RouteOpts{
				LoginLimitPerMin:    cfg.LoginLimitPerMin,
				RegisterLimitPerMin: cfg.RegisterLimitPerMin,
				TrustProxyHeaders:   cfg.TrustProxyHeaders,
			},
		},
		app.HTTPDeps{
			Log:            log,
			Service:        service,
			Registry:       reg,
			MetricsEnabled: cfg.MetricsEnabled,
			MetricsToken:   cfg.MetricsToken,
			Production:     cfg.IsProduction(),
		},
	)

	if err := kit.RunHTTPServer(cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStores(cfg *config.Config, log *zap.Logger) (inventory.Store, auth.UserStore, func(), error) {
	var dsn string
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory stores; data is lost on restart")
		return inventory.NewMemStore(), auth.NewMemStore(), func() {}, nil
	case config.DriverSQLite:
		dsn = storage.SQLiteDSN(cfg.SQLitePath)
	case config.DriverPostgres:
		dsn = cfg.DatabaseURL
	}

	db, err := storage.Open(context.Background(), cfg.StoreDriver, dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Migrate(log); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}

	return inventory.NewSQLStore(db), auth.NewSQLStore(db), func() { _ = db.Close() }, nil
}
