package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/oni-calculator/internal/adapters/extract"
	"github.com/andrescamacho/oni-calculator/internal/adapters/metrics"
	"github.com/andrescamacho/oni-calculator/internal/adapters/persistence"
	"github.com/andrescamacho/oni-calculator/internal/application/common"
	"github.com/andrescamacho/oni-calculator/internal/application/production/services"
	"github.com/andrescamacho/oni-calculator/internal/application/setup"
	"github.com/andrescamacho/oni-calculator/internal/domain/production"
	"github.com/andrescamacho/oni-calculator/internal/infrastructure/config"
	"github.com/andrescamacho/oni-calculator/internal/infrastructure/database"
	"github.com/andrescamacho/oni-calculator/internal/infrastructure/logging"
)

// runtime is the process-wide state built before a command runs
type runtime struct {
	cfg             *config.Config
	logger          *logging.ZapAdapter
	requestMetrics  *metrics.RequestMetricsCollector
	resolverMetrics *metrics.ResolverMetricsCollector
}

var rt *runtime

// setupRuntime loads configuration, applies flag overrides and builds the logger and metrics
func setupRuntime(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// --database always means a SQLite file
	if databasePath != "" {
		cfg.Database.Type = "sqlite"
		cfg.Database.Path = databasePath
	}

	zapLogger, err := logging.NewZapLogger(cfg.Logging, debug)
	if err != nil {
		return err
	}

	r := &runtime{
		cfg:    cfg,
		logger: logging.NewZapAdapter(zapLogger),
	}
	rt = r

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		r.requestMetrics = metrics.NewRequestMetricsCollector()
		if err := r.requestMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register request metrics: %w", err)
		}

		r.resolverMetrics = metrics.NewResolverMetricsCollector()
		if err := r.resolverMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register resolver metrics: %w", err)
		}
	}

	return nil
}

// teardownRuntime exports metrics and flushes the logger.
// It runs after every command, failed ones included.
func teardownRuntime() error {
	if rt == nil {
		return nil
	}
	defer func() { rt = nil }()

	err := metrics.WriteTextfile(rt.cfg.Metrics.TextfilePath)
	metrics.ResetRegistry()

	// Syncing stderr fails with EINVAL on some platforms
	_ = rt.logger.Sync()

	return err
}

// app is a connected catalog plus a mediator with every handler registered
type app struct {
	db       *gorm.DB
	catalog  *persistence.GormCatalogRepository
	mediator common.Mediator
}

// openApp connects to the catalog database, migrates the schema and wires the handlers
func openApp() (*app, error) {
	if rt == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	cfg := rt.cfg

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	catalog := persistence.NewGormCatalogRepository(db)

	resolver := services.NewChainResolverWithSelector(catalog, production.PreferFacilities(cfg.Resolver.PreferredFacilities))
	resolver.SetMaxNodes(cfg.Resolver.MaxNodes)
	if rt.resolverMetrics != nil {
		resolver.SetRecorder(rt.resolverMetrics)
	}

	m := common.NewMediator()
	m.Use(common.LoggingMiddleware(rt.logger))
	m.Use(metrics.PrometheusMiddleware(rt.requestMetrics))

	registry := setup.NewHandlerRegistry(catalog, resolver, extract.NewSourceExtractor())
	if err := registry.RegisterProductionHandlers(m); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	return &app{
		db:       db,
		catalog:  catalog,
		mediator: m,
	}, nil
}

// Close releases the database connection
func (a *app) Close() {
	_ = database.Close(a.db)
}

// databaseLocation describes where the catalog lives, for user-facing messages
func databaseLocation(cfg *config.DatabaseConfig) string {
	if cfg.Type == "sqlite" {
		return cfg.Path
	}
	if cfg.URL != "" {
		return maskPassword(cfg.URL)
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
}
