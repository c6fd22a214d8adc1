package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tu-usuario/master-console/internal/application/auth"
	"github.com/tu-usuario/master-console/internal/application/event"
	"github.com/tu-usuario/master-console/internal/application/provisioning"
	"github.com/tu-usuario/master-console/internal/application/usecase"
	"github.com/tu-usuario/master-console/internal/infrastructure/cache"
	"github.com/tu-usuario/master-console/internal/infrastructure/events"
	"github.com/tu-usuario/master-console/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/master-console/internal/interfaces/http"
	"github.com/tu-usuario/master-console/pkg/config"
	"github.com/tu-usuario/master-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando consola master")

	ctx := context.Background()

	if cfg.DB.Migrate {
		if err := postgres.RunMigrations(ctx, cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	requestRepo := postgres.NewTenantRequestRepository(pool)
	cleanupRepo := postgres.NewPendingCleanupRepository(pool)
	userRepo := postgres.NewMasterUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de entitlements: opcional, solo si hay Redis configurado.
	var entCache *cache.EntitlementCache
	if cfg.Redis.Addr != "" {
		entCache, err = cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer entCache.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de entitlements habilitada")
	}

	// Eventos de ciclo de vida: Kafka si hay brokers, no-op si no.
	var publisher event.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.BrokerList()) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka)
		defer kp.Close()
		publisher = kp
		log.Info().Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos habilitada")
	}

	dbAddr := fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port)
	provisionUC := provisioning.NewProvisionUseCase(
		txRunner, tenantRepo, requestRepo, cleanupRepo,
		publisher, log.Component("provisioning"), dbAddr,
	)
	var tenantUC *usecase.TenantUseCase
	if entCache != nil {
		tenantUC = usecase.NewTenantUseCase(tenantRepo, txRunner, entCache, publisher, log.Component("tenants"))
	} else {
		tenantUC = usecase.NewTenantUseCase(tenantRepo, txRunner, nil, publisher, log.Component("tenants"))
	}
	requestUC := usecase.NewRequestUseCase(requestRepo)
	userUC := usecase.NewMasterUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Master Console API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		TenantUC:    tenantUC,
		RequestUC:   requestUC,
		UserUC:      userUC,
		ProvisionUC: provisionUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("consola master detenida")
}
