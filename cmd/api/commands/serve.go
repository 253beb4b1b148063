package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/hospital-contable/internal/application/ledger"
	"github.com/jhoicas/hospital-contable/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/hospital-contable/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/hospital-contable/internal/interfaces/http"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP del libro diario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "aplicar migraciones pendientes antes de arrancar")
	return cmd
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sequence", cfg.Ledger.SequenceStrategy).
		Msg("iniciando aplicación")

	if migrateOnStart {
		if err := runMigrations("up"); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	var sequence ledger.SequenceGenerator
	switch cfg.Ledger.SequenceStrategy {
	case ledger.StrategyCounter:
		sequence = ledger.CounterSequence{}
	case ledger.StrategyRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer client.Close()
		sequence = infraredis.NewSequence(client)
	default:
		sequence = ledger.LookupSequence{}
	}

	ledgerSvc := ledger.NewService(
		postgres.NewTxRunner(pool),
		postgres.NewPeriodRepository(pool),
		postgres.NewJournalEntryRepository(pool),
		sequence,
		ledger.Config{
			Prefix:       cfg.Ledger.EntryPrefix,
			MaxAttempts:  cfg.Ledger.MaxNumberAttempts,
			WriteTimeout: cfg.Ledger.WriteTimeout,
		},
		log.Zerolog(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Hospital Contable API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerSvc,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Logger:    log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
	return nil
}
