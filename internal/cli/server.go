package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-api-service/internal/app"
	"quiz-api-service/internal/auth"
	"quiz-api-service/internal/config"
	"quiz-api-service/internal/infra/memory"
	"quiz-api-service/internal/infra/postgres"
	redisinfra "quiz-api-service/internal/infra/redis"
	"quiz-api-service/internal/infra/sqlstore"
	"quiz-api-service/internal/media"
	transport "quiz-api-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	driver := sqlstore.Driver(cfg.Database.Driver)
	db, err := sqlstore.Open(ctx, driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := sqlstore.Migrate(ctx, db); err != nil {
		return err
	}
	log.Printf("database ready (%s)", driver)

	questions := sqlstore.NewQuestionStore(db)

	var participations app.ParticipationRepository = sqlstore.NewParticipationStore(db)
	if driver == sqlstore.DriverPostgres {
		pool, err := pgxpool.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		participations = postgres.NewParticipationRepository(pool)
	}

	cacheTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Second)
	var registry auth.TokenRegistry
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		participations = redisinfra.NewLeaderboardCache(redisClient, participations, cacheTTL)
		registry = redisinfra.NewTokenRegistry(redisClient)
	} else {
		participations = memory.NewLeaderboardCache(participations, cacheTTL)
		registry = memory.NewTokenRegistry()
	}

	gateway := auth.NewGateway(auth.Config{
		Password: cfg.Admin.Password,
		Secret:   cfg.Admin.Secret,
		TokenTTL: config.TTLDuration(cfg.Admin.TokenTTL, auth.DefaultTokenTTL),
	}, registry)

	service := app.NewQuizService(questions, participations,
		app.WithImageValidator(media.NewImageValidator(cfg.Quiz.MaxImageBytes)),
		app.WithLeaderboardSize(cfg.Quiz.LeaderboardSize),
	)

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(service, gateway, transport.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
