package di

import (
	"context"
	"fmt"
	"io"

	"github.com/GoArmGo/ContentGenius/internal/adapter/openai"
	"github.com/GoArmGo/ContentGenius/internal/adapter/storage/minio"
	"github.com/GoArmGo/ContentGenius/internal/app"
	"github.com/GoArmGo/ContentGenius/internal/cache"
	"github.com/GoArmGo/ContentGenius/internal/config"
	"github.com/GoArmGo/ContentGenius/internal/core/ports"
	"github.com/GoArmGo/ContentGenius/internal/database/client"
	"github.com/GoArmGo/ContentGenius/internal/database/postgres"
	"github.com/GoArmGo/ContentGenius/internal/database/storage"
	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/GoArmGo/ContentGenius/internal/handler"
	"github.com/GoArmGo/ContentGenius/internal/logger"
	"github.com/GoArmGo/ContentGenius/internal/rabbitmq"
	"github.com/GoArmGo/ContentGenius/internal/usecase"
)

// BuildApp loads configuration, connects every backing service and returns
// a ready App. Resources opened before a failure are released.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Config and logger
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []io.Closer
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		return nil, err
	}

	// 2. PostgreSQL and schema
	dbClient, err := client.NewClient(ctx, cfg.DatabaseURL, slogger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, dbClient)

	if err := postgres.ApplyMigrations(dbClient.DB.DB, slogger); err != nil {
		return fail(err)
	}

	// 3. Storages: GORM writes, sqlx reads
	userStorage := postgres.NewGormUserStorage(dbClient.Gorm, slogger)
	creditStorage := postgres.NewGormCreditStorage(dbClient.Gorm, slogger)
	generationStorage := postgres.NewGormGenerationStorage(dbClient.Gorm, slogger)
	generationQueries := storage.NewGenerationQueries(dbClient.DB, slogger)

	// 4. Stats cache
	var statsCache ports.StatsCache = cache.NoopStatsCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rdb)
		statsCache = cache.NewRedisStatsCache(rdb, cfg.Redis.StatsTTL, slogger)
	} else {
		slogger.Info("redis not configured, usage stats are computed on every request")
	}

	// 5. External services
	generator := openai.NewClient(cfg.OpenAI, slogger)

	// interface stays nil when the archive is disabled
	var archive usecase.OutputArchive
	if cfg.Minio.Enabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg.Minio, slogger)
		if err != nil {
			return fail(err)
		}
		archive = minioClient
	} else {
		slogger.Info("minio not configured, generated outputs are not archived")
	}

	// 6. Job queue
	rabbitClient, err := rabbitmq.NewClient(cfg.RabbitMQ, slogger)
	if err != nil {
		return fail(fmt.Errorf("connect to rabbitmq: %w", err))
	}
	closers = append(closers, rabbitClient)

	// 7. Use cases
	credits := usecase.NewCreditService(creditStorage, slogger)

	contents := make([]usecase.ContentUseCase, 0, len(domain.AllContentTypes()))
	for _, t := range domain.AllContentTypes() {
		contents = append(contents, usecase.NewContentService(
			t, credits, generationStorage, generationQueries, rabbitClient, statsCache, slogger,
		))
	}

	worker := usecase.NewGenerationWorker(generationStorage, generator, archive, statsCache, cfg.OpenAI.Timeout, slogger)
	history := usecase.NewHistoryService(generationQueries, statsCache, archive, slogger)

	auth, err := usecase.NewAuthService(userStorage, userStorage, cfg.StartingCredits, cfg.TokenTTL, slogger)
	if err != nil {
		return fail(err)
	}

	// 8. Assemble
	services := handler.Services{
		Contents: contents,
		History:  history,
		Auth:     auth,
		Credits:  credits,
		DB:       dbClient,
	}

	slogger.Info("all dependencies initialized")
	return app.NewApp(cfg, slogger, services, rabbitClient, worker, closers...), nil
}
