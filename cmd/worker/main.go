// Package main - точка входа batch-процесса пересчёта академических
// показателей.
//
// Worker выполняет один полный прогон по настроенным когортам:
// - Загрузка справочника курсов и записей оценок из PostgreSQL
// - Расчёт GPA, ранжирование когорты, награды и дипломные обозначения
// - Оценка плотности транскрипта
// - Запись итоговых standings обратно в PostgreSQL
//
// Запускается по расписанию внешним планировщиком (cron, systemd
// timer); сам процесс после прогона завершается.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keswick-hub/registrar-engine/config"
	"github.com/keswick-hub/registrar-engine/internal/application/command"
	"github.com/keswick-hub/registrar-engine/internal/infrastructure/persistence/postgres"
	"github.com/keswick-hub/registrar-engine/internal/infrastructure/persistence/redis"
	"github.com/keswick-hub/registrar-engine/pkg/logger"
	"github.com/keswick-hub/registrar-engine/pkg/retry"
)

func main() {
	// Контекст отменяется по SIGINT/SIGTERM: текущая фаза прогона
	// завершается, дальнейшие когорты не запускаются.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting registrar engine worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Int("workers", cfg.Batch.Workers),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	var dbConn *postgres.Connection
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		conn, cerr := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if cerr != nil {
			return retry.Retryable(cerr)
		}
		dbConn = conn
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Кэш ускоряет повторные чтения, но не обязателен для
			// корректности прогона.
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
			log.Info("Redis connection established")
		}
	}
	gpaCache := redis.NewGPACache(cache)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ И ОБРАБОТЧИКА
	// ─────────────────────────────────────────────────────────────────────────
	courseRepo := postgres.NewCourseDefinitionRepository(dbConn)
	gradeRepo := postgres.NewGradeRecordRepository(dbConn)
	standingRepo := postgres.NewStandingRepository(dbConn)

	recompute := command.NewRecomputeCohortHandler(
		courseRepo,
		gradeRepo,
		standingRepo,
		gpaCache,
		cfg.Calibration.Awards,
		cfg.Calibration.Layout,
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ПРОГОН ПО КОГОРТАМ
	// ─────────────────────────────────────────────────────────────────────────
	if len(cfg.Batch.GraduationYears) == 0 {
		return fmt.Errorf("no cohorts configured: set BATCH_GRADUATION_YEARS")
	}

	var failed int
	for _, year := range cfg.Batch.GraduationYears {
		if ctx.Err() != nil {
			log.Warn("shutdown requested, skipping remaining cohorts",
				logger.Int("graduation_year", year))
			break
		}
		if err := runCohort(ctx, cfg, recompute, cache, log, year); err != nil {
			log.Error("cohort recomputation failed",
				logger.Int("graduation_year", year),
				logger.Err(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d cohort runs failed", failed, len(cfg.Batch.GraduationYears))
	}
	log.Info("all cohort runs completed")
	return nil
}

// runCohort выполняет один пересчёт когорты под распределённой
// блокировкой, чтобы параллельный запуск worker'а не писал standings
// той же когорты одновременно.
func runCohort(
	ctx context.Context,
	cfg *config.Config,
	recompute *command.RecomputeCohortHandler,
	cache *redis.Cache,
	log *logger.Logger,
	year int,
) error {
	if cache != nil {
		lockKey := redis.CohortRunLockKey(year)
		acquired, err := cache.SetNX(ctx, lockKey, cfg.App.Name, redis.TTLCohortRunLock)
		if err != nil {
			log.Warn("run lock unavailable, proceeding without it", logger.Err(err))
		} else if !acquired {
			return fmt.Errorf("another run holds the lock for cohort %d", year)
		} else {
			defer func() {
				if err := cache.Delete(context.Background(), lockKey); err != nil {
					log.Warn("failed to release run lock", logger.Err(err))
				}
			}()
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Batch.RunTimeout)
	defer cancel()

	result, err := recompute.Handle(runCtx, command.RecomputeCohortCommand{
		GraduationYear:  year,
		Workers:         cfg.Batch.Workers,
		ExcludeTransfer: cfg.Batch.ExcludeTransfer,
	})
	if err != nil {
		return err
	}

	log.Info("cohort recomputation finished",
		logger.String(logger.RunIDKey, result.RunID),
		logger.Int("graduation_year", year),
		logger.Cohort(result.CohortSize),
		logger.Int("ranked", result.Ranked),
		logger.Int("part_time", result.PartTime),
		logger.Int("failed", result.Failed),
		logger.Int("warnings", result.WarningCount),
		logger.Duration("elapsed", result.Elapsed),
	)
	return nil
}
