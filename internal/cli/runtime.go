package cli

import (
	"fmt"
	"strings"

	"adlaan-backend/config"
	"adlaan-backend/internal/database"
	"adlaan-backend/internal/queue"
	"adlaan-backend/internal/repository"
	"adlaan-backend/internal/services"
	"adlaan-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadConfig reads the environment and initializes the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

// openStore connects to the database and migrates the schema.
func openStore(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// runtime is the wired pipeline shared by serve, worker and import.
type runtime struct {
	cfg     *config.Config
	db      *gorm.DB
	redis   *redis.Client
	queue   queue.Queue
	tasks   *repository.TaskRepository
	docs    *repository.DocumentRepository
	dir     *repository.DirectoryRepository
	svc     *services.TaskService
	sweeper *services.Sweeper
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{
		cfg:   cfg,
		db:    db,
		tasks: repository.NewTaskRepository(db),
		docs:  repository.NewDocumentRepository(db),
		dir:   repository.NewDirectoryRepository(db),
	}

	switch strings.ToLower(cfg.QueueBackend) {
	case "redis", "":
		rdb, err := database.ConnectRedis(cfg)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.redis = rdb
		rt.queue = queue.NewRedisQueue(rdb)
	case "memory":
		rt.queue = queue.NewMemoryQueue(0)
		// Redis still backs the token denylist and user cache when present.
		if cfg.RedisAddr != "" {
			rdb, err := database.ConnectRedis(cfg)
			if err != nil {
				logger.L().Warn("Redis unavailable, token denylist disabled", zap.Error(err))
			} else {
				rt.redis = rdb
			}
		}
	default:
		rt.Close()
		return nil, fmt.Errorf("unsupported queue backend %q", cfg.QueueBackend)
	}

	rt.svc = services.NewTaskService(services.TaskServiceOptions{
		Tasks:     rt.tasks,
		Documents: rt.docs,
		Directory: rt.dir,
		Queue:     rt.queue,
	})
	if cfg.ArchiveEnabled() {
		rt.svc.RegisterAfterExecutionHook(services.NewArchiveHook(services.NewOSSArchiver(cfg), rt.docs, nil))
		logger.L().Info("Archiving generated documents", zap.String("bucket", cfg.OSSBucketName))
	}
	rt.sweeper = services.NewSweeper(rt.tasks, rt.queue, services.SweeperConfig{
		Interval:           cfg.SweepInterval,
		ProcessingDeadline: cfg.ProcessingDeadline,
		RequeueAfter:       cfg.RequeueAfter,
	}, nil)
	return rt, nil
}

func (rt *runtime) sharedQueue() bool {
	_, inProcess := rt.queue.(*queue.MemoryQueue)
	return !inProcess
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = logger.L().Sync()
}
