package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/accept/school-service/internal/api/http"
	"github.com/accept/school-service/internal/api/http/handlers"
	"github.com/accept/school-service/internal/auth"
	"github.com/accept/school-service/internal/config"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/observability"
	"github.com/accept/school-service/internal/persistence"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/repository/memory"
	"github.com/accept/school-service/internal/service"
	"github.com/accept/school-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	employees  repository.EmployeeRepository
	classrooms repository.ClassroomRepository
	students   repository.StudentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	repos := newRepositories(pg, logger)
	metrics := observability.NewMetrics(strings.ReplaceAll(cfg.App.Name, "-", "_"))
	dispatcher := events.NewInMemoryDispatcher(logger)

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifier := worker.NewNotificationWorker(notifications, logger, 0)
	notifier.Subscribe(dispatcher)
	notifier.Start(ctx)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	var throttle auth.LoginThrottle
	if rdb.Enabled() {
		throttle = auth.NewRedisLoginThrottle(rdb.Client, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginLockout())
	}

	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repos.employees,
		Hasher:       auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:       tokens,
		Throttle:     throttle,
		Dispatcher:   dispatcher,
		Recorder:     metrics,
		Logger:       logger,
	})
	classroomService := service.NewClassroomService(service.ClassroomDependencies{
		ClassroomRepo: repos.classrooms,
		StudentRepo:   repos.students,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	studentService := service.NewStudentService(service.StudentDependencies{
		StudentRepo:   repos.students,
		ClassroomRepo: repos.classrooms,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	app := httptransport.NewApp(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		RateLimiter: httptransport.NewRateLimiter(
			cfg.RateLimit.GeneralRPM,
			cfg.RateLimit.AuthRPM,
			httptransport.PathEmployeeCreate,
			httptransport.PathEmployeeLogin,
		),
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
				"postgres": pg,
				"redis":    rdb,
			}),
			Employees:      handlers.NewEmployeesHandler(employeeService),
			Classrooms:     handlers.NewClassroomsHandler(classroomService),
			Students:       handlers.NewStudentsHandler(studentService),
			AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.employees, logger),
		},
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifier.Stop(shutdownCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
}

func newRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			employees:  store.Employees(),
			classrooms: store.Classrooms(),
			students:   store.Students(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		employees:  repository.NewEmployeeRepository(pool),
		classrooms: repository.NewClassroomRepository(pool),
		students:   repository.NewStudentRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
