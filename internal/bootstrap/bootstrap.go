package bootstrap

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/unirecords/internal/app/controllers"
	appMigrations "github.com/yigit/unirecords/internal/app/migrations"
	appRepos "github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/app/repositories/memory"
	appRoutes "github.com/yigit/unirecords/internal/app/routes"
	appServices "github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/config"
	"github.com/yigit/unirecords/internal/db"
	appMiddleware "github.com/yigit/unirecords/internal/middleware"
	"github.com/yigit/unirecords/internal/pkg/logger"
	"github.com/yigit/unirecords/internal/seed"
)

// DefaultConfigPath is where the YAML configuration is looked up
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Store       appRepos.Store
	Services    *appServices.Services
	Controllers *appControllers.Controllers
	// Database is nil when the memory store is configured
	Database *db.PostgresDB
}

// Close releases the database pool, if any
func (d *Dependencies) Close() {
	if d.Database != nil {
		d.Logger.Info().Msg("Closing database connection pool...")
		d.Database.Close()
	}
}

// StoreName names the configured store driver
func (d *Dependencies) StoreName() string {
	if d.Database == nil {
		return config.DriverMemory
	}
	return config.DriverPostgres
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string, out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		Output: out,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres and applies migrations when enabled
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if !cfg.Database.AutoMigrate {
		return database, nil
	}
	if err := Migrate(ctx, database); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies the embedded schema migrations
func Migrate(ctx context.Context, database *db.PostgresDB) error {
	migrator, err := appMigrations.NewMigrator(database.Pool)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("database migrations failed: %w", err)
	}
	return nil
}

// BuildDependencies opens the configured store and wires services and
// controllers over it
func BuildDependencies(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr}

	if cfg.UsesMemoryStore() {
		lgr.Warn().Msg("Using in-memory store; data is lost on exit")
		deps.Store = memory.NewStore()
	} else {
		database, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		deps.Database = database
		deps.Store = appRepos.NewPostgresStore(database)
	}

	deps.Services = appServices.NewServices(deps.Store)
	deps.Controllers = BuildControllers(deps.Services, deps.StoreName())

	if cfg.Records.SeedDemoData {
		if err := seed.CreateDemoData(ctx, deps.Services, lgr); err != nil {
			// Startup continues with whatever was seeded
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return deps, nil
}

// BuildControllers creates every HTTP controller over svc
func BuildControllers(svc *appServices.Services, storeName string) *appControllers.Controllers {
	return &appControllers.Controllers{
		Students:    appControllers.NewStudentController(svc),
		Courses:     appControllers.NewCourseController(svc),
		Enrollments: appControllers.NewEnrollmentController(svc),
		Grades:      appControllers.NewGradeController(svc),
		Health:      appControllers.NewHealthController(storeName),
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, ctrls *appControllers.Controllers, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	return NewEngine(ctrls, lgr)
}

// NewEngine builds a gin engine with the request middleware and all routes
func NewEngine(ctrls *appControllers.Controllers, lgr zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()),
		appMiddleware.Recovery(lgr),
	)
	appRoutes.SetupRouter(router, ctrls)
	return router
}
