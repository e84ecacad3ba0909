package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexthub/intranet-backend/internal/config"
	"github.com/nexthub/intranet-backend/internal/domain"
	"github.com/nexthub/intranet-backend/internal/handler"
	"github.com/nexthub/intranet-backend/internal/middleware"
	"github.com/nexthub/intranet-backend/internal/migration"
	"github.com/nexthub/intranet-backend/internal/repository"
	"github.com/nexthub/intranet-backend/internal/routes"
	"github.com/nexthub/intranet-backend/internal/service"
	pkgcache "github.com/nexthub/intranet-backend/pkg/cache"
	"github.com/nexthub/intranet-backend/pkg/jwt"
	pkglogger "github.com/nexthub/intranet-backend/pkg/logger"
	pkgredis "github.com/nexthub/intranet-backend/pkg/redis"
)

// @title           Intranet Portal API
// @version         1.0
// @description     Employee portal backend: knowledge-base guides, org directory and community events.
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.Fatal("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// Development-only accessor warnings and mapper diagnostics
	repository.SetDevMode(cfg.IsDevelopment())
	domain.EnableDiagnostics(cfg.IsDevelopment())

	// MySQL connection. Every content endpoint reads from it, so an
	// unreachable database is a startup failure, not a degraded mode.
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.Fatal("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")

	if err := migration.Run(db); err != nil {
		pkglogger.Fatal("Schema migration failed: %v", err)
	}
	if _, err := os.Stat(cfg.Migrations.Dir); err == nil {
		contentMigrations, err := migration.LoadDir(cfg.Migrations.Dir)
		if err != nil {
			pkglogger.Fatal("Content migrations are invalid: %v", err)
		}
		applied, err := migration.Apply(db, contentMigrations)
		if err != nil {
			pkglogger.Fatal("Content migration failed: %v", err)
		}
		if applied > 0 {
			pkglogger.Info("Applied %d content migrations", applied)
		}
	}

	// Redis connection (optional: caching and the logout denylist degrade
	// gracefully without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Error("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	// Token managers: portal sessions plus the IdP verifier
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn.Std(),
		cfg.JWT.RefreshIn.Std(),
	)
	idpManager := jwt.NewIdPManager(cfg.JWT.IdPSecret)
	authService := service.NewAuthService(jwtManager, idpManager, cacheService)

	// Repositories and handlers
	guideRepo := repository.NewGuideRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	eventRepo := repository.NewEventRepository(db)

	guideHandler := handler.NewGuideHandler(guideRepo, cacheService)
	directoryHandler := handler.NewDirectoryHandler(positionRepo, unitRepo, cacheService)
	eventHandler := handler.NewEventHandler(eventRepo, cacheService)
	authHandler := handler.NewAuthHandler(authService, !cfg.IsDevelopment())

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.SecurityHeaders())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		redisStatus := "ok"
		if err := cacheService.Ping(c.Request.Context()); err != nil {
			redisStatus = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "intranet-backend",
			"redis":   redisStatus,
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, guideHandler, directoryHandler, eventHandler, authHandler, jwtManager, authService)

	// Feed the DB pool gauge
	if sqlDB, err := db.DB(); err == nil {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				middleware.SetDBConnectionsActive(float64(sqlDB.Stats().OpenConnections))
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		pkglogger.Fatal("Server stopped: %v", err)
	}
}

// initDB opens the MySQL pool from either a full DSN or the individual
// config fields.
func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN
	if dsn == "" {
		mc := mysqldriver.Config{
			User:                 cfg.Database.User,
			Passwd:               cfg.Database.Password,
			Net:                  "tcp",
			Addr:                 fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port),
			DBName:               cfg.Database.Name,
			Collation:            "utf8mb4_unicode_ci",
			ParseTime:            true,
			Loc:                  time.UTC,
			AllowNativePasswords: true,
		}
		dsn = mc.FormatDSN()
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
