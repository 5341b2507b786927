package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/cache"
	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/apiserver/handler"
	"github.com/luminahq/lumina/internal/apiserver/middleware"
	"github.com/luminahq/lumina/internal/auth/jwt"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/config"
	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/i18n"
	"github.com/luminahq/lumina/pkg/logger"
	"github.com/luminahq/lumina/pkg/metrics"
	"github.com/luminahq/lumina/pkg/trace"
	"github.com/luminahq/lumina/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "Lumina API Server",
		Long:  `Lumina API Server manages multi-tenant chatbot configurations and their approval workflow`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", cnst.ApiServerYaml, "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		if cfg.Tracing.ServiceName == "" {
			cfg.Tracing.ServiceName = cnst.AppName
		}
		shutdown, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
		if err != nil {
			lg.Fatal("failed to initialize tracing", zap.Error(err))
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	i18nPath := cfg.I18n.Path
	if i18nPath == "" {
		i18nPath = "configs/i18n"
	}
	if err := i18n.InitTranslator(i18nPath); err != nil {
		lg.Warn("failed to load translations, using message ids",
			zap.String("path", i18nPath),
			zap.Error(err))
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		lg.Fatal("failed to initialize database",
			zap.String("type", cfg.Database.Type),
			zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := database.InitSuperAdmin(ctx, db, &cfg.SuperAdmin); err != nil {
		lg.Fatal("failed to seed super admin account", zap.Error(err))
	}

	widgetCache, err := cache.NewCache(lg, &cfg.Cache)
	if err != nil {
		lg.Fatal("failed to initialize cache",
			zap.String("type", cfg.Cache.Type),
			zap.Error(err))
	}

	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		lg.Fatal("failed to initialize JWT service", zap.Error(err))
	}

	h := handler.NewHandler(lg, db, jwtService, rbac.DefaultPolicy(), widgetCache, cfg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LangMiddleware())

	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
		h.WithMetrics(m)
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	// public surface
	r.GET("/api/widget/:slug", h.GetWidgetConfig)
	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api", middleware.JWTAuthMiddleware(jwtService))
	{
		api.GET("/auth/me", h.Me)
		api.POST("/auth/change-password", h.ChangePassword)

		api.GET("/my-tenants", h.ListMyTenants)

		api.GET("/tenants", h.ListTenants)
		api.POST("/tenants", h.CreateTenant)
		api.GET("/tenants/:tenantID", h.GetTenant)
		api.PUT("/tenants/:tenantID", h.UpdateTenant)
		api.DELETE("/tenants/:tenantID", h.DeleteTenant)
		api.POST("/tenants/:tenantID/archive", h.ArchiveTenant)
		api.POST("/tenants/:tenantID/unarchive", h.UnarchiveTenant)

		api.POST("/tenants/:tenantID/submit", h.SubmitDraft)
		api.POST("/tenants/:tenantID/approve", h.Approve)
		api.GET("/approvals", h.ListApprovals)

		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)

		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
		api.DELETE("/notifications/:id", h.DeleteNotification)

		api.GET("/audit-logs", h.ListAuditLogs)
	}

	port := cfg.Port
	if port == 0 {
		port = 5234
	}
	lg.Info("listening", zap.Int("port", port))
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		lg.Fatal("server exited", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
