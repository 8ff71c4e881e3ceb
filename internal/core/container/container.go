package container

import (
	"context"
	"database/sql"
	"fmt"

	auditLogRepo "github.com/Marcelo-Rosas/container-storage/internal/auditlog"
	"github.com/Marcelo-Rosas/container-storage/internal/access"
	"github.com/Marcelo-Rosas/container-storage/internal/clients"
	"github.com/Marcelo-Rosas/container-storage/internal/containers"
	"github.com/Marcelo-Rosas/container-storage/internal/containertypes"
	"github.com/Marcelo-Rosas/container-storage/internal/core/config"
	"github.com/Marcelo-Rosas/container-storage/internal/dashboard"
	"github.com/Marcelo-Rosas/container-storage/internal/events"
	"github.com/Marcelo-Rosas/container-storage/internal/inventory"
	"github.com/Marcelo-Rosas/container-storage/internal/middleware"
	"github.com/Marcelo-Rosas/container-storage/internal/repository"
	"github.com/Marcelo-Rosas/container-storage/internal/session"
	"github.com/Marcelo-Rosas/container-storage/internal/users"
	"github.com/Marcelo-Rosas/container-storage/pkg/auditlog"
	"github.com/Marcelo-Rosas/container-storage/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Config               *config.Config
	Logger               *zap.Logger
	Repository           *repository.Repository
	Sessions             session.Store
	Tokens               *security.TokenIssuer
	AuditLog             *auditlog.Auditlog
	Health               *middleware.HealthChecker
	AuthHandler          *security.AuthHandler
	UserHandler          *users.UsersHandler
	ClientHandler        *clients.ClientHandler
	ContainerTypeHandler *containertypes.ContainerTypeHandler
	ContainerHandler     *containers.ContainerHandler
	InventoryHandler     *inventory.InventoryHandler
	EventHandler         *events.EventHandler
	DashboardHandler     *dashboard.DashboardHandler
	AuditLogHandler      *auditLogRepo.AuditLogHandler
}

func NewAppContainer(ctx context.Context, cfg *config.Config, db *sql.DB, logger *zap.Logger) (*Container, error) {
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	pingers := map[string]middleware.Pinger{}
	var sessions session.Store
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		redisStore := session.NewRedisStore(client)
		sessions = redisStore
		pingers["redis"] = redisStore
	} else {
		logger.Warn("REDIS_URL is not set, sessions are kept in memory")
		sessions = session.NewMemoryStore()
	}

	repo := repository.NewRepository(db)
	repo.RowSecurity = cfg.DBRowSecurity
	pingers["database"] = repo

	policy := access.NewPolicy()
	auditLogRepository := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepository, logger)

	userRepo := users.NewRepository(repo)
	clientRepo := clients.NewRepository(repo)
	containerTypeRepo := containertypes.NewRepository(repo)
	containerRepo := containers.NewRepository(repo)
	inventoryRepo := inventory.NewRepository(repo)
	eventRepo := events.NewRepository(repo)

	clientService := clients.NewClientService(clientRepo, policy, auditLog)
	containerService := containers.NewContainerService(
		containerRepo,
		containerTypeRepo,
		clientService,
		inventoryRepo,
		eventRepo,
		policy,
		auditLog,
		logger,
	)
	inventoryService := inventory.NewInventoryService(inventoryRepo, containerService, policy, inventory.NewInventoryLog(auditLog))
	eventService := events.NewEventService(eventRepo, containerService, policy)
	dashboardService := dashboard.NewDashboardService(containerService, clientService)

	oauthConfig := security.NewGoogleOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	authHandler := security.NewAuthHandler(
		userRepo,
		sessions,
		tokens,
		security.NewLogMailer(logger),
		oauthConfig,
		cfg.PasswordReset,
		logger,
	)

	return &Container{
		Config:               cfg,
		Logger:               logger,
		Repository:           repo,
		Sessions:             sessions,
		Tokens:               tokens,
		AuditLog:             auditLog,
		Health:               middleware.NewHealthChecker(cfg.AppVersion, pingers),
		AuthHandler:          authHandler,
		UserHandler:          users.NewHandler(userRepo, sessions),
		ClientHandler:        clients.NewClientHandler(clientService),
		ContainerTypeHandler: containertypes.NewContainerTypeHandler(containerTypeRepo),
		ContainerHandler:     containers.NewContainerHandler(containerService, logger),
		InventoryHandler:     inventory.NewInventoryHandler(inventoryService),
		EventHandler:         events.NewEventHandler(eventService),
		DashboardHandler:     dashboard.NewDashboardHandler(dashboardService),
		AuditLogHandler:      auditLogRepo.NewHandler(auditLogRepository),
	}, nil
}
