package app

import (
	"fmt"
	"net/http"

	"softdesk-go/internal/auth"
	"softdesk-go/internal/config"
	"softdesk-go/internal/db"
	commentdomain "softdesk-go/internal/domain/comment"
	identitydomain "softdesk-go/internal/domain/identity"
	issuedomain "softdesk-go/internal/domain/issue"
	projectdomain "softdesk-go/internal/domain/project"
	commentrepo "softdesk-go/internal/repository/postgres/comment"
	identityrepo "softdesk-go/internal/repository/postgres/identity"
	issuerepo "softdesk-go/internal/repository/postgres/issue"
	projectrepo "softdesk-go/internal/repository/postgres/project"
	"softdesk-go/internal/transport/httpserver"
	"softdesk-go/internal/transport/httpserver/handler"
	"softdesk-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}
	if err := db.Seed(dbConn, cfg.Seed, log); err != nil {
		return nil, err
	}

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), cfg.Signup.MinAge)
	projectService := projectdomain.NewService(projectrepo.NewPostgres(dbConn))
	issueService := issuedomain.NewService(issuerepo.NewPostgres(dbConn))
	commentService := commentdomain.NewService(commentrepo.NewPostgres(dbConn))

	tokens := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	handlers := handler.New(identityService, projectService, issueService, commentService, tokens, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(handlers, tokens)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
