package app

import (
	"net/http"

	"babycare-go/internal/config"
	"babycare-go/internal/db"
	babydomain "babycare-go/internal/domain/baby"
	familydomain "babycare-go/internal/domain/family"
	plandomain "babycare-go/internal/domain/plan"
	postdomain "babycare-go/internal/domain/post"
	recorddomain "babycare-go/internal/domain/record"
	taskdomain "babycare-go/internal/domain/task"
	userdomain "babycare-go/internal/domain/user"
	babyrepo "babycare-go/internal/repository/postgres/baby"
	familyrepo "babycare-go/internal/repository/postgres/family"
	planrepo "babycare-go/internal/repository/postgres/plan"
	postrepo "babycare-go/internal/repository/postgres/post"
	recordrepo "babycare-go/internal/repository/postgres/record"
	taskrepo "babycare-go/internal/repository/postgres/task"
	userrepo "babycare-go/internal/repository/postgres/user"
	redisrepo "babycare-go/internal/repository/redis"
	"babycare-go/internal/transport/httpserver"
	"babycare-go/internal/transport/httpserver/handler"
	"babycare-go/pkg/logger"
	"babycare-go/pkg/token"

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

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	familyCache := familydomain.NoopCache()
	if cfg.Redis.Addr != "" {
		redisClient, err := redisrepo.New(cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		familyCache = redisrepo.NewFamilyCache(redisClient)
		log.Info("app: redis cache enabled", "addr", cfg.Redis.Addr)
	}

	limits := familydomain.Limits{
		MaxMembers: cfg.Family.MaxMembers,
		MaxBabies:  cfg.Family.MaxBabies,
		CodeLength: cfg.Family.CodeLength,
	}

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), familyCache, limits)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	babies := babydomain.NewService(babyrepo.NewPostgres(dbConn), families, limits)
	tasks := taskdomain.NewService(taskrepo.NewPostgres(dbConn), families)
	posts := postdomain.NewService(postrepo.NewPostgres(dbConn), families)
	records := recorddomain.NewService(recordrepo.NewPostgres(dbConn), families)
	plans := plandomain.NewService(planrepo.NewPostgres(dbConn), families)

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	handlers := handler.New(users, families, babies, tasks, posts, records, plans, tokens, log)

	log.Info("app: initializing http server")
	router := httpserver.NewRouter(cfg, handlers, tokens)
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
