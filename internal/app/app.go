package app

import (
	"context"
	"fmt"
	"net/http"

	"family-tree-go/internal/config"
	"family-tree-go/internal/db"
	persondomain "family-tree-go/internal/domain/person"
	reldomain "family-tree-go/internal/domain/relationship"
	treedomain "family-tree-go/internal/domain/tree"
	mongoperson "family-tree-go/internal/repository/mongo/person"
	mongorelationship "family-tree-go/internal/repository/mongo/relationship"
	mongotree "family-tree-go/internal/repository/mongo/tree"
	pgperson "family-tree-go/internal/repository/postgres/person"
	pgrelationship "family-tree-go/internal/repository/postgres/relationship"
	pgtree "family-tree-go/internal/repository/postgres/tree"
	"family-tree-go/internal/transport/httpserver"
	"family-tree-go/internal/transport/httpserver/handler"
	"family-tree-go/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	pg         *gorm.DB
	mongo      *mongo.Database
}

type repositories struct {
	trees         treedomain.Repository
	people        persondomain.Repository
	relationships reldomain.Repository
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}

	log.Info("app: initializing storage", "driver", cfg.Driver)
	repos, err := a.initStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	trees := treedomain.NewService(repos.trees)
	people := persondomain.NewService(repos.people, trees)
	relationships := reldomain.NewService(repos.relationships, repos.people, reldomain.Policy{
		PartnerExclusivity: cfg.Relationships.PartnerExclusivity,
		DefaultPathDepth:   cfg.Relationships.DefaultPathDepth,
		MaxPathDepth:       cfg.Relationships.MaxPathDepth,
		MaxGenerations:     cfg.Relationships.MaxGenerations,
	})

	log.Info("app: initializing router")
	handlers := handler.New(trees, people, relationships, log)
	router := httpserver.NewRouter(cfg, handlers)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func (a *App) initStorage(cfg config.Config, log logger.Logger) (repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return repositories{}, err
		}
		if err := db.Migrate(pg, log); err != nil {
			return repositories{}, err
		}
		a.pg = pg
		return repositories{
			trees:         pgtree.NewPostgres(pg),
			people:        pgperson.NewPostgres(pg),
			relationships: pgrelationship.NewPostgres(pg),
		}, nil
	case config.DriverMongo:
		mdb, err := db.NewMongo(cfg.Mongo, log)
		if err != nil {
			return repositories{}, err
		}
		a.mongo = mdb
		relationships := mongorelationship.NewMongo(mdb)
		if err := relationships.EnsureIndexes(context.Background()); err != nil {
			return repositories{}, fmt.Errorf("ensure relationship indexes: %w", err)
		}
		return repositories{
			trees:         mongotree.NewMongo(mdb),
			people:        mongoperson.NewMongo(mdb),
			relationships: relationships,
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.pg != nil {
		sqlDB, err := a.pg.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	if a.mongo != nil {
		return db.CloseMongo(a.mongo)
	}
	return nil
}
