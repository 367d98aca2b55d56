package app

import (
	"context"

	"gorm.io/gorm"

	"homestash/internal/config"
	"homestash/internal/db"
	categorydomain "homestash/internal/domain/category"
	discussiondomain "homestash/internal/domain/discussion"
	groupdomain "homestash/internal/domain/group"
	identitydomain "homestash/internal/domain/identity"
	itemdomain "homestash/internal/domain/item"
	refdomain "homestash/internal/domain/refcatalog"
	"homestash/internal/media"
	"homestash/internal/repository/inmemory"
	categoryrepo "homestash/internal/repository/postgres/category"
	discussionrepo "homestash/internal/repository/postgres/discussion"
	grouprepo "homestash/internal/repository/postgres/group"
	identityrepo "homestash/internal/repository/postgres/identity"
	itemrepo "homestash/internal/repository/postgres/item"
	refrepo "homestash/internal/repository/postgres/refcatalog"
	"homestash/pkg/logger"
)

// App wires the storage layer to the domain services. There is no
// transport here: callers embed the services directly.
type App struct {
	cfg config.Config
	db  *gorm.DB

	Identity    *identitydomain.Service
	Groups      *groupdomain.Service
	Categories  *categorydomain.Service
	Catalog     *refdomain.Service
	Items       *itemdomain.Service
	Discussions *discussiondomain.Service
	Media       media.Store
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	blobs, err := newMediaStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	groups := groupdomain.NewService(grouprepo.NewPostgres(dbConn))

	a := &App{
		cfg:         cfg,
		db:          dbConn,
		Identity:    identitydomain.NewService(identityrepo.NewPostgres(dbConn)),
		Groups:      groups,
		Categories:  categorydomain.NewService(categoryrepo.NewPostgres(dbConn), inmemory.NewInMemoryCategoryCache()),
		Catalog:     refdomain.NewService(refrepo.NewPostgres(dbConn)),
		Items:       itemdomain.NewService(itemrepo.NewPostgres(dbConn), groups, blobs),
		Discussions: discussiondomain.NewService(discussionrepo.NewPostgres(dbConn), groups, blobs),
		Media:       blobs,
	}

	log.Info("app: ready", "env", cfg.Env)
	return a, nil
}

// newMediaStore falls back to the in-process store when no object
// storage credentials are configured, which keeps local development
// free of a minio dependency.
func newMediaStore(ctx context.Context, cfg config.Config, log logger.Logger) (media.Store, error) {
	if cfg.Media.AccessKey == "" {
		log.Warn("media: no access key configured, using in-memory store")
		return media.NewMemory(), nil
	}

	store, err := media.NewMinio(ctx, cfg.Media)
	if err != nil {
		return nil, err
	}
	log.Info("media: object storage ready", "endpoint", cfg.Media.Endpoint, "bucket", cfg.Media.Bucket)
	return store, nil
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
