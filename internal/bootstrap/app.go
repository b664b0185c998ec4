package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/database"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/domain/lab"
	"labstore/internal/domain/schema"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/meta"
	"labstore/internal/infrastructure/persistence/relational/migrate"
	"labstore/internal/infrastructure/persistence/relational/repository"
	"labstore/internal/infrastructure/persistence/relational/session"
	"labstore/internal/infrastructure/persistence/relational/uow"
	"labstore/internal/ports"
)

// App owns the open store and everything bound to it.
type App struct {
	Config   config.Config
	DB       *gorm.DB
	Schema   *schema.Handle
	Sessions ports.SessionFactory
	Meta     ports.MetaStore
}

// CollectionCount is the number of rows stored in one collection.
type CollectionCount struct {
	Collection string
	Rows       int64
}

// Status describes a materialized store.
type Status struct {
	Fingerprint    string
	MaterializedAt string
	Collections    []CollectionCount
}

// New wires an App without fx. The connection stays open until Close.
func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.app")
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	app, err := assemble(cfg, db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))
	return app, nil
}

func assemble(cfg config.Config, db *gorm.DB) (*App, error) {
	h, err := schema.Define()
	if err != nil {
		return nil, errs.Wrap(err, "define schema")
	}
	repos, err := repository.NewLabRepositories(db, h)
	if err != nil {
		return nil, errs.Wrap(err, "bind repositories")
	}
	return &App{
		Config:   cfg,
		DB:       db,
		Schema:   h,
		Sessions: session.NewFactory(repos, uow.NewUnitOfWork(db)),
		Meta:     meta.NewStore(db),
	}, nil
}

// InitSchema materializes the lab schema. It is safe to call on every start.
func (a *App) InitSchema(ctx context.Context) (migrate.Report, error) {
	if ctx == nil {
		return migrate.Report{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return migrate.Report{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.app")
	logging.Info(logCtx, "start schema materialization")

	report, err := migrate.Materialize(ctx, a.DB, a.Schema, a.Meta)
	if err != nil {
		return report, errs.Wrap(err, "materialize schema")
	}

	logging.Info(logCtx, "schema materialization completed",
		slog.Any("created", report.Created),
		slog.Any("verified", report.Verified),
	)
	return report, nil
}

// Status reports row counts per collection in dependency order together with
// the stored schema fingerprint. The schema must be materialized.
func (a *App) Status(ctx context.Context) (Status, error) {
	if ctx == nil {
		return Status{}, errors.New("context is required")
	}

	var st Status
	fingerprint, _, err := a.Meta.Get(ctx, ports.MetaSchemaFingerprint)
	if err != nil {
		return st, errs.Wrap(err, "read schema fingerprint")
	}
	materializedAt, _, err := a.Meta.Get(ctx, ports.MetaMaterializedAt)
	if err != nil {
		return st, errs.Wrap(err, "read materialization time")
	}
	st.Fingerprint, st.MaterializedAt = fingerprint, materializedAt

	s := a.Sessions.Session()
	for _, entity := range a.Schema.Entities() {
		n, err := countRows(ctx, s, entity.Name)
		if err != nil {
			return st, errs.Wrapf(err, "count %s", entity.Name)
		}
		st.Collections = append(st.Collections, CollectionCount{Collection: entity.Name, Rows: n})
	}
	return st, nil
}

func countRows(ctx context.Context, s ports.Session, entity string) (int64, error) {
	switch entity {
	case lab.EntitySample:
		return s.Samples().Count(ctx)
	case lab.EntityCompound:
		return s.Compounds().Count(ctx)
	case lab.EntityAuditEntry:
		return s.AuditEntries().Count(ctx)
	case lab.EntityCalibration:
		return s.Calibrations().Count(ctx)
	case lab.EntityCalibrant:
		return s.Calibrants().Count(ctx)
	case lab.EntityQualityControl:
		return s.QualityControls().Count(ctx)
	}
	return 0, errors.New("unknown collection " + entity)
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := database.Close(a.DB); err != nil {
		return errs.Wrap(err, "close database")
	}

	logging.Info(logging.WithComponent(ctx, "bootstrap.app"), "database connection closed")
	return nil
}
