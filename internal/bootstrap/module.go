package bootstrap

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/database"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/domain/schema"
	"labstore/internal/infrastructure/meta"
	"labstore/internal/infrastructure/persistence/relational/repository"
	"labstore/internal/infrastructure/persistence/relational/session"
	"labstore/internal/infrastructure/persistence/relational/uow"
	"labstore/internal/ports"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(schema.Define),
	fx.Provide(repository.NewLabRepositories),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			session.NewFactory,
			fx.As(new(ports.SessionFactory)),
		),
	),
	fx.Provide(
		fx.Annotate(
			meta.NewStore,
			fx.As(new(ports.MetaStore)),
		),
	),
	fx.Provide(provideApp),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithComponent(p.Ctx, "bootstrap.fx")
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithComponent(ctx, "bootstrap.fx")

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return database.Close(db)
		},
	})

	return db, nil
}

type appParams struct {
	fx.In

	Config   config.Config
	DB       *gorm.DB
	Schema   *schema.Handle
	Sessions ports.SessionFactory
	Meta     ports.MetaStore
}

func provideApp(p appParams) *App {
	return &App{
		Config:   p.Config,
		DB:       p.DB,
		Schema:   p.Schema,
		Sessions: p.Sessions,
		Meta:     p.Meta,
	}
}
