package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"netcontrol/internal/bootstrap/config"
	"netcontrol/internal/bootstrap/database"
	"netcontrol/internal/bootstrap/logging"
	"netcontrol/internal/infrastructure/bus"
	sqliterepo "netcontrol/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "netcontrol/internal/infrastructure/persistence/sqlite/uow"
	"netcontrol/internal/ports"
	"netcontrol/internal/transport/rest"
	"netcontrol/internal/transport/ws"
	"netcontrol/internal/usecase/opslog"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewEventRepository,
			fx.As(new(ports.EventRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewObservationRepository,
			fx.As(new(ports.ObservationRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewReferenceRepository,
			fx.As(new(ports.ReferenceRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideBus),
	fx.Provide(func(b bus.Bus) ports.Notifier { return b }),
	fx.Provide(provideAuthenticator),
	fx.Provide(opslog.NewService),
	fx.Provide(provideServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideBus(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (bus.Bus, error) {
	switch cfg.Bus.Driver {
	case "", "memory":
		return bus.NewHub(), nil
	case "nats":
		b, err := bus.NewNATSBus(ctx, cfg.Bus.NATSURL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				b.Close()
				return nil
			},
		})
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported bus driver %q", cfg.Bus.Driver)
	}
}

func provideAuthenticator(cfg config.Config) ports.Authenticator {
	return rest.NewStaticTokenAuthenticator(cfg.Auth.Token)
}

func provideServer(svc *opslog.Service, auth ports.Authenticator, b bus.Bus) *rest.Server {
	var wsHandler http.Handler = ws.NewHandler(b)
	return rest.NewServer(svc, auth, wsHandler)
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
