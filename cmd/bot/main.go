// Package main boots the anime bot: long polling, the health/metrics HTTP
// sidecar and the maintenance subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/database"
	loginfra "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/server"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string
	// Version is the version of the compiled software.
	Version string
)

func newApp(meta loader.ServiceMetadata, logger log.Logger, hs *http.Server, bs *server.BotServer, sweeper *session.Sweeper, launcher *broadcast.Launcher) *kratos.App {
	return kratos.New(
		kratos.ID(meta.InstanceID),
		kratos.Name(firstNonEmpty(Name, meta.Name)),
		kratos.Version(firstNonEmpty(Version, meta.Version)),
		kratos.Metadata(map[string]string{"env": meta.Environment}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
			bs,
			sweeper,
			launcher,
		),
	)
}

// application runs startup chores (migrations, admin seeding) before the kratos app.
type application struct {
	app      *kratos.App
	pool     *pgxpool.Pool
	admins   *services.AdminService
	postgres loader.Postgres
	telegram loader.Telegram
	log      *log.Helper
}

func newApplication(app *kratos.App, pool *pgxpool.Pool, admins *services.AdminService, pg loader.Postgres, tg loader.Telegram, logger log.Logger) *application {
	return &application{
		app:      app,
		pool:     pool,
		admins:   admins,
		postgres: pg,
		telegram: tg,
		log:      log.NewHelper(logger),
	}
}

func (a *application) run(ctx context.Context) error {
	if a.postgres.AutoMigrate {
		if err := database.Migrate(ctx, a.pool); err != nil {
			return err
		}
		a.log.Info("database migrations applied")
	}
	if err := a.admins.Seed(ctx, a.telegram.SeedAdmins); err != nil {
		return err
	}
	return a.app.Run()
}

// maintenance 是不连接 Telegram 的运维依赖集合。
type maintenance struct {
	pool   *pgxpool.Pool
	admins *services.AdminService
}

func newMaintenance(pool *pgxpool.Pool, admins *services.AdminService) *maintenance {
	return &maintenance{pool: pool, admins: admins}
}

func main() {
	root := &cli.Command{
		Name:  "animebot",
		Usage: "Telegram anime distribution bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "conf",
				Aliases: []string{"c"},
				Usage:   "config file or directory (falls back to CONF_PATH, then ./configs)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			adminsCommand(),
		},
		Action: serve,
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the bot (default)",
		Action: serve,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withMaintenance(ctx, cmd, func(ctx context.Context, m *maintenance) error {
				if err := database.Migrate(ctx, m.pool); err != nil {
					return err
				}
				fmt.Println("migrations applied")
				return nil
			})
		},
	}
}

func adminsCommand() *cli.Command {
	return &cli.Command{
		Name:  "admins",
		Usage: "Inspect or change the admin set",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print admin ids",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMaintenance(ctx, cmd, func(ctx context.Context, m *maintenance) error {
						ids, err := m.admins.List(ctx)
						if err != nil {
							return err
						}
						for _, id := range ids {
							fmt.Println(id)
						}
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Grant admin rights",
				ArgsUsage: "<user-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := userIDArg(cmd)
					if err != nil {
						return err
					}
					return withMaintenance(ctx, cmd, func(ctx context.Context, m *maintenance) error {
						created, err := m.admins.Add(ctx, id)
						if err != nil {
							return err
						}
						if !created {
							fmt.Printf("%d is already an admin\n", id)
							return nil
						}
						fmt.Printf("%d added\n", id)
						return nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Revoke admin rights (the last admin cannot be removed)",
				ArgsUsage: "<user-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := userIDArg(cmd)
					if err != nil {
						return err
					}
					return withMaintenance(ctx, cmd, func(ctx context.Context, m *maintenance) error {
						if err := m.admins.Remove(ctx, id); err != nil {
							return err
						}
						fmt.Printf("%d removed\n", id)
						return nil
					})
				},
			},
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	bundle, logger, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	app, cleanup, err := wireApp(ctx, bundle, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.run(ctx)
}

func withMaintenance(ctx context.Context, cmd *cli.Command, fn func(context.Context, *maintenance) error) error {
	bundle, logger, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	m, cleanup, err := wireMaintenance(ctx, bundle, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, m)
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(cmd *cli.Command) (*loader.Bundle, log.Logger, error) {
	bundle, err := loader.Build(loader.Params{ConfPath: cmd.String("conf")})
	if err != nil {
		return nil, nil, err
	}
	cfg := loader.ProvideLoggerConfig(bundle.Service, bundle.Bootstrap)
	return bundle, loginfra.NewLogger(cfg), nil
}

func userIDArg(cmd *cli.Command) (int64, error) {
	raw := cmd.Args().First()
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
