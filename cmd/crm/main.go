package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/config"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/jobs"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/schema"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/service"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/store"
	"github.com/enamyaovi/alx-backend-graphql-crm/internal/transport"
)

const appID = "crm"

func main() {
	app := &cli.App{
		Name:  appID,
		Usage: "CRM GraphQL backend and maintenance jobs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML or JSON config file",
				EnvVars: []string{"CRM_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the GraphQL API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:      "job",
				Usage:     "run one maintenance job once",
				ArgsUsage: "<heartbeat|low-stock|order-reminders|report>",
				Action:    runJob,
			},
			{
				Name:   "schedule",
				Usage:  "run every maintenance job on its cron schedule",
				Action: schedule,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("crm failed")
	}
}

func loadConfig(c *cli.Context) (config.Config, *log.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := log.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(level)
	return cfg, logger, nil
}

func openStore(c *cli.Context, cfg config.Config, logger *log.Logger) (*store.Store, error) {
	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(c.Context); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	st, err := openStore(c, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := schema.New(service.New(st, logger))
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}

	killSignalChan := getKillSignalChan()
	srv := startServer(cfg.HTTP.Addr, transport.Router(s, st, cfg.HTTP.GraphiQL, logger), logger)

	waitForKillSignalChan(killSignalChan, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func startServer(addr string, handler http.Handler, logger *log.Logger) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler}
	logger.WithField("addr", addr).Info("Starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()
	return srv
}

func migrate(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	st, err := openStore(c, cfg, logger)
	if err != nil {
		return err
	}
	logger.WithField("driver", cfg.Database.Driver).Info("database migrated")
	return st.Close()
}

func runJob(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	specs := jobs.Specs(cfg.Jobs)
	name := c.Args().First()
	spec, ok := specs[name]
	if !ok {
		return fmt.Errorf("unknown job %q, expected one of %s", name, strings.Join(jobs.Names(specs), ", "))
	}

	client := jobs.NewClient(cfg.GraphQLEndpoint, cfg.Client, logger)
	if err := jobs.Run(c.Context, spec, client); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s finished, see %s\n", spec.Name, spec.LogPath)
	return nil
}

func schedule(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	client := jobs.NewClient(cfg.GraphQLEndpoint, cfg.Client, logger)
	scheduler, err := jobs.NewScheduler(jobs.Specs(cfg.Jobs), client, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	killSignalChan := getKillSignalChan()
	go func() {
		waitForKillSignalChan(killSignalChan, logger)
		cancel()
	}()

	scheduler.Run(ctx)
	return nil
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignalChan(killSignalChan <-chan os.Signal, logger *log.Logger) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		logger.Info("Got SIGINT...")
	case syscall.SIGTERM:
		logger.Info("Got SIGTERM...")
	}
}
