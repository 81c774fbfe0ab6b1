package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	echoapi "github.com/trezcool/mentori/apps/api/echo"
	"github.com/trezcool/mentori/core"
	"github.com/trezcool/mentori/core/user"
	emailsvc "github.com/trezcool/mentori/services/email"
	logsvc "github.com/trezcool/mentori/services/logger"
	"github.com/trezcool/mentori/services/objectstore"
	"github.com/trezcool/mentori/services/scheduler"
	"github.com/trezcool/mentori/storage/database"
	inmemdb "github.com/trezcool/mentori/storage/database/inmem"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "API"), conf)
	dbLogger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "DB"), conf)

	// set up DB
	repos, closeDB, err := setUpDB(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up database: %v", err), err)
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	mailSvc := emailsvc.New(conf, logger)
	store, err := objectstore.New(conf)
	if err != nil {
		logger.Error(fmt.Sprintf("setting up object storage: %v", err), err)
		return err
	}
	deps := echoapi.NewServerDeps(conf, logger, repos, mailSvc, store)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.ParseEmailTemplates(conf, logger)

	if conf.Database.Engine == "memory" {
		seedUsers(deps.UserSvc, logger)
	}

	// =========================================================================
	// Start Scheduler

	if conf.Scheduler.Enabled {
		sched, err := scheduler.New(conf, deps.AssignmentSvc, deps.UserSvc, logger)
		if err != nil {
			logger.Error(fmt.Sprintf("setting up scheduler: %v", err), err)
			return err
		}
		sched.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()
			sched.Stop(ctx)
		}()
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus collectors.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	http.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(deps)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)
		return err

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				return err
			}
		}
	}
	return nil
}

// setUpDB returns the repositories for the configured engine: "memory" or PostgreSQL.
func setUpDB(conf *core.Config) (database.Repositories, func() error, error) {
	if conf.Database.Engine == "memory" {
		return inmemdb.NewRepositories(inmemdb.Open()), func() error { return nil }, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return database.Repositories{}, nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return database.Repositories{}, nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		_ = db.Close()
		return database.Repositories{}, nil, err
	}
	return database.NewSQLRepositories(db), db.Close, nil
}

// seedUsers gives a fresh in-memory database the demo accounts so it can be logged into.
func seedUsers(svc *user.Service, logger core.Logger) {
	for _, acc := range user.SeedAccounts {
		if _, err := svc.AddOrUpdate(context.Background(), acc.Email, acc.Nickname, acc.Role, acc.Password); err != nil {
			logger.Error(fmt.Sprintf("seeding %s: %v", acc.Email, err), err)
		}
	}
}
