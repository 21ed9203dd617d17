package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migrates "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pulsefit/atalanta/internal/achievements"
	"github.com/pulsefit/atalanta/internal/bus"
	"github.com/pulsefit/atalanta/internal/feed"
	"github.com/pulsefit/atalanta/internal/profile"
	"github.com/pulsefit/atalanta/internal/refresher"
	"github.com/pulsefit/atalanta/internal/remote/httpclient"
	"github.com/pulsefit/atalanta/internal/session"
	"github.com/pulsefit/atalanta/internal/storage/sqlite"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host string `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port int    `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for health and metrics"`

	APIURL      string `long:"api.url" env:"API_URL" default:"https://api.pulsefit.app" description:"backend base url"`
	APIToken    string `long:"api.token" env:"API_TOKEN" description:"bearer token for the backend"`
	APIUsername string `long:"api.username" env:"API_USERNAME" description:"signed-in username"`

	SQLite           string `long:"sqlite" env:"SQLITE" default:"atalanta.db" description:"sqlite cache path"`
	SQLiteMigrations string `long:"sqlite.migrations" env:"SQLITE_MIGRATIONS" default:"scripts/migrations/sqlite" description:"sqlite migrations directory"`

	FeedLimit       int           `long:"feed.limit" env:"FEED_LIMIT" default:"5" description:"feed page size"`
	RefreshInterval time.Duration `long:"refresh.interval" env:"REFRESH_INTERVAL" default:"5m" description:"background refresh interval"`

	LogLevel string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Atalanta"
	parser.LongDescription = "Atalanta is the local-first sync layer for the PulseFit app"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")
	logrus.Infof("%+v", opts)

	db := mustGetDB()

	sess := session.New(opts.APIUsername, opts.APIToken)

	cache := sqlite.New(db)
	client := httpclient.New(opts.APIURL, sess)
	b := bus.New()

	f := feed.New(client, cache, b, sess, opts.FeedLimit)
	a := achievements.New(client, cache)
	p := profile.New(client, cache)

	r := chi.NewMux()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())

	gr, _ := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return refresher.New(f, a, p, b, sess, opts.RefreshInterval).Run(ctx)
	})
	gr.Go(srv.ListenAndServe)
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		s := <-sigs

		logrus.Infof("terminating by %s signal", s)

		cancel()

		return errTerminated
	})

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("atalanta unexpectedly closed")
	}
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("sqlite3", opts.SQLite)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open sqlite cache")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping sqlite")
	}

	driver, err := migrates.WithInstance(db, &migrates.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.SQLiteMigrations), "sqlite3", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
