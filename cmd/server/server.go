package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api"
	"github.com/irsalhamdi/learner-portal/cache"
	"github.com/irsalhamdi/learner-portal/config"
	"github.com/irsalhamdi/learner-portal/database"
	"github.com/irsalhamdi/learner-portal/metrics"
	"github.com/irsalhamdi/learner-portal/rate"
	"github.com/irsalhamdi/learner-portal/session"
	"github.com/irsalhamdi/learner-portal/upstream"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "PORTAL"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if err == conf.ErrHelpWanted {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	logger.Infof("startup config:\n%v", out)

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	bg, stop := context.WithCancel(context.Background())
	defer stop()

	var store scs.Store
	var db *sqlx.DB
	if cfg.DB.Host != "" {
		db, err = database.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open db connection: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate db: %w", err)
		}

		s := session.NewStore(db)
		go s.Cleanup(bg, logger, 5*time.Minute)
		store = s
	} else {
		logger.Warn("no database configured, sessions are kept in memory")
	}
	sessionManager := session.NewManager(cfg.Session, store)

	shared := cache.NewShared(nil, "")
	if cfg.Redis.Host != "" {
		rdb, err := cache.NewRedis(bg, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		shared = cache.NewShared(rdb, "portal:")
		defer shared.Close()
	}

	local := cache.NewStore(cfg.Cache.QueryTTL)
	go local.Run(bg, time.Minute)

	mtr := metrics.New()

	cl := upstream.New(upstream.Config{
		BaseURL:       cfg.Upstream.BaseURL,
		Timeout:       cfg.Upstream.Timeout,
		SessionCookie: cfg.Upstream.SessionCookie,
		CSRFCookie:    cfg.Upstream.CSRFCookie,
		Log:           logger,
		Local:         local,
		Shared:        shared,
		SharedTTL:     cfg.Cache.CatalogTTL,
		Metrics:       mtr,
	})

	limiter := rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.RPS, cfg.Rate.Expiry)
	go limiter.Run(bg)

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:        cfg.Cors.Origin,
		Log:               logger,
		DB:                db,
		Session:           sessionManager,
		Upstream:          cl,
		Limiter:           limiter,
		Metrics:           mtr,
		SessionCookie:     cfg.Upstream.SessionCookie,
		CSRFCookie:        cfg.Upstream.CSRFCookie,
		SupportEmail:      cfg.Support.Email,
		AddlProfileFields: cfg.Features.AddlProfileFields,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
