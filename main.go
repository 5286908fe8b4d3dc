//
// Santé Planète articles API
// ==========================
// A JSON REST service over the articles table: public reads, admin-gated
// writes.
//
// Boot the server:
// ----------------
// $ DATABASE_URL=postgres://localhost/sante?sslmode=disable ADMIN_PASSWORD=s3cret go run .
//
// Client requests:
// ----------------
// $ curl -X POST -H 'X-Admin-Password: s3cret' \
//     -d '{"title":"A","slug":"a","content":"x"}' http://localhost:3333/api/articles
// {"id":1,"title":"A","slug":"a","summary":"","category":"","content":"x",...}
//
// $ curl http://localhost:3333/api/articles/1
// {"id":1,"title":"A","slug":"a",...}
//
// $ curl -X DELETE -H 'X-Admin-Password: s3cret' http://localhost:3333/api/articles/1
// {"success":true}
//
// $ curl http://localhost:3333/api/articles/1
// {"status":"Resource not found.","error":"article not found"}
//
// Passing -routes prints the generated route docs and exits.
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyParamoshkin/santeplanete/internal/admin"
	"github.com/SergeyParamoshkin/santeplanete/internal/article"
	"github.com/SergeyParamoshkin/santeplanete/internal/config"
	"github.com/SergeyParamoshkin/santeplanete/internal/errresponse"
	"github.com/SergeyParamoshkin/santeplanete/internal/metrics"
	appmiddleware "github.com/SergeyParamoshkin/santeplanete/internal/middleware"
	"github.com/SergeyParamoshkin/santeplanete/internal/respond"
	"github.com/SergeyParamoshkin/santeplanete/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ServiceName = "rest"

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	sugarLogger *zap.SugaredLogger
	config      *config.Config
	metrics     *metrics.Metrics
	db          Pinger
}

func main() {
	var (
		routes     = flag.Bool("routes", getEnvBool(ServiceName+"_ROUTES", false), "Generate router documentation")
		addr       = flag.String("addr", getEnv(ServiceName+"_ADDR", ""), "application address, overrides server.addr")
		diagAddr   = flag.String("diag_addr", getEnv(ServiceName+"_DIAG_ADDR", ""), "diag address, overrides server.diag_addr")
		configPath = flag.String("config", getEnv(ServiceName+"_CONFIG", "config.yml"), "path to the YAML config file")
	)

	flag.Parse()

	if *routes {
		printRoutes()
		return
	}

	os.Exit(run(*configPath, *addr, *diagAddr))
}

func run(configPath, addr, diagAddr string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if diagAddr != "" {
		cfg.Server.DiagAddr = diagAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	if cfg.Admin.Open {
		sugar.Warnw("admin gate is open: article writes need no credential")
	}

	exporter, err := metrics.NewPrometheus()
	if err != nil {
		sugar.Errorw("failed to initialize prometheus exporter", "error", err)
		return 1
	}
	m := metrics.New(ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		sugar.Errorw("failed to connect to database", "error", err)
		return 1
	}
	db := storage.New(pool, cfg.Database.QueryTimeout, storage.WithRecorder(m))
	defer func() {
		if err := db.Close(); err != nil {
			sugar.Errorw("close database", "error", err)
		}
	}()
	sugar.Infow("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"query_timeout", cfg.Database.QueryTimeout,
	)

	a := App{
		sugarLogger: sugar,
		config:      cfg,
		metrics:     m,
		db:          db,
	}

	api := article.NewAPI(article.NewStore(db), admin.NewGate(cfg.Admin.Password, cfg.Admin.Open))

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.Router(api),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	diag := &http.Server{
		Addr:    cfg.Server.DiagAddr,
		Handler: diagRouter,
	}

	errCh := make(chan error, 2)
	for _, s := range []*http.Server{srv, diag} {
		s := s
		go func() {
			sugar.Infow("listening", "addr", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	code := 0
	select {
	case <-ctx.Done():
		sugar.Infow("shutting down")
	case err := <-errCh:
		sugar.Errorw(err.Error())
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	for _, s := range []*http.Server{srv, diag} {
		if err := s.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("server shutdown", "addr", s.Addr, "error", err)
		}
	}

	return code
}

// Router wires the middleware stack and mounts the article resource.
func (a *App) Router(api *article.API) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.Logger(a.sugarLogger))
	r.Use(appmiddleware.RequestLog(a.metrics))
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	}

	r.NotFound(errresponse.NotFound)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("root."))
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("pong"))
		if err != nil {
			appmiddleware.LoggerFromContext(r.Context()).Errorw(err.Error())
		}
	})

	r.Get("/health", a.Health)

	// RESTy routes for "articles" resource
	r.Mount(article.Prefix, api.Routes())

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports 200 when storage answers a ping and 503 otherwise.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.Ping(r.Context()); err != nil {
		appmiddleware.LoggerFromContext(r.Context()).Warnw("health check failed", "error", err)
		respond.JSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	respond.JSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}

// printRoutes prints the route docs. The router is built without storage;
// no handler runs.
func printRoutes() {
	a := App{
		sugarLogger: zap.NewNop().Sugar(),
		config:      &config.Config{},
		metrics:     metrics.New(ServiceName),
	}
	r := a.Router(article.NewAPI(article.NewStore(nil), admin.NewGate("", false)))

	fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/SergeyParamoshkin/santeplanete",
		Intro:       "Santé Planète articles API routes.",
	}))
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
