package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Airside/internal/auth"
	"Airside/internal/calc/batch"
	"Airside/internal/calc/importer"
	"Airside/internal/calc/lookup"
	"Airside/internal/calc/multizone"
	"Airside/internal/calc/oa"
	"Airside/internal/calc/report"
	"Airside/internal/compliance"
	"Airside/internal/config"
	"Airside/internal/logging"
	"Airside/internal/repo"
	"Airside/internal/runs"
	"Airside/internal/standards"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg *config.Config, db *sql.DB, store *standards.Store, log *logrus.Logger) {
	authEnv := &auth.Authenv{
		JWTkey: []byte(cfg.Auth.TokenKey),
		Repo:   repo.NewPostgresUserDB(db),
		Log:    log,
		Secure: cfg.Auth.SecureCookie,
	}
	runRepo := repo.NewPostgresRunDB(db)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	lookupH := &lookup.Handler{Store: store, Log: log}
	oaH := &oa.Handler{}
	multizoneH := &multizone.Handler{}
	engine := compliance.NewEngine(store, log)
	complianceH := &compliance.Handler{Engine: engine, Runs: runRepo, Log: log}
	batchH := &batch.Handler{Engine: engine}
	runsH := &runs.RunsHandler{Repo: runRepo}
	reportH := &report.Handler{}
	importH := &importer.Handler{Repo: repo.NewPostgresStandardsDB(db), Log: log}

	secureApi.HandleFunc("/standards/lookup", lookupH.Calc).Methods("POST")
	secureApi.HandleFunc("/standards/import", importH.Standards).Methods("POST")
	secureApi.HandleFunc("/zones/outdoor-air", oaH.Calc).Methods("POST")
	secureApi.HandleFunc("/multizone/size", multizoneH.Calc).Methods("POST")
	secureApi.HandleFunc("/models/apply", complianceH.Apply).Methods("POST")
	secureApi.HandleFunc("/models/compare", batchH.Compare).Methods("POST")
	secureApi.HandleFunc("/runs", runsH.ListRuns).Methods("GET")
	secureApi.HandleFunc("/runs/{id}", runsH.GetRun).Methods("GET")
	secureApi.HandleFunc("/runs/{id}/pdf", runsH.GetRunPDF).Methods("GET")
	secureApi.HandleFunc("/reports/pdf", reportH.Generate).Methods("POST")

	mux.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func loadStandards(ctx context.Context, cfg *config.Config, db *sql.DB) (*standards.Store, error) {
	if cfg.Standards.Source == "database" {
		return repo.LoadStore(ctx, repo.NewPostgresStandardsDB(db))
	}
	return standards.Load(cfg.Standards.Path)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(os.Getenv("AIRSIDE_CONFIG"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.Log)
	if cfg.Auth.TokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	db, err := repo.Open(cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()
	if err := repo.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("schema setup failed")
	}

	store, err := loadStandards(ctx, cfg, db)
	if err != nil {
		log.WithError(err).Fatal("loading standards failed")
	}
	log.WithFields(logrus.Fields{
		"source": cfg.Standards.Source,
		"tables": len(store.Names()),
	}).Info("standards loaded")

	mux := mux.NewRouter()
	HandleList(mux, cfg, db, store, log)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("addr", server.Addr).Info("starting server")
		var err error
		if cfg.Server.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}
	log.Info("server stopped")

	wg.Wait()
}
