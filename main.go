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

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"Concreteflow/internal/auth"
	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/calc/norms"
	"Concreteflow/internal/calc/report"
	"Concreteflow/internal/calc/run"
	"Concreteflow/internal/calc/verify"
	"Concreteflow/internal/catalog"
	"Concreteflow/internal/config"
	"Concreteflow/internal/logging"
	"Concreteflow/internal/metrics"
	"Concreteflow/internal/repo"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type deps struct {
	cfg     config.Config
	log     *zap.Logger
	users   repo.Users
	store   catalog.Store
	metrics *metrics.Metrics
}

func HandleList(mux *mux.Router, d deps) {
	registry := norms.NewRegistry()
	authEnv := &auth.Authenv{JWTkey: []byte(d.cfg.TokenKey), Users: d.users, Log: d.log, Secure: d.cfg.TLS()}
	limiter := auth.NewIPRateLimiter(rate.Limit(d.cfg.RateLimit), d.cfg.RateBurst)

	runH := &run.Handler{
		Runner: &run.Runner{
			Registry: registry,
			Catalogs: d.store,
			Log:      d.log,
			Metrics:  d.metrics,
		},
		MaxAlternatives: d.cfg.MaxAlternatives,
	}
	verifyH := &verify.Handler{Registry: registry}
	joistH := &joist.Handler{MaxAlternatives: d.cfg.MaxAlternatives}
	reportH := &report.Handler{Run: runH}
	catalogH := &catalog.Handler{Store: d.store, Log: d.log, Metrics: d.metrics}

	mux.Handle("/metrics", d.metrics.Handler()).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/norms", verifyH.Norms).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/tools/verify/calc", verifyH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/verify/compare", verifyH.Compare).Methods("POST")
	secureApi.HandleFunc("/tools/joist/select", joistH.Select).Methods("POST")
	secureApi.HandleFunc("/tools/joist/batch", joistH.Batch).Methods("POST")
	secureApi.HandleFunc("/tools/run", runH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/catalogs/import", catalogH.Import).Methods("POST")
}

// openStore uses Postgres when DATABASE_URL is set and an in-memory store
// otherwise. Logins need the database.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.Users, catalog.Store, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set: catalogs kept in memory, logins disabled")
		return noUsers{}, catalog.NewMemory(), nil, nil
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	pg := repo.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return pg, pg, db, nil
}

type noUsers struct{}

func (noUsers) GetByLogin(context.Context, string) (repo.User, error) {
	return repo.User{}, repo.ErrNotFound
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		// the logger is not built yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	openCtx, openCancel := context.WithTimeout(ctx, 10*time.Second)
	users, store, db, err := openStore(openCtx, cfg, log)
	openCancel()
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	mux := mux.NewRouter()
	HandleList(mux, deps{cfg: cfg, log: log, users: users, store: store, metrics: metrics.New()})
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")

	wg.Wait()
}
