// Package app wires the webutils helpers into a single value: query
// parameters of the current location, storage, the JSON client and the date
// formatter.
package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pfrederiksen/webutils/internal/ajax"
	"github.com/pfrederiksen/webutils/internal/config"
	"github.com/pfrederiksen/webutils/internal/dateformat"
	"github.com/pfrederiksen/webutils/internal/logger"
	"github.com/pfrederiksen/webutils/internal/metrics"
	"github.com/pfrederiksen/webutils/internal/query"
	"github.com/pfrederiksen/webutils/internal/storage"
)

// App groups the helpers built from one Config
type App struct {
	// Storage is bound to the configured strategy
	Storage *storage.Storage

	// HTTP shares its cookie jar with Document
	HTTP *ajax.Client

	// Document is the cookie store of the configured page
	Document *storage.Document

	location  query.Location
	sessionID string
	dataDir   string
	backends  storage.Backends
	redis     *redis.Client
	logger    *zap.Logger
}

// New builds an App. collector may be nil. The local file store is only
// created once the local strategy is in use.
func New(cfg *config.Config, log *zap.Logger, collector *metrics.Collector) (*App, error) {
	log = logger.OrNop(log)

	doc, err := storage.NewDocument(cfg.CookieOrigin())
	if err != nil {
		return nil, fmt.Errorf("creating cookie document: %w", err)
	}

	a := &App{
		Document:  doc,
		location:  query.StaticLocation(cfg.Location),
		sessionID: cfg.Storage.SessionID,
		dataDir:   cfg.Storage.DataDir,
		logger:    log,
	}
	if a.sessionID == "" {
		a.sessionID = uuid.NewString()
	}

	strategy, err := storage.ParseStrategy(cfg.Storage.Strategy)
	if err != nil {
		return nil, err
	}

	session, err := a.sessionBackend(cfg)
	if err != nil {
		return nil, err
	}
	a.backends = storage.Backends{
		storage.StrategySession: session,
		storage.StrategyCookie:  storage.NewCookieStore(doc),
	}

	backend, err := a.backend(strategy)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Storage = storage.New(strategy, backend,
		storage.WithLogger(log.Named("storage")),
		storage.WithMetrics(collector))

	a.HTTP, err = ajax.NewClient(ajax.Options{
		BaseURL: baseURL(cfg),
		Timeout: cfg.HTTP.Timeout,
		Jar:     doc.Jar(),
		Logger:  log.Named("ajax"),
		Metrics: collector,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating http client: %w", err)
	}

	log.Debug("app initialized",
		zap.String("strategy", string(strategy)),
		zap.String("session_backend", cfg.Storage.SessionBackend),
		zap.String("location", cfg.Location))
	return a, nil
}

func (a *App) sessionBackend(cfg *config.Config) (storage.Backend, error) {
	switch strings.ToLower(cfg.Storage.SessionBackend) {
	case config.SessionRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return storage.NewRedisSessionStore(a.redis, a.sessionID, cfg.Storage.SessionTTL), nil
	case config.SessionMemory, "":
		return storage.NewSessionStoreWithID(a.sessionID), nil
	default:
		return nil, fmt.Errorf("invalid session backend: %s", cfg.Storage.SessionBackend)
	}
}

// backend returns the backend for strategy, opening the local store on first use
func (a *App) backend(strategy storage.Strategy) (storage.Backend, error) {
	if b, ok := a.backends[strategy]; ok {
		return b, nil
	}
	if strategy != storage.StrategyLocal {
		return nil, fmt.Errorf("%w: %s", storage.ErrNoBackend, strategy)
	}

	local, err := storage.NewLocalStore(a.dataDir)
	if err != nil {
		return nil, fmt.Errorf("creating local storage: %w", err)
	}
	a.backends[strategy] = local
	return local, nil
}

// baseURL is the configured base URL, or the location without its query and
// fragment, so path-relative URLs resolve like they do on the page
func baseURL(cfg *config.Config) string {
	if cfg.HTTP.BaseURL != "" {
		return cfg.HTTP.BaseURL
	}
	u, err := url.Parse(cfg.Location)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	base := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, Path: u.Path, RawPath: u.RawPath}
	if base.Path == "" {
		base.Path = "/"
	}
	return base.String()
}

// SessionID identifies the session behind the session strategy
func (a *App) SessionID() string {
	return a.sessionID
}

// RequestParams parses the query parameters of the configured location
func (a *App) RequestParams() *query.Params {
	return query.FromLocation(a.location)
}

// FormatDate formats t with pattern; an empty pattern uses the default
func (a *App) FormatDate(t time.Time, pattern string) string {
	return dateformat.Format(t, pattern)
}

// UseStrategy rebinds Storage to another backend. Values already stored stay
// in the previous backend.
func (a *App) UseStrategy(strategy storage.Strategy) error {
	backend, err := a.backend(strategy)
	if err != nil {
		return err
	}
	a.Storage = a.Storage.With(strategy, backend)
	return nil
}

// Close releases connections held by the storage backends
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	a.redis = nil
	return err
}
