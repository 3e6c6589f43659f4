package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pfrederiksen/webutils/internal/logger"
	"github.com/pfrederiksen/webutils/internal/metrics"
)

// Strategy names a storage backend
type Strategy string

const (
	StrategySession Strategy = "session"
	StrategyCookie  Strategy = "cookie"
	StrategyLocal   Strategy = "local"
)

var (
	// ErrUnknownStrategy is returned for strategy names that are not recognized
	ErrUnknownStrategy = errors.New("unknown storage strategy")

	// ErrNoBackend is returned when no backend is available for a strategy
	ErrNoBackend = errors.New("no backend for storage strategy")
)

// ParseStrategy converts a strategy name to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategySession, StrategyCookie, StrategyLocal:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Backend stores string values by name. Get reports ok=false when the name
// has no value.
type Backend interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
}

// Backends maps each strategy to the backend implementing it
type Backends map[Strategy]Backend

// Storage forwards get and set to the backend chosen at construction
type Storage struct {
	strategy Strategy
	backend  Backend
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures a Storage
type Option func(*Storage)

// WithLogger sets the logger used for storage operations
func WithLogger(l *zap.Logger) Option {
	return func(s *Storage) {
		s.logger = logger.OrNop(l)
	}
}

// WithMetrics sets the collector that counts storage operations
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Storage) {
		s.metrics = c
	}
}

// New creates a Storage bound to backend
func New(strategy Strategy, backend Backend, opts ...Option) *Storage {
	s := &Storage{
		strategy: strategy,
		backend:  backend,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromStrategy creates a Storage bound to the backend registered for strategy
func FromStrategy(strategy Strategy, backends Backends, opts ...Option) (*Storage, error) {
	backend, ok := backends[strategy]
	if !ok || backend == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, strategy)
	}
	return New(strategy, backend, opts...), nil
}

// With returns a Storage over another backend that keeps the logger and
// metrics of s. Values already stored through s stay where they are.
func (s *Storage) With(strategy Strategy, backend Backend) *Storage {
	return &Storage{
		strategy: strategy,
		backend:  backend,
		logger:   s.logger,
		metrics:  s.metrics,
	}
}

// Strategy returns the strategy the facade is bound to
func (s *Storage) Strategy() Strategy {
	return s.strategy
}

// Set stores value under name in the active backend
func (s *Storage) Set(ctx context.Context, name, value string) error {
	if err := s.backend.Set(ctx, name, value); err != nil {
		s.metrics.StorageOp(string(s.strategy), "set", "error")
		s.logger.Warn("storage set failed",
			zap.String("strategy", string(s.strategy)),
			zap.String("name", name),
			zap.Error(err))
		return fmt.Errorf("setting %q in %s storage: %w", name, s.strategy, err)
	}

	s.metrics.StorageOp(string(s.strategy), "set", "ok")
	s.logger.Debug("storage set",
		zap.String("strategy", string(s.strategy)),
		zap.String("name", name))
	return nil
}

// Get reads name from the active backend. ok is false when there is no value.
func (s *Storage) Get(ctx context.Context, name string) (string, bool, error) {
	value, ok, err := s.backend.Get(ctx, name)
	if err != nil {
		s.metrics.StorageOp(string(s.strategy), "get", "error")
		s.logger.Warn("storage get failed",
			zap.String("strategy", string(s.strategy)),
			zap.String("name", name),
			zap.Error(err))
		return "", false, fmt.Errorf("getting %q from %s storage: %w", name, s.strategy, err)
	}

	result := "miss"
	if ok {
		result = "hit"
	}
	s.metrics.StorageOp(string(s.strategy), "get", result)
	s.logger.Debug("storage get",
		zap.String("strategy", string(s.strategy)),
		zap.String("name", name),
		zap.Bool("found", ok))
	return value, ok, nil
}
