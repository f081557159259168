package assetdex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver     string // "redis" or "sqlite"
	addrs      []string
	password   string
	sqlitePath string
	readiness  time.Duration

	baseURL string

	defaultPageSize      int
	maxResults           int
	defaultPageSizeGraph int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis stores assets in a Redis 8 instance (JSON + search modules).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite stores assets in a local SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.sqlitePath = path
	})
}

// WithReadinessTimeout bounds the wait for the database on New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithBaseURL sets the prefix of content and thumbnail URLs.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithPageSizes sets the default page size, the maximum page size and the
// default page size of compact listings. Non-positive values keep the defaults
// (20, 200, 20).
func WithPageSizes(defaultSize, maxResults, graphSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxResults = maxResults
		c.defaultPageSizeGraph = graphSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
