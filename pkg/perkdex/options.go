package perkdex

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverNone  = ""
	driverFS    = "fs"
	driverRedis = "redis"
)

type clientConfig struct {
	driver string

	dir        string
	extensions []string
	workers    int

	addrs     []string
	password  string
	keyPrefix string

	topK     int
	maxTopK  int
	strategy Strategy

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithDir reads offer documents from dir. Only files with the given
// extensions are indexed (default ".txt" and ".pdf").
func WithDir(dir string, extensions ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverFS
		c.dir = dir
		c.extensions = extensions
	})
}

// WithWorkers sets how many files are read in parallel by the directory source.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithRedis reads offer documents from Redis string keys under keyPrefix.
// An empty prefix uses "perkdex:offers:".
func WithRedis(addr, password, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
		c.keyPrefix = keyPrefix
	})
}

// WithTopK sets the default and maximum number of results per query.
// Defaults: 10 and 100.
func WithTopK(topK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = topK
		c.maxTopK = maxTopK
	})
}

// WithStrategy sets the default scoring strategy. Default: StrategyName.
func WithStrategy(s Strategy) Option {
	return optionFunc(func(c *clientConfig) {
		c.strategy = s
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
