package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Service names one of the deployable processes.
type Service string

const (
	ServiceBookings Service = "bookings"
	ServiceRewards  Service = "rewards"
	ServiceUsers    Service = "users"
)

// Config holds application level configuration loaded from a file, environment and flags.
type Config struct {
	Service Service

	RunAddress      string
	DatabaseURI     string
	RewardsAddress  string
	BookingsAddress string
	MoviesAddress   string

	RequestTimeout   time.Duration
	RetryCount       int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration

	SweepInterval     time.Duration
	SweepBatchSize    int
	SweepWorkers      int
	MaxRewardAttempts int
	RewardRetryBase   time.Duration
	RewardRetryMax    time.Duration
	PendingGrace      time.Duration
	RewardPoints      int64

	PrizeThreshold int64
	AutoProvision  bool

	FanoutWorkers int

	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRequestTimeout    = 2 * time.Second
	defaultRetryCount        = 2
	defaultBackoffBase       = 100 * time.Millisecond
	defaultBackoffMax        = 2 * time.Second
	defaultBreakerThreshold  = 5
	defaultBreakerCooldown   = 30 * time.Second
	defaultSweepInterval     = 10 * time.Second
	defaultSweepBatchSize    = 32
	defaultSweepWorkers      = 4
	defaultMaxRewardAttempts = 5
	defaultRewardRetryBase   = 5 * time.Second
	defaultRewardRetryMax    = 5 * time.Minute
	defaultPendingGrace      = 30 * time.Second
	defaultRewardPoints      = 1
	defaultPrizeThreshold    = 5
	defaultFanoutWorkers     = 4
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
)

var defaultRunAddresses = map[Service]string{
	ServiceUsers:    ":5000",
	ServiceBookings: ":5003",
	ServiceRewards:  ":5004",
}

// Load parses configuration of the given service from flags, environment variables and
// the optional CONFIG_FILE.
func Load(service Service) (*Config, error) {
	return load(service, os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(service Service, args []string, lookup envLookup) (*Config, error) {
	defaultRunAddress, ok := defaultRunAddresses[service]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", service)
	}

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		fromFile, err := fileLookup(path)
		if err != nil {
			return nil, err
		}
		lookup = chain(lookup, fromFile)
	}

	cfg := &Config{
		Service:           service,
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		RewardsAddress:    getString(lookup, "REWARDS_ADDRESS", ""),
		BookingsAddress:   getString(lookup, "BOOKINGS_ADDRESS", ""),
		MoviesAddress:     getString(lookup, "MOVIES_ADDRESS", ""),
		RequestTimeout:    getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		RetryCount:        getInt(lookup, "RETRY_COUNT", defaultRetryCount),
		BackoffBase:       getDuration(lookup, "BACKOFF_BASE", defaultBackoffBase),
		BackoffMax:        getDuration(lookup, "BACKOFF_MAX", defaultBackoffMax),
		BreakerThreshold:  getInt(lookup, "BREAKER_THRESHOLD", defaultBreakerThreshold),
		BreakerCooldown:   getDuration(lookup, "BREAKER_COOLDOWN", defaultBreakerCooldown),
		SweepInterval:     getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatchSize:    getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		SweepWorkers:      getInt(lookup, "SWEEP_WORKERS", defaultSweepWorkers),
		MaxRewardAttempts: getInt(lookup, "MAX_REWARD_ATTEMPTS", defaultMaxRewardAttempts),
		RewardRetryBase:   getDuration(lookup, "REWARD_RETRY_BASE", defaultRewardRetryBase),
		RewardRetryMax:    getDuration(lookup, "REWARD_RETRY_MAX", defaultRewardRetryMax),
		PendingGrace:      getDuration(lookup, "PENDING_GRACE", defaultPendingGrace),
		RewardPoints:      int64(getInt(lookup, "REWARD_POINTS", defaultRewardPoints)),
		PrizeThreshold:    int64(getInt(lookup, "PRIZE_THRESHOLD", defaultPrizeThreshold)),
		AutoProvision:     getBool(lookup, "AUTO_PROVISION", false),
		FanoutWorkers:     getInt(lookup, "FANOUT_WORKERS", defaultFanoutWorkers),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet(string(service), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		requestTimeoutStr  = cfg.RequestTimeout.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RewardsAddress, "rewards", cfg.RewardsAddress, "Rewards service base URL")
	fs.StringVar(&cfg.BookingsAddress, "bookings", cfg.BookingsAddress, "Bookings service base URL")
	fs.StringVar(&cfg.MoviesAddress, "movies", cfg.MoviesAddress, "Movies service base URL")
	fs.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Per-attempt timeout of outbound calls")
	fs.IntVar(&cfg.RetryCount, "retries", cfg.RetryCount, "Retries of a failed outbound call")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between reconciliation sweeps")
	fs.IntVar(&cfg.SweepWorkers, "sweep-workers", cfg.SweepWorkers, "Concurrent dispatches per sweep")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum bookings per sweep")
	fs.BoolVar(&cfg.AutoProvision, "auto-provision", cfg.AutoProvision, "Create ledger entries for unknown users on credit")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.BackoffMax < c.BackoffBase {
		c.BackoffMax = c.BackoffBase
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = defaultBreakerThreshold
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = defaultBreakerCooldown
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = defaultSweepBatchSize
	}
	if c.SweepWorkers <= 0 {
		c.SweepWorkers = defaultSweepWorkers
	}
	if c.MaxRewardAttempts <= 0 {
		c.MaxRewardAttempts = defaultMaxRewardAttempts
	}
	if c.RewardRetryBase <= 0 {
		c.RewardRetryBase = defaultRewardRetryBase
	}
	if c.RewardRetryMax < c.RewardRetryBase {
		c.RewardRetryMax = c.RewardRetryBase
	}
	if c.PendingGrace < 0 {
		c.PendingGrace = 0
	}
	if c.RewardPoints <= 0 {
		c.RewardPoints = defaultRewardPoints
	}
	if c.PrizeThreshold <= 0 {
		c.PrizeThreshold = defaultPrizeThreshold
	}
	if c.FanoutWorkers <= 0 {
		c.FanoutWorkers = defaultFanoutWorkers
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *Config) validate() error {
	if c.DatabaseURI == "" {
		return fmt.Errorf("database URI must be provided")
	}

	switch c.Service {
	case ServiceBookings:
		if c.RewardsAddress == "" {
			return fmt.Errorf("rewards address must be provided")
		}
	case ServiceUsers:
		if c.BookingsAddress == "" {
			return fmt.Errorf("bookings address must be provided")
		}
		if c.MoviesAddress == "" {
			return fmt.Errorf("movies address must be provided")
		}
	}

	return nil
}

func chain(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
