package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"bayarcash-backend/internal/domains/payment/model"
)

const defaultTokenSecret = "change-me-bayarcash-token-secret"

// Config holds the whole application configuration, read from the environment
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Bayarcash BayarcashConfig
	Token     TokenConfig
	Sweep     SweepConfig
	Kafka     KafkaConfig
	Worker    WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN is the lib/pq connection string used by the migrate command.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	PoolSize int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// =====================================================
// BAYARCASH CONFIGURATION
// =====================================================

type BayarcashConfig struct {
	SiteURL      string // public base URL used in return and receipt links
	HTTPTimeout  time.Duration
	ChannelsFile string
	Methods      map[string]model.MethodSettings
	Channels     map[string]model.Channel
}

type TokenConfig struct {
	Secret    string
	TTL       time.Duration
	LedgerTTL time.Duration
}

type SweepConfig struct {
	Cron       string
	BatchSize  int
	RequeryRPS float64
	LeaseTTL   time.Duration
	Methods    []string
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

type WorkerConfig struct {
	Concurrency int
	Queues      map[string]int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bayarcash Reconciliation"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bayarcash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Issuer: getEnv("JWT_ISSUER", "bayarcash-backend"),
		},
		Bayarcash: BayarcashConfig{
			SiteURL:      strings.TrimRight(getEnv("BAYARCASH_SITE_URL", "http://localhost:8080"), "/"),
			HTTPTimeout:  getEnvDuration("BAYARCASH_HTTP_TIMEOUT", 30*time.Second),
			ChannelsFile: getEnv("BAYARCASH_CHANNELS_FILE", ""),
		},
		Token: TokenConfig{
			Secret:    getEnv("TOKEN_SECRET", defaultTokenSecret),
			TTL:       getEnvDuration("TOKEN_TTL", 30*time.Minute),
			LedgerTTL: getEnvDuration("TOKEN_LEDGER_TTL", model.DefaultTokenLedgerTTL),
		},
		Sweep: SweepConfig{
			Cron:       getEnv("SWEEP_CRON", "*/5 * * * *"),
			BatchSize:  getEnvInt("SWEEP_BATCH_SIZE", model.DefaultSweepBatchSize),
			RequeryRPS: getEnvFloat("SWEEP_REQUERY_RPS", 5),
			LeaseTTL:   getEnvDuration("SWEEP_LEASE_TTL", 4*time.Minute),
			Methods:    getEnvList("SWEEP_METHODS", model.SweepableMethods),
		},
		Kafka: KafkaConfig{
			Enabled:      getEnvBool("KAFKA_ENABLED", false),
			Brokers:      getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:        getEnv("KAFKA_TOPIC", "bayarcash.order-events"),
			PollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 50),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 10),
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	}

	methods, channels, err := loadMethods(cfg.Bayarcash.ChannelsFile)
	if err != nil {
		return nil, err
	}
	cfg.Bayarcash.Methods = methods
	cfg.Bayarcash.Channels = channels

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that must never fall back to defaults in production
func (c *Config) Validate() error {
	if c.Sweep.BatchSize <= 0 {
		return fmt.Errorf("SWEEP_BATCH_SIZE must be positive")
	}
	if len(c.Token.Secret) < 16 {
		return fmt.Errorf("TOKEN_SECRET must be at least 16 characters")
	}

	if c.App.Environment == "production" {
		if c.Token.Secret == defaultTokenSecret {
			return fmt.Errorf("TOKEN_SECRET must be set in production")
		}
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if !strings.HasPrefix(c.Bayarcash.SiteURL, "https://") {
			return fmt.Errorf("BAYARCASH_SITE_URL must use https in production")
		}
	}

	return nil
}

// =====================================================
// PAYMENT METHODS
// =====================================================

// channelsFile is the optional YAML overlay:
//
//	methods:
//	  bayarcash-wc:
//	    portal_key: ...
//	channels:
//	  bayarcash-wc:
//	    title: Online Banking
type channelsFile struct {
	Methods  map[string]methodOverlay  `yaml:"methods"`
	Channels map[string]channelOverlay `yaml:"channels"`
}

type methodOverlay struct {
	Enabled       *bool  `yaml:"enabled"`
	PortalKey     string `yaml:"portal_key"`
	BearerToken   string `yaml:"bearer_token"`
	APISecretKey  string `yaml:"api_secret_key"`
	Sandbox       *bool  `yaml:"sandbox"`
	Debug         *bool  `yaml:"debug"`
	EmailFallback string `yaml:"email_fallback"`
}

type channelOverlay struct {
	Title         string `yaml:"title"`
	MethodTitle   string `yaml:"method_title"`
	Description   string `yaml:"description"`
	ChannelNumber int    `yaml:"channel_number"`
	Icon          string `yaml:"icon"`
	MaxAmount     string `yaml:"max_amount"`
}

// MethodEnvPrefix maps a method id to its env prefix, e.g. bayarcash-wc to BAYARCASH_FPX_.
func MethodEnvPrefix(method string) string {
	if method == model.MethodFPX {
		return "BAYARCASH_FPX_"
	}
	name := strings.TrimSuffix(method, "-wc")
	return "BAYARCASH_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_"
}

// loadMethods reads per-method credentials from env, then applies the YAML overlay.
// Shared BAYARCASH_PORTAL_KEY / BAYARCASH_BEARER_TOKEN / BAYARCASH_API_SECRET_KEY
// fill any method-specific value left empty.
func loadMethods(path string) (map[string]model.MethodSettings, map[string]model.Channel, error) {
	channels := model.DefaultChannels()
	methods := make(map[string]model.MethodSettings)

	shared := model.MethodSettings{
		PortalKey:    os.Getenv("BAYARCASH_PORTAL_KEY"),
		BearerToken:  os.Getenv("BAYARCASH_BEARER_TOKEN"),
		APISecretKey: os.Getenv("BAYARCASH_API_SECRET_KEY"),
	}
	sandbox := getEnvBool("BAYARCASH_SANDBOX", false)

	for method := range channels {
		prefix := MethodEnvPrefix(method)
		s := model.MethodSettings{
			Method:        method,
			PortalKey:     getEnv(prefix+"PORTAL_KEY", shared.PortalKey),
			BearerToken:   getEnv(prefix+"BEARER_TOKEN", shared.BearerToken),
			APISecretKey:  getEnv(prefix+"API_SECRET_KEY", shared.APISecretKey),
			Sandbox:       getEnvBool(prefix+"SANDBOX", sandbox),
			Debug:         getEnvBool(prefix+"DEBUG", false),
			EmailFallback: getEnv(prefix+"EMAIL_FALLBACK", ""),
		}
		s.Enabled = getEnvBool(prefix+"ENABLED", s.BearerToken != "")
		if s.Enabled || s.BearerToken != "" {
			methods[method] = s
		}
	}

	if path == "" {
		return methods, channels, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read channels file: %w", err)
	}
	var overlay channelsFile
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, nil, fmt.Errorf("failed to parse channels file: %w", err)
	}

	for method, o := range overlay.Methods {
		if _, known := channels[method]; !known {
			return nil, nil, fmt.Errorf("unknown payment method %q in channels file", method)
		}
		s, ok := methods[method]
		if !ok {
			s = model.MethodSettings{Method: method}
		}
		applyMethodOverlay(&s, o)
		methods[method] = s
	}

	for method, o := range overlay.Channels {
		ch, known := channels[method]
		if !known {
			return nil, nil, fmt.Errorf("unknown payment method %q in channels file", method)
		}
		if err := applyChannelOverlay(&ch, o); err != nil {
			return nil, nil, fmt.Errorf("channel %s: %w", method, err)
		}
		channels[method] = ch
	}

	return methods, channels, nil
}

func applyMethodOverlay(s *model.MethodSettings, o methodOverlay) {
	if o.PortalKey != "" {
		s.PortalKey = o.PortalKey
	}
	if o.BearerToken != "" {
		s.BearerToken = o.BearerToken
	}
	if o.APISecretKey != "" {
		s.APISecretKey = o.APISecretKey
	}
	if o.EmailFallback != "" {
		s.EmailFallback = o.EmailFallback
	}
	if o.Sandbox != nil {
		s.Sandbox = *o.Sandbox
	}
	if o.Debug != nil {
		s.Debug = *o.Debug
	}
	if o.Enabled != nil {
		s.Enabled = *o.Enabled
	} else if s.BearerToken != "" {
		s.Enabled = true
	}
}

func applyChannelOverlay(ch *model.Channel, o channelOverlay) error {
	if o.Title != "" {
		ch.Title = o.Title
	}
	if o.MethodTitle != "" {
		ch.MethodTitle = o.MethodTitle
	}
	if o.Description != "" {
		ch.Description = o.Description
	}
	if o.Icon != "" {
		ch.Icon = o.Icon
	}
	if o.ChannelNumber > 0 {
		ch.ChannelNumber = o.ChannelNumber
	}
	if o.MaxAmount != "" {
		amount, err := decimal.NewFromString(o.MaxAmount)
		if err != nil {
			return err
		}
		ch.MaxAmount = amount
	}
	return nil
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
