package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds every setting of the server, read from the environment (and .env).
type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	AllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Storage
	OrderStore   string `mapstructure:"ORDER_STORE"`   // file | scylla
	ContactStore string `mapstructure:"CONTACT_STORE"` // file | mongo
	DataDir      string `mapstructure:"DATA_DIR"`

	ScyllaHosts    string        `mapstructure:"SCYLLA_HOSTS"`
	ScyllaKeyspace string        `mapstructure:"SCYLLA_KS_ORDERS_KEYSPACE"`
	ScyllaUser     string        `mapstructure:"SCYLLA_KS_ORDERS_ROLE"`
	ScyllaPassword string        `mapstructure:"SCYLLA_KS_ORDERS_PASSWORD"`
	ScyllaTimeout  time.Duration `mapstructure:"SCYLLA_TIMEOUT"`

	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"MONGODB_DATABASE"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	ElasticURL      string `mapstructure:"ELASTIC_URL"`
	ElasticUser     string `mapstructure:"ELASTIC_USER"`
	ElasticPassword string `mapstructure:"ELASTIC_PASSWORD"`
	ElasticIndex    string `mapstructure:"ELASTIC_ORDERS_INDEX"`

	MinioEndpoint  string        `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string        `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool          `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string        `mapstructure:"MINIO_BUCKET"`
	ExportURLTTL   time.Duration `mapstructure:"EXPORT_URL_TTL"`

	// Notification
	NotifyChannel string        `mapstructure:"NOTIFY_CHANNEL"` // log | email | sms | kafka
	NotifyTimeout time.Duration `mapstructure:"NOTIFY_TIMEOUT"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	OwnerEmail   string `mapstructure:"OWNER_EMAIL"`

	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
	OwnerPhoneNumber  string `mapstructure:"OWNER_PHONE_NUMBER"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_NOTIFY_TOPIC"`

	// Security
	AdminJWTSecret   string `mapstructure:"ADMIN_JWT_SECRET"`
	RateLimitEnabled bool   `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitPerMin  int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

var defaults = map[string]any{
	"APP_ENV":                   "production",
	"PORT":                      "5001",
	"LOG_LEVEL":                 "info",
	"CORS_ALLOWED_ORIGINS":      "http://localhost:3000,http://localhost:3001",
	"ORDER_STORE":               "file",
	"CONTACT_STORE":             "file",
	"DATA_DIR":                  "data",
	"SCYLLA_HOSTS":              "",
	"SCYLLA_KS_ORDERS_KEYSPACE": "",
	"SCYLLA_KS_ORDERS_ROLE":     "",
	"SCYLLA_KS_ORDERS_PASSWORD": "",
	"SCYLLA_TIMEOUT":            "5s",
	"MONGODB_URI":               "",
	"MONGODB_DATABASE":          "web_landing_page",
	"REDIS_HOST":                "",
	"REDIS_PASSWORD":            "",
	"ELASTIC_URL":               "",
	"ELASTIC_USER":              "",
	"ELASTIC_PASSWORD":          "",
	"ELASTIC_ORDERS_INDEX":      "orders",
	"MINIO_ENDPOINT":            "",
	"MINIO_ACCESS_KEY":          "",
	"MINIO_SECRET_KEY":          "",
	"MINIO_USE_SSL":             false,
	"MINIO_BUCKET":              "order-exports",
	"EXPORT_URL_TTL":            "15m",
	"NOTIFY_CHANNEL":            "log",
	"NOTIFY_TIMEOUT":            "5s",
	"SMTP_HOST":                 "",
	"SMTP_PORT":                 587,
	"SMTP_USERNAME":             "",
	"SMTP_PASSWORD":             "",
	"MAIL_FROM":                 "noreply@groundnut.local",
	"OWNER_EMAIL":               "",
	"TWILIO_ACCOUNT_SID":        "",
	"TWILIO_AUTH_TOKEN":         "",
	"TWILIO_PHONE_NUMBER":       "",
	"OWNER_PHONE_NUMBER":        "",
	"KAFKA_BROKERS":             "",
	"KAFKA_NOTIFY_TOPIC":        "order.notifications",
	"ADMIN_JWT_SECRET":          "",
	"RATE_LIMIT_ENABLED":        false,
	"RATE_LIMIT_PER_MINUTE":     30,
}

// Load reads .env (optional) then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("⚠️  No .env file found, using system environment variables")
	} else {
		log.Info().Msg("✅ .env file loaded")
	}
	return FromViper(viper.New())
}

// FromViper resolves the configuration from v, registering defaults and env bindings.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	switch c.OrderStore {
	case "file":
	case "scylla":
		if c.ScyllaHosts == "" || c.ScyllaKeyspace == "" {
			return fmt.Errorf("ORDER_STORE=scylla requires SCYLLA_HOSTS and SCYLLA_KS_ORDERS_KEYSPACE")
		}
	default:
		return fmt.Errorf("unknown ORDER_STORE %q", c.OrderStore)
	}

	switch c.ContactStore {
	case "file":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("CONTACT_STORE=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown CONTACT_STORE %q", c.ContactStore)
	}

	switch c.NotifyChannel {
	case "log":
	case "email":
		if c.SMTPHost == "" || c.OwnerEmail == "" {
			return fmt.Errorf("NOTIFY_CHANNEL=email requires SMTP_HOST and OWNER_EMAIL")
		}
	case "sms":
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioPhoneNumber == "" || c.OwnerPhoneNumber == "" {
			return fmt.Errorf("NOTIFY_CHANNEL=sms requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER and OWNER_PHONE_NUMBER")
		}
	case "kafka":
		if len(c.KafkaBrokerList()) == 0 {
			return fmt.Errorf("NOTIFY_CHANNEL=kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_CHANNEL %q", c.NotifyChannel)
	}

	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}
	if c.RateLimitEnabled && c.RedisHost == "" {
		return fmt.Errorf("RATE_LIMIT_ENABLED requires REDIS_HOST")
	}
	return nil
}

// IsDevelopment reports whether internal error details may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) Origins() []string {
	return splitCSV(c.AllowedOrigins)
}

func (c *Config) ScyllaHostList() []string {
	return splitCSV(c.ScyllaHosts)
}

func (c *Config) KafkaBrokerList() []string {
	return splitCSV(c.KafkaBrokers)
}

func splitCSV(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
