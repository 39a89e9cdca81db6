package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	NotifyDriverKafka = "kafka"
	NotifyDriverRedis = "redis"
	NotifyDriverLog   = "log"
	NotifyDriverNoop  = "noop"
)

type Config struct {
	HTTPPort string

	StorageDriver     string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	NotifyDriver           string
	NotifyTimeout          time.Duration
	NotifyBuffer           int
	KafkaBrokers           []string
	KafkaOrderChangedTopic string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	RedisChannel           string

	QueueAuditSchedule string
	QueueRevertPolicy  services.RevertPolicy
	AutoGroupRole      kernel.Role
	Timezone           *time.Location

	LogLevel  string
	LogFormat string
}

var loadEnvOnce sync.Once

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	cfg := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "dispatch"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		NotifyDriver:           strings.ToLower(getEnv("NOTIFY_DRIVER", NotifyDriverLog)),
		NotifyTimeout:          getEnvAsDuration("NOTIFY_TIMEOUT", 5*time.Second),
		NotifyBuffer:           getEnvAsInt("NOTIFY_BUFFER", 256),
		KafkaBrokers:           getEnvAsStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaOrderChangedTopic: getEnv("KAFKA_ORDER_CHANGED_TOPIC", "orders.changed"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		RedisChannel:           getEnv("REDIS_CHANNEL", "orders.changed"),

		QueueAuditSchedule: strings.TrimSpace(getEnv("QUEUE_AUDIT_SCHEDULE", "@every 5m")),
		AutoGroupRole:      kernel.Role(strings.ToUpper(getEnv("AUTO_GROUP_ROLE", string(kernel.RolePreparer)))),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	policy, err := services.ParseRevertPolicy(getEnv("QUEUE_REVERT_POLICY", string(services.RestoreParkedRank)))
	if err != nil {
		return Config{}, err
	}
	cfg.QueueRevertPolicy = policy

	cfg.Timezone, err = time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	switch cfg.NotifyDriver {
	case NotifyDriverKafka:
		if len(cfg.KafkaBrokers) == 0 || cfg.KafkaOrderChangedTopic == "" {
			return Config{}, fmt.Errorf("kafka notifier needs KAFKA_BROKERS and KAFKA_ORDER_CHANGED_TOPIC")
		}
	case NotifyDriverRedis:
		if cfg.RedisAddr == "" || cfg.RedisChannel == "" {
			return Config{}, fmt.Errorf("redis notifier needs REDIS_ADDR and REDIS_CHANNEL")
		}
	case NotifyDriverLog, NotifyDriverNoop:
	default:
		return Config{}, fmt.Errorf("unsupported notify driver: %s", cfg.NotifyDriver)
	}

	return cfg, nil
}

// DSN is the lib/pq connection string.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}
