package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyLogger = key("logger")
	KeyUUID   = key("uuid")
)

type Config struct {
	Service    Service
	Postgres   ReadEnvPostgres
	Centrifuge Centrifuge
	Notify     Notify
	Chat       Chat
	Logger     Logger
	Metrics    Metrics
	Platform   Platform
}

type Service struct {
	Port string `env:"CHAT_SERVICE_PORT" env-default:"8080"`
	Name string `env:"CHAT_SERVICE_NAME" env-default:"chat-client"`
}

type ReadEnvPostgres struct {
	User     string `env:"CHAT_SERVICE_POSTGRES_USER"`
	Password string `env:"CHAT_SERVICE_POSTGRES_PASSWORD"`
	Database string `env:"CHAT_SERVICE_POSTGRES_DB"`
	Host     string `env:"CHAT_SERVICE_POSTGRES_HOST" env-default:"localhost"`
	Port     string `env:"CHAT_SERVICE_POSTGRES_PORT" env-default:"5432"`
}

type Centrifuge struct {
	BaseURL   string        `env:"CENTRIFUGO_BASE_URL"`
	APIKey    string        `env:"CENTRIFUGO_API_KEY"`
	JWTSecret string        `env:"CENTRIFUGO_JWT_SECRET"`
	Timeout   time.Duration `env:"CENTRIFUGO_TIMEOUT" env-default:"5s"`
}

// Notify configures the LISTEN/NOTIFY push channel.
type Notify struct {
	Channel              string        `env:"CHAT_NOTIFY_CHANNEL" env-default:"chat_messages_insert"`
	MinReconnectInterval time.Duration `env:"CHAT_NOTIFY_MIN_RECONNECT" env-default:"1s"`
	MaxReconnectInterval time.Duration `env:"CHAT_NOTIFY_MAX_RECONNECT" env-default:"30s"`
	PingInterval         time.Duration `env:"CHAT_NOTIFY_PING_INTERVAL" env-default:"90s"`
}

type Chat struct {
	UserID           string        `env:"CHAT_USER_ID"`
	UserEmail        string        `env:"CHAT_USER_EMAIL"`
	AckPolicy        string        `env:"CHAT_ACK_POLICY" env-default:"echo"`
	ResubscribeDelay time.Duration `env:"CHAT_RESUBSCRIBE_DELAY" env-default:"2s"`
	PeerSearchLimit  uint64        `env:"CHAT_PEER_SEARCH_LIMIT" env-default:"50"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

func MustLoad() *Config {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read env variables: %v", err)
	}

	return cfg
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		c.Postgres.User, c.Postgres.Password, c.Postgres.Database, c.Postgres.Host, c.Postgres.Port)
}
