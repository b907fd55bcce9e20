package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the process configuration, read once at startup from the
// environment. Nothing here is consulted again at request time.
type Settings struct {
	// Mode can be "prod" or "dev"
	Mode string `envconfig:"MODE" default:"dev"`

	// Server listen address
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`

	// MongoDB connection string components
	MongoHost     string `envconfig:"MONGO_HOST" default:"127.0.0.1"`
	MongoPort     int    `envconfig:"MONGO_PORT" default:"27017"`
	MongoDatabase string `envconfig:"MONGO_DB" default:"webstore"`
	MongoUser     string `envconfig:"MONGO_USER" default:""`
	MongoPassword string `envconfig:"MONGO_PASSWORD" default:""`

	// Timeouts
	MongoConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	MongoQueryTimeout   time.Duration `envconfig:"MONGO_QUERY_TIMEOUT" default:"5s"`

	// Directory served for unmatched GET requests
	StaticDir string `envconfig:"STATIC_DIR" default:"public"`

	// Logging settings
	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Origins is the list of allowed CORS origins
	Origins []string `envconfig:"ORIGINS" default:""`
}

// NewSettings loads settings by reading environment variables.
func NewSettings() *Settings {
	s := new(Settings)
	if err := envconfig.Process("", s); err != nil {
		panic(err)
	}

	return s
}

// ListenAddress is the host:port the HTTP server binds to.
func (s *Settings) ListenAddress() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MongoURI assembles the connection string from its components.
func (s *Settings) MongoURI() string {
	host := net.JoinHostPort(s.MongoHost, strconv.Itoa(s.MongoPort))
	if s.MongoUser != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s", s.MongoUser, s.MongoPassword, host)
	}
	return fmt.Sprintf("mongodb://%s", host)
}
