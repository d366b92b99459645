package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// UploadConfig groups the avatar upload limits and locations so they travel
// as one explicit value instead of ambient process state.
type UploadConfig struct {
	Dir        string `env:"AVATAR_DIR,         default=public/img/profiles"`
	PublicPath string `env:"AVATAR_PUBLIC_PATH, default=img/profiles"`
	BaseURL    string `env:"SERVER_URL,         default=http://localhost:8080"`
	MaxBytes   int64  `env:"AVATAR_MAX_BYTES,   default=5242880"`
	MaxFiles   int    `env:"AVATAR_MAX_FILES,   default=1"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
