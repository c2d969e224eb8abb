package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"storewatch"`
	Password string `env:"PASSWORD"                envDefault:"storewatch"`
	Name     string `env:"NAME"                    envDefault:"storewatch"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// CacheConfig contains the Redis-backed artifact cache configuration.
type CacheConfig struct {
	// Enabled toggles the artifact byte cache in front of the store.
	Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`

	// ArtifactTTL is the TTL for cached report artifacts.
	ArtifactTTL time.Duration `env:"CACHE_ARTIFACT_TTL" envDefault:"30m"`
}
