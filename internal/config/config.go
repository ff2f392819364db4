package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MongoURI    string        `mapstructure:"mongo_uri"`
	MongoDB     string        `mapstructure:"mongo_db"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	Port        string        `mapstructure:"port"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	AdminSecret string        `mapstructure:"admin_secret"`
	LeaseTTL    time.Duration `mapstructure:"seat_reservation_ttl"`
	CacheTTL    time.Duration `mapstructure:"seat_cache_ttl"`
}

// Load reads configuration from the environment with sane defaults.
// The reservation TTL is deliberately configurable: 2s is tight under load.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "liveroom")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("port", "8080")
	v.SetDefault("jwt_secret", "super-secret-key-change-in-production")
	// empty means elevated token issuance is disabled
	v.SetDefault("admin_secret", "")
	v.SetDefault("seat_reservation_ttl", "2s")
	v.SetDefault("seat_cache_ttl", "60s")

	// viper only sees env keys it knows about once they are bound
	for _, key := range []string{
		"mongo_uri", "mongo_db", "redis_addr", "port",
		"jwt_secret", "admin_secret", "seat_reservation_ttl", "seat_cache_ttl",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
