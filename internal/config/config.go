package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string
	LogLevel      string
	DatabaseURL   string
	AdminUser     string
	AdminPass     string
	ExportEnabled bool
	ExportFile    string
	// Seed fixes turn orders and tile bags; 0 seeds from the clock.
	Seed int64
}

func FromEnv() Config {
	return FromLookup(os.LookupEnv)
}

// FromMap reads the same keys as FromEnv from env, e.g. a Nakama runtime environment.
func FromMap(env map[string]string) Config {
	return FromLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
}

func FromLookup(lookup func(string) (string, bool)) Config {
	getenv := func(k, def string) string {
		if v, ok := lookup(k); ok && v != "" {
			return v
		}
		return def
	}
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.DatabaseURL = getenv("DATABASE_URL", "")
	c.AdminUser = getenv("ADMIN_USER", "")
	c.AdminPass = getenv("ADMIN_PASS", "")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "true") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./acquire-games.txt")
	if v := getenv("SEED", "0"); v != "0" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Warn().Err(err).Str("seed", v).Msg("invalid SEED, seeding from the clock")
		}
		c.Seed = seed
	}
	return c
}
