package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	UploadDir    string
	UploadBase   string
	GeocodeBase  string
	GeocodeEmail string
	CORSOrigin   string
	SweepWorkers int
	CacheTTL     time.Duration
}

func Load() Config {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		MongoURI:     env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      env("MONGO_DB", "santatecla"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		UploadDir:    env("UPLOAD_DIR", "public/uploads"),
		UploadBase:   env("UPLOAD_BASE_URL", "/uploads"),
		GeocodeBase:  env("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeEmail: env("GEOCODE_EMAIL", ""),
		CORSOrigin:   env("CORS_ORIGIN", "*"),
		SweepWorkers: atoi("SWEEP_WORKERS", 8),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.GeocodeEmail == "" {
		log.Warn().Msg("GEOCODE_EMAIL is empty; the public Nominatim instance wants one")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
