// README: Config loader with env defaults for HTTP, data sources, estimator and sessions.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"farecast/internal/ml/boost"
)

type EstimatorConfig struct {
	Params         boost.Params
	ModelCacheSize int
	PredictionTTL  time.Duration
}

type SessionConfig struct {
	IdleTTL        time.Duration
	JanitorTick    time.Duration
	MaxUploadBytes int64
}

type Config struct {
	Env  string
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	DB struct {
		DSN        string
		TripsTable string
	}
	Redis struct {
		Addr string
	}
	Dataset struct {
		Path     string
		Provider string
	}
	Assets struct {
		Dir string
	}
	Maps struct {
		APIKey string
		Region string
	}
	Estimator EstimatorConfig
	Session   SessionConfig
}

// Load reads the environment, after applying a .env file (FARE_ENV_FILE) outside production.
// Empty DB DSN, Redis address or Maps key disable those integrations.
func Load() (Config, error) {
	var cfg Config
	cfg.Env = envOrDefault("FARE_ENV", "development")
	if cfg.Env != "production" {
		if err := godotenv.Load(envOrDefault("FARE_ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	cfg.HTTP.Addr = envOrDefault("FARE_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = envOrDefaultList("FARE_CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})
	cfg.DB.DSN = os.Getenv("FARE_DB_DSN")
	cfg.DB.TripsTable = envOrDefault("FARE_DB_TRIPS_TABLE", "rideshare_trips")
	cfg.Redis.Addr = os.Getenv("FARE_REDIS_ADDR")
	cfg.Dataset.Path = envOrDefault("FARE_DATASET_PATH", "data/rideshare_kaggle.csv")
	cfg.Dataset.Provider = envOrDefault("FARE_PROVIDER", "Uber")
	cfg.Assets.Dir = envOrDefault("FARE_ASSETS_DIR", "imagens")
	cfg.Maps.APIKey = os.Getenv("FARE_MAPS_API_KEY")
	cfg.Maps.Region = envOrDefault("FARE_MAPS_REGION", "us")

	p := boost.DefaultParams()
	p.MaxIter = envOrDefaultInt("FARE_MODEL_MAX_ITER", p.MaxIter)
	p.LearningRate = envOrDefaultFloat("FARE_MODEL_LEARNING_RATE", p.LearningRate)
	p.MaxDepth = envOrDefaultInt("FARE_MODEL_MAX_DEPTH", p.MaxDepth)
	p.MaxLeafNodes = envOrDefaultInt("FARE_MODEL_MAX_LEAF_NODES", p.MaxLeafNodes)
	p.MinSamplesLeaf = envOrDefaultInt("FARE_MODEL_MIN_SAMPLES_LEAF", p.MinSamplesLeaf)
	p.Seed = int64(envOrDefaultInt("FARE_MODEL_SEED", int(p.Seed)))
	p.EarlyStopping = boost.EarlyStopping(envOrDefault("FARE_MODEL_EARLY_STOPPING", string(p.EarlyStopping)))
	if err := p.Validate(); err != nil {
		return cfg, err
	}
	cfg.Estimator.Params = p
	cfg.Estimator.ModelCacheSize = envOrDefaultInt("FARE_MODEL_CACHE_SIZE", 16)
	cfg.Estimator.PredictionTTL = envOrDefaultDuration("FARE_PREDICTION_TTL", 10*time.Minute)

	cfg.Session.IdleTTL = envOrDefaultDuration("FARE_SESSION_IDLE_TTL", 30*time.Minute)
	cfg.Session.JanitorTick = envOrDefaultDuration("FARE_SESSION_JANITOR_TICK", time.Minute)
	cfg.Session.MaxUploadBytes = int64(envOrDefaultInt("FARE_MAX_UPLOAD_MB", 256)) << 20
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
