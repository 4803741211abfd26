package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Game struct {
		CacheTTL       string  `yaml:"cache_ttl"`
		ProbeSize      int     `yaml:"probe_size"`
		FreshThreshold float64 `yaml:"fresh_threshold"`
		StatsTTL       string  `yaml:"stats_ttl"`
	} `yaml:"game"`
	Achievements struct {
		EvalBudget    string `yaml:"eval_budget"`
		MaxRuleChecks int    `yaml:"max_rule_checks"`
	} `yaml:"achievements"`
	Prewarm struct {
		Interval string          `yaml:"interval"`
		Sets     []PrewarmTarget `yaml:"sets"`
	} `yaml:"prewarm"`
}

// PrewarmTarget names one question set to keep warm.
type PrewarmTarget struct {
	SubjectID  int64   `yaml:"subject_id"`
	TopicIDs   []int64 `yaml:"topic_ids"`
	Difficulty string  `yaml:"difficulty"`
	Count      int     `yaml:"count"`
}

// Load reads YAML config from path, after sourcing a .env file when one
// exists. Environment variables override file values.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty
// or malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
