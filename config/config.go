package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL string `yaml:"api_base_url"`
	PageSize   int    `yaml:"page_size"`
	MapLimit   int    `yaml:"map_limit"`
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
}

// Load reads .env if present, then environment variables, then an
// optional apthunt.yaml which overrides both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: getEnv("APTHUNT_API_URL", "http://localhost:8000/api"),
		PageSize:   getEnvInt("APTHUNT_PAGE_SIZE", 50),
		MapLimit:   getEnvInt("APTHUNT_MAP_LIMIT", 10000),
		LogPath:    getEnv("APTHUNT_LOG_PATH", "apthunt.log"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.loadFile("apthunt.yaml"); err != nil {
		return nil, err
	}

	if cfg.PageSize < 1 {
		cfg.PageSize = 50
	}
	if cfg.MapLimit < cfg.PageSize {
		cfg.MapLimit = 10000
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
