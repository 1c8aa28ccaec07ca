package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pulse-news/pkg/models"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is built once at process start and handed to the components that
// need it.
type Config struct {
	Addr     string
	AppURL   string
	LogLevel string

	// Content store settings
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	APIToken   string
	Timeout    time.Duration

	// Revalidation hints for list and detail queries
	ListRevalidate   time.Duration
	DetailRevalidate time.Duration

	// Cache settings
	RedisURL    string
	CachePrefix string

	// Content settings
	ContentDir   string
	TemplateGlob string
	StaticDir    string
	SiteFile     string

	Site models.SiteConfig
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found or error loading it.")
	}

	cfg := &Config{
		Addr:     getEnv("ADDR", ":8080"),
		AppURL:   getEnv("APP_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ProjectID:  getEnv("SANITY_PROJECT_ID", ""),
		Dataset:    getEnv("SANITY_DATASET", "production"),
		APIVersion: getEnv("SANITY_API_VERSION", "2024-01-01"),
		UseCDN:     getBool("SANITY_USE_CDN", true),
		APIToken:   os.Getenv("SANITY_API_TOKEN"),
		Timeout:    getSeconds("SANITY_TIMEOUT", 10*time.Second),

		ListRevalidate:   getSeconds("REVALIDATE_LIST", 60*time.Second),
		DetailRevalidate: getSeconds("REVALIDATE_DETAIL", 60*time.Second),

		RedisURL:    os.Getenv("REDIS_URL"),
		CachePrefix: getEnv("CACHE_PREFIX", "pulse:"),

		ContentDir:   getEnv("CONTENT_DIR", "./content"),
		TemplateGlob: getEnv("TEMPLATE_GLOB", "templates/*"),
		StaticDir:    getEnv("STATIC_DIR", "./static"),
		SiteFile:     getEnv("SITE_FILE", "site.yml"),
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("SANITY_PROJECT_ID is required")
	}

	site, err := LoadSite(cfg.SiteFile)
	if err != nil {
		return nil, err
	}
	cfg.Site = site
	if cfg.Site.URL == "" {
		cfg.Site.URL = cfg.AppURL
	}
	return cfg, nil
}

// LoadSite decodes the site chrome from a YAML or TOML file.
// A missing file yields the defaults.
func LoadSite(path string) (models.SiteConfig, error) {
	site := models.DefaultSiteConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return site, nil
		}
		return site, fmt.Errorf("read site config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(content, &site)
	case ".toml":
		err = toml.Unmarshal(content, &site)
	default:
		return site, fmt.Errorf("unsupported site config format: %s", path)
	}
	if err != nil {
		return site, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return site, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getSeconds reads an integer number of seconds.
func getSeconds(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
