package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Agent     AgentConfig
	Vision    VisionConfig
	Extractor ExtractorConfig
	// APIKey is the optional shared secret checked against the X-Api-Key
	// header. Empty disables the check entirely (local/dev mode).
	APIKey string
	// StaticDir is served as the storefront UI when it exists.
	StaticDir string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string
	ReadTimeout time.Duration
	// WriteTimeout bounds non-streaming responses. It must be generous
	// enough to cover a full chat turn, which streams for minutes.
	WriteTimeout time.Duration
	CORSOrigins  []string
	// ChatRatePerSecond / ChatBurst gate the chat routes per client IP.
	ChatRatePerSecond float64
	ChatBurst         int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// AgentConfig holds settings for the externally hosted Agent Builder API.
type AgentConfig struct {
	// BaseURL is the Kibana host exposing /api/agent_builder.
	BaseURL string
	// APIKey authenticates upstream requests ("Authorization: ApiKey ...").
	APIKey string //nolint:gosec // G117: upstream auth config
	// DefaultAgentID handles chat turns when the request names no agent.
	DefaultAgentID string
	// ContextAgentID, ItineraryAgentID and ParserAgentID serve the
	// synchronous extraction endpoints.
	ContextAgentID   string
	ItineraryAgentID string
	ParserAgentID    string
	// StreamTimeout bounds one full converse stream.
	StreamTimeout time.Duration
	// CollectTimeout bounds the synchronous collect-and-parse calls.
	CollectTimeout time.Duration
}

// VisionConfig holds settings for the external image-analysis service.
type VisionConfig struct {
	// BaseURL is the OpenAI-compatible VLM endpoint host.
	BaseURL string
	// AnalyzeTimeout bounds one image analysis call so an unavailable
	// third party cannot stall a chat turn.
	AnalyzeTimeout time.Duration
	MaxImageBytes  int
	// VertexLocation is the default Vertex AI region for grounding and
	// image generation.
	VertexLocation string
}

// ExtractorConfig tunes the fallback product-mention extractor.
type ExtractorConfig struct {
	// Brands are the bullet-line tokens recognized by the fallback
	// extractor. Tuned to the demo catalog; override per deployment.
	Brands      []string
	MaxProducts int
}

// defaultBrands matches the demo catalog seeded by the setup scripts.
//
//nolint:gochecknoglobals // default config value
var defaultBrands = []string{
	"Summit Forge",
	"TrailWeight",
	"NorthRidge",
	"BasePoint",
	"Cascade Works",
	"Alpenlite",
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("WAYFINDER_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("WAYFINDER_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("WAYFINDER_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("WAYFINDER_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("WAYFINDER_SERVER_WRITE_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	chatRate, err := getEnvFloat("WAYFINDER_CHAT_RATE", 2)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	chatBurst, err := getEnvInt("WAYFINDER_CHAT_BURST", 5)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	streamTimeout, err := getEnvDuration("WAYFINDER_AGENT_STREAM_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	collectTimeout, err := getEnvDuration("WAYFINDER_AGENT_COLLECT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	analyzeTimeout, err := getEnvDuration("WAYFINDER_VISION_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxImageBytes, err := getEnvInt("WAYFINDER_VISION_MAX_IMAGE_BYTES", 4*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxProducts, err := getEnvInt("WAYFINDER_EXTRACTOR_MAX_PRODUCTS", 6)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:              getEnv("WAYFINDER_SERVER_ADDR", ":8000"),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			CORSOrigins:       getEnvList("WAYFINDER_CORS_ORIGINS", []string{"*"}),
			ChatRatePerSecond: chatRate,
			ChatBurst:         chatBurst,
		},
		Database: DatabaseConfig{
			Host:     getEnv("WAYFINDER_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("WAYFINDER_DB_USER", "wayfinder"),
			Password: getEnv("WAYFINDER_DB_PASSWORD", ""),
			DBName:   getEnv("WAYFINDER_DB_NAME", "wayfinder_dev"),
			SSLMode:  getEnv("WAYFINDER_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("WAYFINDER_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("WAYFINDER_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Agent: AgentConfig{
			BaseURL:          getEnv("WAYFINDER_KIBANA_URL", "http://kubernetes-vm:30001"),
			APIKey:           getEnv("WAYFINDER_ELASTICSEARCH_APIKEY", ""),
			DefaultAgentID:   getEnv("WAYFINDER_AGENT_ID", "wayfinder-search-agent"),
			ContextAgentID:   getEnv("WAYFINDER_CONTEXT_AGENT_ID", "context-extractor-agent"),
			ItineraryAgentID: getEnv("WAYFINDER_ITINERARY_AGENT_ID", "itinerary-extractor-agent"),
			ParserAgentID:    getEnv("WAYFINDER_PARSER_AGENT_ID", "response-parser-agent"),
			StreamTimeout:    streamTimeout,
			CollectTimeout:   collectTimeout,
		},
		Vision: VisionConfig{
			BaseURL:        getEnv("WAYFINDER_VISION_URL", "https://api-beta-vlm.jina.ai"),
			AnalyzeTimeout: analyzeTimeout,
			MaxImageBytes:  maxImageBytes,
			VertexLocation: getEnv("WAYFINDER_VERTEX_LOCATION", "us-central1"),
		},
		Extractor: ExtractorConfig{
			Brands:      getEnvList("WAYFINDER_EXTRACTOR_BRANDS", defaultBrands),
			MaxProducts: maxProducts,
		},
		APIKey:    getEnv("WAYFINDER_API_KEY", ""),
		StaticDir: getEnv("WAYFINDER_STATIC_DIR", "static"),
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Agent.BaseURL == "" {
		return fmt.Errorf("WAYFINDER_KIBANA_URL must not be empty")
	}
	if c.Agent.APIKey == "" {
		log.Warn().Msg("WAYFINDER_ELASTICSEARCH_APIKEY is not set; upstream agent calls will be unauthenticated")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("WAYFINDER_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("WAYFINDER_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("WAYFINDER_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("WAYFINDER_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.WriteTimeout < c.Agent.StreamTimeout {
		return fmt.Errorf("WAYFINDER_SERVER_WRITE_TIMEOUT (%s) must cover WAYFINDER_AGENT_STREAM_TIMEOUT (%s)",
			c.Server.WriteTimeout, c.Agent.StreamTimeout)
	}
	if c.Server.ChatRatePerSecond <= 0 {
		return fmt.Errorf("WAYFINDER_CHAT_RATE must be positive, got %g", c.Server.ChatRatePerSecond)
	}
	if c.Server.ChatBurst < 1 {
		return fmt.Errorf("WAYFINDER_CHAT_BURST must be >= 1, got %d", c.Server.ChatBurst)
	}
	if c.Agent.StreamTimeout <= 0 {
		return fmt.Errorf("WAYFINDER_AGENT_STREAM_TIMEOUT must be positive, got %s", c.Agent.StreamTimeout)
	}
	if c.Agent.CollectTimeout <= 0 {
		return fmt.Errorf("WAYFINDER_AGENT_COLLECT_TIMEOUT must be positive, got %s", c.Agent.CollectTimeout)
	}
	if c.Vision.AnalyzeTimeout <= 0 {
		return fmt.Errorf("WAYFINDER_VISION_TIMEOUT must be positive, got %s", c.Vision.AnalyzeTimeout)
	}
	if c.Vision.MaxImageBytes < 1 {
		return fmt.Errorf("WAYFINDER_VISION_MAX_IMAGE_BYTES must be >= 1, got %d", c.Vision.MaxImageBytes)
	}
	if c.Extractor.MaxProducts < 1 {
		return fmt.Errorf("WAYFINDER_EXTRACTOR_MAX_PRODUCTS must be >= 1, got %d", c.Extractor.MaxProducts)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
