package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Model backend
	LLMProvider    string `json:"llm_provider"`
	BackendURL     string `json:"backend_url"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	ResearchModel  string `json:"research_model"`
	AnalysisModel  string `json:"analysis_model"`
	ChatModel      string `json:"chat_model"`
	MaxTokens      int    `json:"max_tokens"`
	MaxAgentSteps  int    `json:"max_agent_steps"`

	// Market/news data API keys
	RapidAPIKey        string `json:"rapidapi_key"`
	RapidAPIHost       string `json:"rapidapi_host"`
	AlphaVantageAPIKey string `json:"alpha_vantage_api_key"`
	FinnhubAPIKey      string `json:"finnhub_api_key"`

	// Pipeline tuning
	NewsMaxItems    int           `json:"news_max_items"`
	ChatWindowTurns int           `json:"chat_window_turns"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	ModelTimeout    time.Duration `json:"model_timeout"`
	MaxRetries      int           `json:"max_retries"`

	CacheEnabled bool          `json:"cache_enabled"`
	CacheTTL     time.Duration `json:"cache_ttl"`

	// History database location
	HistoryDBPath string `json:"history_db_path"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider:   "openai",
		BackendURL:    "https://api.openai.com/v1",
		ResearchModel: "gpt-4o",
		AnalysisModel: "gpt-4o",
		ChatModel:     "gpt-4o-mini",
		MaxTokens:     4096,
		MaxAgentSteps: 10,

		RapidAPIHost: "yahoo-finance15.p.rapidapi.com",

		NewsMaxItems:    4,
		ChatWindowTurns: 5,
		RequestTimeout:  30 * time.Second,
		ModelTimeout:    3 * time.Minute,
		MaxRetries:      3,

		CacheEnabled: true,
		CacheTTL:     15 * time.Minute,

		HistoryDBPath: filepath.Join(currentDir, "data", "history.db"),

		Debug: false,
	}

	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("RESEARCH_MODEL"); val != "" {
		c.ResearchModel = val
	}
	if val := os.Getenv("ANALYSIS_MODEL"); val != "" {
		c.AnalysisModel = val
	}
	if val := os.Getenv("CHAT_MODEL"); val != "" {
		c.ChatModel = val
	}
	if val := os.Getenv("MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("MAX_AGENT_STEPS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxAgentSteps = v
		}
	}

	if val := os.Getenv("RAPIDAPI_KEY"); val != "" {
		c.RapidAPIKey = val
	}
	if val := os.Getenv("RAPIDAPI_HOST"); val != "" {
		c.RapidAPIHost = val
	}
	if val := os.Getenv("ALPHA_VANTAGE_API_KEY"); val != "" {
		c.AlphaVantageAPIKey = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}

	if val := os.Getenv("NEWS_MAX_ITEMS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.NewsMaxItems = v
		}
	}
	if val := os.Getenv("CHAT_WINDOW_TURNS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.ChatWindowTurns = v
		}
	}
	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("MODEL_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.ModelTimeout = d
		}
	}
	if val := os.Getenv("MAX_RETRIES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v >= 0 {
			c.MaxRetries = v
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.CacheTTL = d
		}
	}

	if val := os.Getenv("HISTORY_DB_PATH"); val != "" {
		c.HistoryDBPath = val
	}

	if val := os.Getenv("MARKETSAGE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// Validate checks the credentials required to run live pipelines. Parsing
// and tooling work without keys; network fetches and model calls do not.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.RapidAPIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}
	if c.AlphaVantageAPIKey == "" {
		return fmt.Errorf("ALPHA_VANTAGE_API_KEY is required")
	}
	if c.FinnhubAPIKey == "" {
		return fmt.Errorf("FINNHUB_API_KEY is required")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.DataCacheDir, filepath.Dir(c.HistoryDBPath)}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
