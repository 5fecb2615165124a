package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/newsdigest/pkg/digest"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// default feeds used when neither config nor command line provide any
var defaultFeeds = []Feed{
	{URL: "https://techcrunch.com/tag/artificial-intelligence/feed/", Name: "TechCrunch AI"},
	{URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed", Name: "MIT Technology Review"},
	{URL: "https://venturebeat.com/category/ai/feed/", Name: "VentureBeat AI"},
	{URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml", Name: "The Verge AI"},
	{URL: "https://feeds.arstechnica.com/arstechnica/technology-lab", Name: "Ars Technica"},
	{URL: "https://www.artificialintelligence-news.com/feed/", Name: "AI News"},
}

// Config holds the application configuration
type Config struct {
	Feeds []Feed `yaml:"feeds" json:"feeds" jsonschema:"description=Feeds to fetch articles from"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Timeout for a single feed fetch"`
		UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=NewsDigest-Bot/1.0,description=User agent sent to feed servers"`
	} `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`

	Digest DigestConfig `yaml:"digest" json:"digest" jsonschema:"description=Article selection configuration"`

	History HistoryConfig `yaml:"history" json:"history" jsonschema:"description=Edition history storage"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for article simplification"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Schedule struct {
		Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=24h,description=Publish interval in serve mode"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
}

// Feed is a single feed endpoint
type Feed struct {
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name, defaults to URL"`
}

// DigestConfig holds filtering, ranking and selection settings
type DigestConfig struct {
	Keywords      []string      `yaml:"keywords" json:"keywords" jsonschema:"description=Relevance vocabulary, case-insensitive substring match"`
	Window        time.Duration `yaml:"window" json:"window" jsonschema:"default=24h,description=Recency window"`
	TopN          int           `yaml:"top_n" json:"top_n" jsonschema:"default=5,minimum=1,description=Number of articles per edition"`
	SummaryLength int           `yaml:"summary_length" json:"summary_length" jsonschema:"default=300,minimum=1,description=Summary length in characters"`
}

// HistoryConfig holds edition store settings
type HistoryConfig struct {
	Driver      string `yaml:"driver" json:"driver" jsonschema:"default=file,enum=file,enum=sqlite,enum=postgres,enum=memory,description=History storage driver"`
	Path        string `yaml:"path" json:"path" jsonschema:"default=data/news.json,description=History document path for the file driver"`
	DSN         string `yaml:"dsn" json:"dsn" jsonschema:"description=Database connection string for sqlite and postgres drivers"`
	MaxEditions int    `yaml:"max_editions" json:"max_editions" jsonschema:"default=90,minimum=1,description=Maximum number of retained editions"`
}

// LLMConfig holds LLM configuration for article simplification
type LLMConfig struct {
	Provider     string        `yaml:"provider" json:"provider" jsonschema:"default=none,enum=openai,enum=azure,enum=gemini,enum=none,description=Simplification backend"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint or Azure resource endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	APIVersion   string        `yaml:"api_version" json:"api_version" jsonschema:"description=Azure OpenAI API version"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name, or deployment name for Azure"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	TopP         float64       `yaml:"top_p" json:"top_p" jsonschema:"default=0.9,description=Nucleus sampling"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=300,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	Concurrency  int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=1,minimum=1,description=Concurrent simplification requests"`
	Interval     time.Duration `yaml:"interval" json:"interval" jsonschema:"default=500ms,description=Minimal interval between simplification requests"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable content extraction for thin articles"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=NewsDigest/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=200,description=Articles with shorter body get extracted"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults applied, used when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	if len(c.Feeds) == 0 {
		c.Feeds = append([]Feed(nil), defaultFeeds...)
	}
	for i := range c.Feeds {
		if c.Feeds[i].Name == "" {
			c.Feeds[i].Name = c.Feeds[i].URL
		}
	}

	// set defaults for fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "NewsDigest-Bot/1.0"
	}

	// set defaults for digest
	if len(c.Digest.Keywords) == 0 {
		c.Digest.Keywords = append([]string(nil), digest.DefaultKeywords...)
	}
	if c.Digest.Window == 0 {
		c.Digest.Window = 24 * time.Hour
	}
	if c.Digest.TopN == 0 {
		c.Digest.TopN = 5
	}
	if c.Digest.SummaryLength == 0 {
		c.Digest.SummaryLength = 300
	}

	// set defaults for history
	if c.History.Driver == "" {
		c.History.Driver = "file"
	}
	if c.History.Path == "" {
		c.History.Path = "data/news.json"
	}
	if c.History.DSN == "" && c.History.Driver == "sqlite" {
		c.History.DSN = "file:newsdigest.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.History.MaxEditions == 0 {
		c.History.MaxEditions = 90
	}

	// set defaults for LLM
	if c.LLM.Provider == "" {
		c.LLM.Provider = "none"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TopP == 0 {
		c.LLM.TopP = 0.9
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 300
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.Concurrency == 0 {
		c.LLM.Concurrency = 1
	}
	if c.LLM.Interval == 0 {
		c.LLM.Interval = 500 * time.Millisecond
	}

	// set defaults for extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = "NewsDigest/1.0"
	}
	if c.Extraction.MinTextLength == 0 {
		c.Extraction.MinTextLength = 200
	}

	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// set defaults for schedule
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 24 * time.Hour
	}
}

// OverrideFeeds replaces configured feeds with the given urls, ignoring empty entries
func (c *Config) OverrideFeeds(urls []string) {
	feeds := make([]Feed, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		feeds = append(feeds, Feed{URL: u, Name: u})
	}
	if len(feeds) > 0 {
		c.Feeds = feeds
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	for _, f := range cfg.Feeds {
		u, err := url.Parse(f.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid feed url %q", f.URL)
		}
	}

	// validate digest config
	if cfg.Digest.TopN < 1 {
		return fmt.Errorf("digest.top_n must be at least 1")
	}
	if cfg.Digest.SummaryLength < 1 {
		return fmt.Errorf("digest.summary_length must be at least 1")
	}
	if cfg.Digest.Window < 0 {
		return fmt.Errorf("digest.window must be positive")
	}

	// validate history config
	switch cfg.History.Driver {
	case "file", "memory":
	case "sqlite", "postgres":
		if cfg.History.DSN == "" {
			return fmt.Errorf("history.dsn is required for %s driver", cfg.History.Driver)
		}
	default:
		return fmt.Errorf("unknown history.driver %q", cfg.History.Driver)
	}
	if cfg.History.MaxEditions < 1 {
		return fmt.Errorf("history.max_editions must be at least 1")
	}

	// validate LLM config
	switch cfg.LLM.Provider {
	case "none":
	case "openai":
		if cfg.LLM.Model == "" {
			return fmt.Errorf("llm.model is required for openai provider")
		}
	case "gemini":
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for gemini provider")
		}
	case "azure":
		if cfg.LLM.Endpoint == "" || cfg.LLM.Model == "" {
			return fmt.Errorf("llm.endpoint and llm.model are required for azure provider")
		}
	default:
		return fmt.Errorf("unknown llm.provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Concurrency < 1 {
		return fmt.Errorf("llm.concurrency must be at least 1")
	}

	// validate extraction config
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// FeedURLs returns urls of all configured feeds, in configured order
func (c *Config) FeedURLs() []string {
	res := make([]string, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		res = append(res, f.URL)
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFeeds returns configured feeds
func (c *Config) GetFeeds() []Feed {
	return c.Feeds
}

// GetBaseURL returns the public base URL used in feed links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
