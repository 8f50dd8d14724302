package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the clipdex pipeline configuration.
type Config struct {
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Translation   TranslationConfig   `yaml:"translation"`
	Summary       SummaryConfig       `yaml:"summary"`
	Cache         CacheConfig         `yaml:"cache"`
	Media         MediaConfig         `yaml:"media"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Paths         PathsConfig         `yaml:"paths"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// EmbeddingConfig holds the sentence-embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // label for logs and metrics
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// TranscriptionConfig holds the speech-to-text settings.
type TranscriptionConfig struct {
	Model string `yaml:"model"` // default whisper-1
}

// TranslationConfig holds the translation settings.
type TranslationConfig struct {
	Model          string `yaml:"model"`
	TargetLanguage string `yaml:"target_language"` // default English
	MaxChunkChars  int    `yaml:"max_chunk_chars"` // default 4000
}

// SummaryConfig holds the report summarization settings.
type SummaryConfig struct {
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`       // completion budget, default 5000
	MaxPromptChars int    `yaml:"max_prompt_chars"` // default 7000
}

// CacheConfig holds the optional embedding cache settings. An empty addrs
// list disables caching.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// MediaConfig holds frame sampling and backbone settings.
type MediaConfig struct {
	TargetFrames int    `yaml:"target_frames"` // default 300
	Backbone     string `yaml:"backbone"`      // grid (default) | autoencoder
	HiddenDim    int    `yaml:"hidden_dim"`    // autoencoder signature size, default 64
	TrainEpochs  int    `yaml:"train_epochs"`  // autoencoder training epochs, default 5
}

// PipelineConfig holds batch execution settings.
type PipelineConfig struct {
	Workers int `yaml:"workers"` // parallel extraction workers, default 1 (sequential)
}

// PathsConfig holds input and output directories.
type PathsConfig struct {
	VideoDir string `yaml:"video_dir"`
	AudioDir string `yaml:"audio_dir"`
	OutDir   string `yaml:"out_dir"`
}

// MetricsConfig holds the optional Prometheus scrape endpoint settings.
// Port 0 disables the endpoint.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Translation.TargetLanguage == "" {
		c.Translation.TargetLanguage = "English"
	}
	if c.Translation.MaxChunkChars <= 0 {
		c.Translation.MaxChunkChars = 4000
	}
	if c.Summary.MaxTokens <= 0 {
		c.Summary.MaxTokens = 5000
	}
	if c.Summary.MaxPromptChars <= 0 {
		c.Summary.MaxPromptChars = 7000
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Media.TargetFrames <= 0 {
		c.Media.TargetFrames = 300
	}
	if c.Media.Backbone == "" {
		c.Media.Backbone = "grid"
	}
	if c.Media.HiddenDim <= 0 {
		c.Media.HiddenDim = 64
	}
	if c.Media.TrainEpochs <= 0 {
		c.Media.TrainEpochs = 5
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 1
	}
	if c.Paths.VideoDir == "" {
		c.Paths.VideoDir = "audio_files"
	}
	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = "audio_extracted"
	}
	if c.Paths.OutDir == "" {
		c.Paths.OutDir = "."
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	switch c.Media.Backbone {
	case "grid", "autoencoder":
		// ok
	default:
		return fmt.Errorf(
			"media.backbone must be \"grid\" or \"autoencoder\", got %q", c.Media.Backbone,
		)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
