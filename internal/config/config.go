package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by MOODLOG_CLASSIFIER
const (
	BackendLexicon   = "lexicon"
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
)

// Config aggregates the application settings
type Config struct {
	DataDir    string
	LogMode    string
	Classifier ClassifierConfig
	Knowledge  KnowledgeConfig

	// AnalysisPath optionally points at a YAML file overriding the
	// embedded aggregation settings
	AnalysisPath string

	dbPath string
}

// ClassifierConfig selects and parameterizes the emotion model backend
type ClassifierConfig struct {
	Backend        string
	ModelPath      string
	LabelPrefix    string
	AnthropicKey   string
	AnthropicModel string
	OpenAIKey      string
	OpenAIModel    string
	Timeout        time.Duration
}

// KnowledgeConfig locates the static lookup tables
type KnowledgeConfig struct {
	RecommendationsPath string
	EmotionInfoPath     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := strings.TrimSpace(os.Getenv("MOODLOG_DATA_DIR"))
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".moodlog")
	}

	classifier, err := loadClassifierConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogMode:    getEnvOrDefault("MOODLOG_LOG_MODE", "info"),
		Classifier: classifier,
		Knowledge: KnowledgeConfig{
			RecommendationsPath: strings.TrimSpace(os.Getenv("MOODLOG_RECOMMENDATIONS")),
			EmotionInfoPath:     strings.TrimSpace(os.Getenv("MOODLOG_EMOTION_INFO")),
		},
		AnalysisPath: strings.TrimSpace(os.Getenv("MOODLOG_ANALYSIS_CONFIG")),
		dbPath:       strings.TrimSpace(os.Getenv("MOODLOG_DB")),
	}
	cfg.SetDataDir(dataDir)
	return cfg, nil
}

// SetDataDir moves every file location that was not set explicitly under dir
func (c *Config) SetDataDir(dir string) {
	old := c.DataDir
	c.DataDir = dir

	move := func(current, rel string) string {
		if current == "" || (old != "" && current == filepath.Join(old, rel)) {
			return filepath.Join(dir, rel)
		}
		return current
	}

	c.dbPath = move(c.dbPath, "moodlog.db")
	c.Classifier.ModelPath = move(c.Classifier.ModelPath, filepath.Join("model", "emotion_lexicon.yaml"))
	c.Knowledge.RecommendationsPath = move(c.Knowledge.RecommendationsPath, filepath.Join("data", "recommendations.json"))
	c.Knowledge.EmotionInfoPath = move(c.Knowledge.EmotionInfoPath, filepath.Join("data", "emotions_info.json"))
}

// DBPath returns the sqlite database location
func (c *Config) DBPath() string {
	return c.dbPath
}

// SetDBPath overrides the sqlite database location
func (c *Config) SetDBPath(path string) {
	c.dbPath = path
}

func loadClassifierConfig() (ClassifierConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("MOODLOG_CLASSIFIER", BackendLexicon))
	switch backend {
	case BackendLexicon, BackendAnthropic, BackendOpenAI:
	default:
		return ClassifierConfig{}, fmt.Errorf("invalid MOODLOG_CLASSIFIER value %q", backend)
	}

	timeout := 30 * time.Second
	seconds, err := parseOptionalIntEnv("MOODLOG_CLASSIFIER_TIMEOUT")
	if err != nil {
		return ClassifierConfig{}, err
	}
	if seconds != nil {
		if *seconds < 1 {
			return ClassifierConfig{}, fmt.Errorf("invalid MOODLOG_CLASSIFIER_TIMEOUT value %d", *seconds)
		}
		timeout = time.Duration(*seconds) * time.Second
	}

	prefix, ok := os.LookupEnv("MOODLOG_LABEL_PREFIX")
	if !ok {
		prefix = "__label__"
	}

	return ClassifierConfig{
		Backend:        backend,
		ModelPath:      strings.TrimSpace(os.Getenv("MOODLOG_MODEL_PATH")),
		LabelPrefix:    strings.TrimSpace(prefix),
		AnthropicKey:   strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		AnthropicModel: getEnvOrDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:    getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:        timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
