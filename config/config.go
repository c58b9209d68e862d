// Package config provides configuration loading and validation for the
// bluebridge commands. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the recommendation service.
type Config struct {
	// Storage
	DataDir  string `koanf:"data_dir"`
	InMemory bool   `koanf:"in_memory"`

	// AI backends
	EmbeddingHost  string `koanf:"embedding_host"`
	ChatHost       string `koanf:"chat_host"`
	EmbeddingModel string `koanf:"embedding_model"`
	ChatModel      string `koanf:"chat_model"`

	// Ranking
	TopK         int `koanf:"top_k"`
	MaxPerBucket int `koanf:"max_per_bucket"`

	QuerySemanticWeight    float64 `koanf:"query_semantic_weight"`
	QueryIntentWeight      float64 `koanf:"query_intent_weight"`
	QueryEligibilityWeight float64 `koanf:"query_eligibility_weight"`

	ProfileSemanticWeight    float64 `koanf:"profile_semantic_weight"`
	ProfileIntentWeight      float64 `koanf:"profile_intent_weight"`
	ProfileEligibilityWeight float64 `koanf:"profile_eligibility_weight"`

	// Indexing
	BatchSize int `koanf:"batch_size"`
	PoolSize  int `koanf:"pool_size"`
}

// Configuration validation errors.
var (
	ErrMissingDataDir     = errors.New("data_dir is required unless in_memory is set")
	ErrInvalidTopK        = errors.New("top_k must be greater than 0")
	ErrInvalidBucketCap   = errors.New("max_per_bucket must be greater than 0")
	ErrInvalidWeight      = errors.New("score weights must be non-negative")
	ErrInvalidBatchSize   = errors.New("batch_size must be greater than 0")
	ErrInvalidIntegerEnv  = errors.New("environment variable must be a valid integer")
	ErrInvalidFloatEnv    = errors.New("environment variable must be a valid float")
)

// Default values.
const (
	DefaultDataDir        = "./data"
	DefaultEmbeddingHost  = "http://localhost:11434/v1"
	DefaultChatHost       = "http://localhost:11434/v1"
	DefaultEmbeddingModel = "embeddinggemma"
	DefaultChatModel      = "qwen2.5:3b"
	DefaultTopK           = 30
	DefaultMaxPerBucket   = 2
	DefaultBatchSize      = 50
)

// Default hybrid score weights per mode.
const (
	DefaultQuerySemanticWeight    = 0.5
	DefaultQueryIntentWeight      = 0.3
	DefaultQueryEligibilityWeight = 0.2

	DefaultProfileSemanticWeight    = 0.1
	DefaultProfileIntentWeight      = 0.2
	DefaultProfileEligibilityWeight = 0.7
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error
// is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// File values load first so env vars can override them.
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	topK, err := getEnvIntOrDefault("BLUEBRIDGE_TOP_K", k.Int("top_k"), DefaultTopK)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	maxPerBucket, err := getEnvIntOrDefault("BLUEBRIDGE_MAX_PER_BUCKET", k.Int("max_per_bucket"), DefaultMaxPerBucket)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	batchSize, err := getEnvIntOrDefault("BLUEBRIDGE_BATCH_SIZE", k.Int("batch_size"), DefaultBatchSize)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}
	poolSize, err := getEnvIntOrDefault("BLUEBRIDGE_POOL_SIZE", k.Int("pool_size"), 0)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	weights := [6]float64{}
	weightKeys := []struct {
		env string
		key string
		def float64
	}{
		{"BLUEBRIDGE_QUERY_SEMANTIC_WEIGHT", "query_semantic_weight", DefaultQuerySemanticWeight},
		{"BLUEBRIDGE_QUERY_INTENT_WEIGHT", "query_intent_weight", DefaultQueryIntentWeight},
		{"BLUEBRIDGE_QUERY_ELIGIBILITY_WEIGHT", "query_eligibility_weight", DefaultQueryEligibilityWeight},
		{"BLUEBRIDGE_PROFILE_SEMANTIC_WEIGHT", "profile_semantic_weight", DefaultProfileSemanticWeight},
		{"BLUEBRIDGE_PROFILE_INTENT_WEIGHT", "profile_intent_weight", DefaultProfileIntentWeight},
		{"BLUEBRIDGE_PROFILE_ELIGIBILITY_WEIGHT", "profile_eligibility_weight", DefaultProfileEligibilityWeight},
	}
	for i, wk := range weightKeys {
		w, err := getEnvFloatOrDefault(wk.env, k.Float64(wk.key), wk.def)
		if err != nil {
			loadErrs = append(loadErrs, err)
		}
		weights[i] = w
	}

	inMemory := k.Bool("in_memory")
	if val := os.Getenv("BLUEBRIDGE_IN_MEMORY"); val != "" {
		inMemory = val == "true" || val == "1" || val == "yes"
	}

	cfg := &Config{
		DataDir:        getEnvOrDefault("BLUEBRIDGE_DATA_DIR", k.String("data_dir"), DefaultDataDir),
		InMemory:       inMemory,
		EmbeddingHost:  getEnvOrDefault("BLUEBRIDGE_EMBEDDING_HOST", k.String("embedding_host"), DefaultEmbeddingHost),
		ChatHost:       getEnvOrDefault("BLUEBRIDGE_CHAT_HOST", k.String("chat_host"), DefaultChatHost),
		EmbeddingModel: getEnvOrDefault("BLUEBRIDGE_EMBEDDING_MODEL", k.String("embedding_model"), DefaultEmbeddingModel),
		ChatModel:      getEnvOrDefault("BLUEBRIDGE_CHAT_MODEL", k.String("chat_model"), DefaultChatModel),

		TopK:         topK,
		MaxPerBucket: maxPerBucket,

		QuerySemanticWeight:    weights[0],
		QueryIntentWeight:      weights[1],
		QueryEligibilityWeight: weights[2],

		ProfileSemanticWeight:    weights[3],
		ProfileIntentWeight:      weights[4],
		ProfileEligibilityWeight: weights[5],

		BatchSize: batchSize,
		PoolSize:  poolSize,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks that all configuration values are usable.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DataDir == "" && !c.InMemory {
		errs = append(errs, ErrMissingDataDir)
	}
	if c.TopK <= 0 {
		errs = append(errs, ErrInvalidTopK)
	}
	if c.MaxPerBucket <= 0 {
		errs = append(errs, ErrInvalidBucketCap)
	}
	if c.BatchSize <= 0 {
		errs = append(errs, ErrInvalidBatchSize)
	}

	for _, w := range []float64{
		c.QuerySemanticWeight, c.QueryIntentWeight, c.QueryEligibilityWeight,
		c.ProfileSemanticWeight, c.ProfileIntentWeight, c.ProfileEligibilityWeight,
	} {
		if w < 0 {
			errs = append(errs, ErrInvalidWeight)
			break
		}
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"data_dir":        c.DataDir,
		"in_memory":       fmt.Sprintf("%t", c.InMemory),
		"embedding_host":  c.EmbeddingHost,
		"chat_host":       c.ChatHost,
		"embedding_model": c.EmbeddingModel,
		"chat_model":      c.ChatModel,
		"top_k":           fmt.Sprintf("%d", c.TopK),
		"max_per_bucket":  fmt.Sprintf("%d", c.MaxPerBucket),
		"batch_size":      fmt.Sprintf("%d", c.BatchSize),
	}
}

// getEnvOrDefault returns the environment variable value if set, otherwise
// the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set,
// otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, ErrInvalidIntegerEnv)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set,
// otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, ErrInvalidFloatEnv)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}
