// Package config loads resumatch settings from a YAML file, the environment
// and a .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/muhammadolammi/resumatch/internal/nlp"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxUploadBytes matches the upload limit of the HTTP front end.
	DefaultMaxUploadBytes = 16 << 20

	defaultGeminiModel   = "gemini-2.5-pro"
	defaultGeminiTimeout = 30 * time.Second
)

type Config struct {
	Debug          bool         `mapstructure:"debug"`
	JSON           bool         `mapstructure:"json"`
	MaxUploadBytes int64        `mapstructure:"max-upload-bytes"`
	NER            NERConfig    `mapstructure:"ner"`
	Worker         WorkerConfig `mapstructure:"worker"`
	DBURL          string       `mapstructure:"db-url"`
	RabbitMQURL    string       `mapstructure:"rabbitmq-url"`
	R2             R2Config     `mapstructure:"r2"`
}

type NERConfig struct {
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api-key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WorkerConfig struct {
	Count            int    `mapstructure:"count"`
	Queue            string `mapstructure:"queue"`
	Exchange         string `mapstructure:"exchange"`
	DownloadAttempts int    `mapstructure:"download-attempts"`
	SaveAttempts     int    `mapstructure:"save-attempts"`
}

type R2Config struct {
	AccountID string `mapstructure:"account-id"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max-upload-bytes", DefaultMaxUploadBytes)
	v.SetDefault("ner.provider", "prose")
	v.SetDefault("ner.gemini.model", defaultGeminiModel)
	v.SetDefault("ner.gemini.timeout", defaultGeminiTimeout)
	v.SetDefault("worker.count", 3)
	v.SetDefault("worker.queue", "sessions")
	v.SetDefault("worker.exchange", "session_updates")
	v.SetDefault("worker.download-attempts", 3)
	v.SetDefault("worker.save-attempts", 3)
}

// BindEnv binds the deployment environment variables. R2_ACCCOUNT_ID is the
// spelling used by existing deployments and is still honored.
func BindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"db-url":             {"DB_URL"},
		"rabbitmq-url":       {"RABBITMQ_URL"},
		"r2.account-id":      {"R2_ACCOUNT_ID", "R2_ACCCOUNT_ID"},
		"r2.bucket":          {"R2_BUCKET"},
		"r2.access-key":      {"R2_ACCESS_KEY"},
		"r2.secret-key":      {"R2_SECRET_KEY"},
		"ner.gemini.api-key": {"GOOGLE_API_KEY"},
		"ner.provider":       {"NER_PROVIDER"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding %v environment variables: %w", envs, err)
		}
	}
	return nil
}

// Load unmarshals v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NLP returns the language model settings.
func (c *Config) NLP() nlp.Config {
	return nlp.Config{
		Provider: c.NER.Provider,
		Gemini: nlp.GeminiConfig{
			APIKey:  c.NER.Gemini.APIKey,
			Model:   c.NER.Gemini.Model,
			Timeout: c.NER.Gemini.Timeout,
		},
	}
}

// ValidateWorker reports every setting the queue worker needs but lacks.
func (c *Config) ValidateWorker() error {
	var errs []error
	required := []struct {
		value, env string
	}{
		{c.DBURL, "DB_URL"},
		{c.RabbitMQURL, "RABBITMQ_URL"},
		{c.R2.AccountID, "R2_ACCOUNT_ID"},
		{c.R2.Bucket, "R2_BUCKET"},
		{c.R2.AccessKey, "R2_ACCESS_KEY"},
		{c.R2.SecretKey, "R2_SECRET_KEY"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("empty %s in environment", r.env))
		}
	}
	if c.Worker.Count < 1 {
		errs = append(errs, fmt.Errorf("worker.count must be positive, got %d", c.Worker.Count))
	}
	if c.Worker.Queue == "" {
		errs = append(errs, errors.New("worker.queue is empty"))
	}
	return errors.Join(errs...)
}
