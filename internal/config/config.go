// Package config loads runtime settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the cutting list tools.
type Config struct {
	Log        LogConfig
	Preprocess PreprocessConfig
	Pipeline   PipelineConfig
	Vision     VisionConfig
	OCR        OCRConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// PreprocessConfig bounds the working image size.
type PreprocessConfig struct {
	MaxWidth  int
	MaxHeight int
}

// PipelineConfig tunes the orchestrator.
type PipelineConfig struct {
	AnalyzeWorkers int
}

// VisionConfig points at an OpenAI compatible vision model server.
type VisionConfig struct {
	URL       string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// OCRConfig controls the Tesseract fallback.
type OCRConfig struct {
	Language string
	Enabled  bool
}

// Load reads settings from CUTLIST_* environment variables, layered over the
// values in configFile when it is not empty, layered over the defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("CUTLIST_LOG_LEVEL", "info")
	v.SetDefault("CUTLIST_MAX_WIDTH", 4000)
	v.SetDefault("CUTLIST_MAX_HEIGHT", 4000)
	v.SetDefault("CUTLIST_ANALYZE_WORKERS", 4)
	v.SetDefault("CUTLIST_VISION_URL", "")
	v.SetDefault("CUTLIST_VISION_MODEL", "Qwen/Qwen2-VL-2B-Instruct")
	v.SetDefault("CUTLIST_VISION_TIMEOUT", 120*time.Second)
	v.SetDefault("CUTLIST_VISION_MAX_TOKENS", 1000)
	v.SetDefault("CUTLIST_OCR_LANGUAGE", "eng")
	v.SetDefault("CUTLIST_OCR_ENABLED", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level: v.GetString("CUTLIST_LOG_LEVEL"),
		},
		Preprocess: PreprocessConfig{
			MaxWidth:  v.GetInt("CUTLIST_MAX_WIDTH"),
			MaxHeight: v.GetInt("CUTLIST_MAX_HEIGHT"),
		},
		Pipeline: PipelineConfig{
			AnalyzeWorkers: v.GetInt("CUTLIST_ANALYZE_WORKERS"),
		},
		Vision: VisionConfig{
			URL:       v.GetString("CUTLIST_VISION_URL"),
			Model:     v.GetString("CUTLIST_VISION_MODEL"),
			Timeout:   v.GetDuration("CUTLIST_VISION_TIMEOUT"),
			MaxTokens: v.GetInt("CUTLIST_VISION_MAX_TOKENS"),
		},
		OCR: OCRConfig{
			Language: v.GetString("CUTLIST_OCR_LANGUAGE"),
			Enabled:  v.GetBool("CUTLIST_OCR_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Preprocess.MaxWidth <= 0 || c.Preprocess.MaxHeight <= 0 {
		return fmt.Errorf("invalid max image size %dx%d", c.Preprocess.MaxWidth, c.Preprocess.MaxHeight)
	}
	if c.Pipeline.AnalyzeWorkers < 1 {
		return fmt.Errorf("invalid analyze worker count %d", c.Pipeline.AnalyzeWorkers)
	}
	if c.Vision.Timeout <= 0 {
		return fmt.Errorf("invalid vision timeout %s", c.Vision.Timeout)
	}
	return nil
}
