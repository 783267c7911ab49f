package classifier

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tgaplan/estimator/internal/pkg/constants"
)

type Config struct {
	// LexicalThreshold is the minimum lexical score accepted without
	// consulting the semantic fallback.
	LexicalThreshold float64
	// SemanticThreshold is the minimum fallback confidence accepted.
	SemanticThreshold float64
	// TopK bounds the candidate list handed to the fallback.
	TopK int
	// Workers bounds the classification worker pool.
	Workers int
	// FallbackConcurrency bounds concurrent fallback invocations.
	FallbackConcurrency int
	// FallbackTimeout time-boxes one fallback invocation; on expiry the room
	// degrades to its lexical-only result.
	FallbackTimeout time.Duration
}

func ConfigFromViper() Config {
	return Config{
		LexicalThreshold:    viper.GetFloat64(constants.ViperKeyLexicalThreshold),
		SemanticThreshold:   viper.GetFloat64(constants.ViperKeySemanticThreshold),
		TopK:                viper.GetInt(constants.ViperKeyTopK),
		Workers:             viper.GetInt(constants.ViperKeyWorkers),
		FallbackConcurrency: viper.GetInt(constants.ViperKeyFallbackConcurrency),
		FallbackTimeout:     viper.GetDuration(constants.ViperKeyFallbackTimeout),
	}
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = 25
	}
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.FallbackConcurrency <= 0 {
		c.FallbackConcurrency = 5
	}
	if c.FallbackTimeout <= 0 {
		c.FallbackTimeout = 20 * time.Second
	}
	return c
}
