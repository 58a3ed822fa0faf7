package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// ACRISBaseURL is the document recorder API root (Socrata-style).
	ACRISBaseURL string

	// DatabaseURL is the relational store holding valuations and, when the
	// yaml paths are unset, the reference tables.
	DatabaseURL string

	// RedisURL enables the fetch cache when non-empty.
	RedisURL string
	CacheTTL time.Duration

	// KafkaSeeds enables lookup analytics when non-empty.
	KafkaSeeds []string
	KafkaTopic string

	ControlCodesPath string
	TaxRatesPath     string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PARCELVIEW_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cacheTTL := 15 * time.Minute
	if raw := os.Getenv("PARCELVIEW_CACHE_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cacheTTL = d
		}
	}

	var seeds []string
	if raw := os.Getenv("PARCELVIEW_KAFKA_SEEDS"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				seeds = append(seeds, s)
			}
		}
	}
	topic := os.Getenv("PARCELVIEW_KAFKA_TOPIC")
	if topic == "" {
		topic = "parcelview.lookups"
	}

	return Server{
		Addr:             addr,
		ACRISBaseURL:     os.Getenv("PARCELVIEW_ACRIS_URL"),
		DatabaseURL:      os.Getenv("PARCELVIEW_DATABASE_URL"),
		RedisURL:         os.Getenv("PARCELVIEW_REDIS_URL"),
		CacheTTL:         cacheTTL,
		KafkaSeeds:       seeds,
		KafkaTopic:       topic,
		ControlCodesPath: os.Getenv("PARCELVIEW_CONTROL_CODES"),
		TaxRatesPath:     os.Getenv("PARCELVIEW_TAX_RATES"),
	}
}
