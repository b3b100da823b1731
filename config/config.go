package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Concierge ConciergeConfig `mapstructure:"concierge"`
}

// ConciergeConfig carries the tunables of the concierge engine. Everything the
// retrieval and generation paths need is injected from here; business logic
// never reads the environment directly.
type ConciergeConfig struct {
	ResortName      string          `mapstructure:"resortName"`
	Model           string          `mapstructure:"model"`
	EmbeddingModel  string          `mapstructure:"embeddingModel"`
	Temperature     float32         `mapstructure:"temperature"`
	MaxOutputTokens int32           `mapstructure:"maxOutputTokens"`
	Retrieval       RetrievalConfig `mapstructure:"retrieval"`
}

// RetrievalConfig exposes the retrieval limits that kept being re-tuned as
// explicit configuration instead of scattered constants.
type RetrievalConfig struct {
	// DefaultK is substituted when a caller passes k <= 0.
	DefaultK int `mapstructure:"defaultK"`
	// PerCategoryK is the per-category result budget used by the
	// quick-recommendation fast path.
	PerCategoryK int `mapstructure:"perCategoryK"`
	// CandidateMultiplier controls the headroom requested from the semantic
	// index before filtering (k * CandidateMultiplier candidates per query).
	CandidateMultiplier int `mapstructure:"candidateMultiplier"`
	// MaxContextVenues caps how many venues are rendered into the LLM prompt.
	MaxContextVenues int `mapstructure:"maxContextVenues"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
