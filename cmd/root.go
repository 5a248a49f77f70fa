package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spigell/guest-tracker/internal/cache"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/logger"
	"github.com/spigell/guest-tracker/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "guest-tracker"
)

type Config struct {
	Scoring ScoringConfig `mapstructure:"scoring"`
	Cache   CacheConfig   `mapstructure:"cache"`
	AI      *AIConfig     `mapstructure:"ai"`
	Guests  GuestsConfig  `mapstructure:"guests"`
	Host    HostConfig    `mapstructure:"host"`
	Server  ServerConfig  `mapstructure:"server"`
}

type ScoringConfig struct {
	Weights scoring.Weights `mapstructure:"weights"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type GuestsConfig struct {
	// ProfilesDir holds curated <slug>.json guest profiles.
	ProfilesDir string `mapstructure:"profiles-dir"`
}

type HostConfig struct {
	// VideosDir holds exported <channel>.json video lists. When empty the
	// built-in sample channel is used.
	VideosDir string `mapstructure:"videos-dir"`
	MaxVideos int    `mapstructure:"max-videos" validate:"gte=0"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider" validate:"omitempty,oneof=gemini ollama"`
	Temperature  float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxLogLength int           `mapstructure:"max-log-length" validate:"gte=0"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	Ollama       *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKeyFile string        `mapstructure:"api-key-file"`
	APIKey     string        `mapstructure:"api-key"`
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max-retries" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type OllamaConfig struct {
	URL       string        `mapstructure:"url" validate:"omitempty,url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max-tokens" validate:"gte=0"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "guest-tracker scores how well podcast guests fit a host's YouTube channel",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.ollama.url", "OLLAMA_URL"); err != nil {
		log.Fatalf("binding OLLAMA_URL environment variable: %v", err)
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is guest-tracker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	w := scoring.DefaultWeights()
	v.SetDefault("scoring.weights.topic-alignment", w.TopicAlignment)
	v.SetDefault("scoring.weights.authority-score", w.AuthorityScore)
	v.SetDefault("scoring.weights.audience-appeal", w.AudienceAppeal)
	v.SetDefault("scoring.weights.uniqueness-factor", w.UniquenessFactor)
	v.SetDefault("scoring.weights.engagement-potential", w.EngagementPotential)

	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("host.max-videos", host.DefaultMaxVideos)
	v.SetDefault("server.address", ":8080")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max-log-length", 500)
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.timeout", 2*time.Minute)
	v.SetDefault("ai.ollama.model", "llama3.3:70b")
	v.SetDefault("ai.ollama.max-tokens", 1000)
	v.SetDefault("ai.ollama.timeout", 2*time.Minute)
}

func initConfig() {
	// A missing .env is fine; the variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every setting has a default, so only an explicit config file is mandatory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := config.Scoring.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}
