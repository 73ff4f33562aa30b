package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/trainer-directory/pkg/core/availability"
)

const configFileName = "trainer_directory_config.yaml"

// GeocoderConfig configures place lookups for proximity ranking
type GeocoderConfig struct {
	BaseURL           string  `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	UserAgent         string  `yaml:"userAgent,omitempty"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty" validate:"gte=0"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds,omitempty" validate:"gte=0"`
}

// Timeout returns the request timeout, zero when unset
func (g GeocoderConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// RedisConfig enables the geocoding cache when present
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required,hostname_port"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty" validate:"gte=0"`
	TTLHours int    `yaml:"ttlHours,omitempty" validate:"gte=0"`
}

// TTL returns how long geocoding results are cached, one week by default
func (r RedisConfig) TTL() time.Duration {
	if r.TTLHours == 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(r.TTLHours) * time.Hour
}

// AvailabilityConfig holds the persisted availability labels
type AvailabilityConfig struct {
	Labels availability.Labels `yaml:"labels"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// Trainer directory source; syncTrainers is unavailable when TrainerSheetID is empty
	TrainerSheetID        string `yaml:"trainerSheetID,omitempty"`
	TrainerSheetTab       string `yaml:"trainerSheetTab,omitempty" validate:"required_with=TrainerSheetID"`
	GoogleCredentialsFile string `yaml:"googleCredentialsFile,omitempty" validate:"required_with=TrainerSheetID"`

	Geocoder     GeocoderConfig     `yaml:"geocoder,omitempty"`
	Redis        *RedisConfig       `yaml:"redis,omitempty"`
	Availability AvailabilityConfig `yaml:"availability,omitempty"`

	Locale     string `yaml:"locale,omitempty"`
	Timezone   string `yaml:"timezone,omitempty"`
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from trainer_directory_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads <env>_trainer_directory_config.yaml, or the default file when env is empty
func LoadWithEnv(env string) (*Config, error) {
	name := configFileName
	if env != "" {
		name = env + "_" + configFileName
	}

	configPath, err := findConfigFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Availability.Labels == (availability.Labels{}) {
		cfg.Availability.Labels = availability.DefaultLabels
	}
	if cfg.Locale == "" {
		cfg.Locale = "fr"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Paris"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
}

// Validate validates the configuration struct, the availability labels and the locale
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := availability.NewCycle(cfg.Availability.Labels); err != nil {
		return fmt.Errorf("invalid availability labels: %w", err)
	}

	if cfg.Locale != "" {
		if _, err := language.Parse(cfg.Locale); err != nil {
			return fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
		}
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	return nil
}

// Cycle returns the availability state machine using the configured labels
func (c *Config) Cycle() (*availability.Cycle, error) {
	return availability.NewCycle(c.Availability.Labels)
}

// Location returns the timezone used to display times, UTC if it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// findConfigFile searches for name in the current directory and the home directory
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
