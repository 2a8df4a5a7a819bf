package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds application configuration
type Config struct {
	GoogleCloudProject    string `json:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location" validate:"required"`
	GoogleCredentialsPath string `json:"google_credentials_path"`
	GeminiModel           string `json:"gemini_model"`
	EnableAIEnhancement   bool   `json:"enable_ai_enhancement"`

	GmailCredentialsPath string `json:"gmail_credentials_path"`
	GmailTokenPath       string `json:"gmail_token_path"`
	UploadsDir           string `json:"uploads_dir" validate:"required"`

	CatalogPath string  `json:"catalog_path"`
	TopN        int     `json:"top_n" validate:"gte=1,lte=50"`
	MinScore    float64 `json:"min_score" validate:"gte=0,lte=1"`
	Concurrency int     `json:"concurrency" validate:"gte=1,lte=64"`

	ListenAddr string `json:"listen_addr" validate:"required"`
	LogLevel   string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat  string `json:"log_format" validate:"omitempty,oneof=text json"`

	Queue   QueueConfig   `json:"queue"`
	Storage StorageConfig `json:"storage"`
}

// QueueConfig selects the AMQP broker used by the worker
type QueueConfig struct {
	URL             string `json:"url" validate:"omitempty,url"`
	JobsQueue       string `json:"jobs_queue" validate:"required"`
	ResultsExchange string `json:"results_exchange" validate:"required"`
	Prefetch        int    `json:"prefetch" validate:"gte=1"`
	MaxRetries      int    `json:"max_retries" validate:"gte=0,lte=10"`
}

// StorageConfig points at the S3-compatible bucket that holds queued documents
type StorageConfig struct {
	AccountID string `json:"account_id"`
	Endpoint  string `json:"endpoint" validate:"omitempty,url"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		GoogleCloudLocation:  "us-central1",
		GeminiModel:          "gemini-1.5-flash",
		UploadsDir:           "uploads",
		GmailCredentialsPath: "credentials.json",
		GmailTokenPath:       "token.json",
		TopN:                 5,
		MinScore:             0.2,
		Concurrency:          4,
		ListenAddr:           ":8080",
		LogLevel:             "info",
		LogFormat:            "text",
		Queue: QueueConfig{
			JobsQueue:       "cv_analysis_jobs",
			ResultsExchange: "cv_analysis_results",
			Prefetch:        1,
			MaxRetries:      3,
		},
		Storage: StorageConfig{Region: "auto"},
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/CareerProjector/config.json
// On Unix: ~/.config/CareerProjector/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		configDir = filepath.Join(os.Getenv("APPDATA"), "CareerProjector")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "CareerProjector")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks field ranges and that referenced credential files exist
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.EnableAIEnhancement && c.GoogleCloudProject == "" {
		return fmt.Errorf("google_cloud_project is required when AI enhancement is enabled")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); err != nil {
			return fmt.Errorf("pathway catalog not found: %w", err)
		}
	}

	return nil
}

// ValidateWorker checks the settings the queue worker cannot run without
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	var missing []string
	if c.Queue.URL == "" {
		missing = append(missing, "queue.url")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "storage.bucket")
	}
	if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		missing = append(missing, "storage credentials")
	}
	if c.Storage.Endpoint == "" && c.Storage.AccountID == "" {
		missing = append(missing, "storage.endpoint or storage.account_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("worker configuration incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// fieldMessage renders a validation failure with the JSON field name
func fieldMessage(fe validator.FieldError) string {
	field := jsonName(fe.StructNamespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "url":
		return field + " must be a URL"
	default:
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}

var jsonNames = map[string]string{
	"GoogleCloudLocation": "google_cloud_location",
	"UploadsDir":          "uploads_dir",
	"TopN":                "top_n",
	"MinScore":            "min_score",
	"Concurrency":         "concurrency",
	"ListenAddr":          "listen_addr",
	"LogLevel":            "log_level",
	"LogFormat":           "log_format",
	"Queue":               "queue",
	"URL":                 "url",
	"JobsQueue":           "jobs_queue",
	"ResultsExchange":     "results_exchange",
	"Prefetch":            "prefetch",
	"MaxRetries":          "max_retries",
	"Storage":             "storage",
	"Endpoint":            "endpoint",
}

// jsonName maps "Config.Queue.URL" to "queue.url"
func jsonName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if n, ok := jsonNames[p]; ok {
			parts[i] = n
		}
	}
	return strings.Join(parts, ".")
}

// ApplyEnvOverrides replaces settings with values from the environment
func (c *Config) ApplyEnvOverrides() error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str("GOOGLE_CLOUD_PROJECT", &c.GoogleCloudProject)
	str("GOOGLE_CLOUD_LOCATION", &c.GoogleCloudLocation)
	str("GOOGLE_APPLICATION_CREDENTIALS", &c.GoogleCredentialsPath)
	str("GEMINI_MODEL", &c.GeminiModel)
	str("CAREER_UPLOADS_DIR", &c.UploadsDir)
	str("CAREER_CATALOG_PATH", &c.CatalogPath)
	str("CAREER_LISTEN_ADDR", &c.ListenAddr)
	str("CAREER_LOG_LEVEL", &c.LogLevel)
	str("CAREER_LOG_FORMAT", &c.LogFormat)
	str("CAREER_GMAIL_CREDENTIALS", &c.GmailCredentialsPath)
	str("CAREER_GMAIL_TOKEN", &c.GmailTokenPath)
	str("AMQP_URL", &c.Queue.URL)
	str("R2_ACCOUNT_ID", &c.Storage.AccountID)
	str("R2_ENDPOINT", &c.Storage.Endpoint)
	str("R2_BUCKET", &c.Storage.Bucket)
	str("R2_ACCESS_KEY", &c.Storage.AccessKey)
	str("R2_SECRET_KEY", &c.Storage.SecretKey)

	if v := os.Getenv("CAREER_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CAREER_TOP_N: %w", err)
		}
		c.TopN = n
	}
	if v := os.Getenv("CAREER_MIN_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CAREER_MIN_SCORE: %w", err)
		}
		c.MinScore = f
	}
	if v := os.Getenv("CAREER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CAREER_CONCURRENCY: %w", err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv("CAREER_ENABLE_AI"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CAREER_ENABLE_AI: %w", err)
		}
		c.EnableAIEnhancement = b
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}

// ApplyToEnv applies configuration values to environment variables
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
