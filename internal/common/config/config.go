// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                 `mapstructure:"app"`
	GenAI         GenAIConfig               `mapstructure:"genai"`
	Generator     GeneratorConfig           `mapstructure:"generator"`
	Categories    map[string]CategoryConfig `mapstructure:"categories"`
	Translation   TranslationConfig         `mapstructure:"translation"`
	Notifications NotificationConfig        `mapstructure:"notifications"`
	Metrics       MetricsConfig             `mapstructure:"metrics"`
	Logging       LoggingConfig             `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// GenAIConfig holds settings for the text-generation backend.
type GenAIConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"`     // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"` // attempts beyond the first
}

// GeneratorConfig holds settings for the universal generation pipeline.
type GeneratorConfig struct {
	OutputDir       string `mapstructure:"output_dir"`
	LanguagesPath   string `mapstructure:"languages_path"`
	MaxConcurrent   int    `mapstructure:"max_concurrent"`
	RequestInterval int    `mapstructure:"request_interval"` // milliseconds between dispatches, 0 disables
	SkipExisting    bool   `mapstructure:"skip_existing"`
	Debug           bool   `mapstructure:"debug"` // dry-run: log prompts, send nothing, write nothing
}

// CategoryConfig describes one knowledge category pluggable into the pipeline.
type CategoryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	TemplatePath   string `mapstructure:"template_path"`
	DataPath       string `mapstructure:"data_path"`
	OutputBasename string `mapstructure:"output_basename"`
}

// TranslationConfig holds settings for translating finished documents.
type TranslationConfig struct {
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	PromptPath    string  `mapstructure:"prompt_path"`
	LanguagesPath string  `mapstructure:"languages_path"`
}

// NotificationConfig holds settings for run-completion notifications.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// MetricsConfig holds settings for the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
