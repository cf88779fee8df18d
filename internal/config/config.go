// Package config provides configuration types, defaults and validation for electryonz.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/electryonz/internal/flags"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/tracing"
)

// DefaultPath is where a missing config file is created.
const DefaultPath = ".electryonz/config.yaml"

// Config holds all configuration options for electryonz.
type Config struct {
	Endpoint EndpointConfig       `mapstructure:"endpoint"`
	Pricing  registration.Pricing `mapstructure:"pricing"`
	UI       UIConfig             `mapstructure:"ui"`
	Tracing  tracing.Config       `mapstructure:"tracing"`
	Flags    map[string]bool      `mapstructure:"flags"`
}

// EndpointConfig locates the registration service.
type EndpointConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`
	// Timeout bounds one registration request. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

// RegisterURL joins BaseURL and Path.
func (e EndpointConfig) RegisterURL() (string, error) {
	base, err := url.Parse(e.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint.base_url: %w", err)
	}
	return base.JoinPath(e.Path).String(), nil
}

// UIConfig holds user interface options.
type UIConfig struct {
	MarkdownStyle string        `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ToastDuration time.Duration `mapstructure:"toast_duration"`
	QRSize        int           `mapstructure:"qr_size"` // preview width in cells
}

// DefaultTracesFilePath returns ~/.config/electryonz/traces/traces.jsonl, or
// "" when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "electryonz", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Endpoint: EndpointConfig{
			BaseURL: "http://localhost:5000",
			Path:    "/api/register",
		},
		Pricing: registration.DefaultPricing(),
		UI: UIConfig{
			MarkdownStyle: "dark",
			ToastDuration: 4 * time.Second,
			QRSize:        33,
		},
		Tracing: tr,
		Flags:   flags.Defaults(),
	}
}

// FillDefaults supplies list defaults viper cannot merge: an empty catalog or
// team event list falls back to the built-in one.
func FillDefaults(c *Config) {
	def := registration.DefaultPricing()
	if c.Pricing.Catalog.Empty() {
		c.Pricing.Catalog = def.Catalog
	}
	if len(c.Pricing.TeamEvents) == 0 {
		c.Pricing.TeamEvents = def.TeamEvents
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "file" && c.Tracing.FilePath == "" {
		c.Tracing.FilePath = DefaultTracesFilePath()
	}
}

// ValidateEndpoint checks the registration service location.
func ValidateEndpoint(e EndpointConfig) error {
	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return fmt.Errorf("endpoint.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint.base_url must be an http or https URL, got %q", e.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint.base_url is missing a host: %q", e.BaseURL)
	}
	if e.Timeout < 0 {
		return fmt.Errorf("endpoint.timeout must not be negative, got %s", e.Timeout)
	}
	return nil
}

// ValidatePricing checks the pricing section and warns about equal solo and
// team prices, which is accepted but usually a configuration slip.
func ValidatePricing(p registration.Pricing) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	if p.TeamPriceMatchesSolo() {
		log.Warn(log.CatConfig, "team price equals solo price", "price", p.SoloPrice)
	}
	return nil
}

// ValidateUI checks user interface options.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	if ui.ToastDuration < 0 {
		return fmt.Errorf("ui.toast_duration must not be negative, got %s", ui.ToastDuration)
	}
	if ui.QRSize < 0 || ui.QRSize > 200 {
		return fmt.Errorf("ui.qr_size must be between 0 and 200, got %d", ui.QRSize)
	}
	return nil
}

// ValidateTracing checks the tracing section.
func ValidateTracing(t tracing.Config) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate runs every section validator.
func Validate(c Config) error {
	if err := ValidateEndpoint(c.Endpoint); err != nil {
		return err
	}
	if err := ValidatePricing(c.Pricing); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Electryonz Registration Configuration

# Registration service
endpoint:
  base_url: http://localhost:5000
  path: /api/register
  # timeout: 30s       # Request timeout (default: none)

# How the registration fee is computed
pricing:
  # catalog:   pick events, sum their prices, discount for bulk picks
  # fixed:     one flat fee
  # solo_team: flat fee for solo or team entry
  mode: catalog
  discount:
    threshold: 3       # Events needed before the discount applies
    percent: 10        # Percent off the total
  fixed_amount: 300
  solo_price: 300
  team_price: 300
  # Event list (default: the Electryonz'25 catalog). Run "electryonz catalog --save"
  # to copy the built-in list here for editing.
  # catalog:
  #   technical:
  #     - {id: 1, name: Paper Presentation, price: 200}
  #   non_technical:
  #     - {id: 7, name: Chess Champions, price: 200}
  # team_events:
  #   - {key: ppt, name: Paper Presentation, min_size: 2, max_size: 3}
  #   - {key: project-expo, name: Project Expo, min_size: 2, max_size: 4}

# UI settings
ui:
  markdown_style: dark   # Receipt rendering style: "dark" or "light"
  toast_duration: 4s     # How long notifications stay visible
  qr_size: 33            # QR preview width in terminal cells

# Tracing of registration requests
# tracing:
#   enabled: true
#   exporter: file       # none, file, stdout, otlp
#   file_path: ~/.config/electryonz/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   qr-preview: true        # Draw the payment QR code in the terminal
#   receipt-markdown: false # Show a rendered receipt after registering
`
}

// WriteDefaultConfig creates a config file at configPath from the template,
// creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
