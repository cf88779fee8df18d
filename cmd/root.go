package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/electryonz/internal/app"
	"github.com/zjrosen/electryonz/internal/config"
	"github.com/zjrosen/electryonz/internal/flags"
	"github.com/zjrosen/electryonz/internal/log"
	"github.com/zjrosen/electryonz/internal/qrpreview"
	"github.com/zjrosen/electryonz/internal/registration"
	"github.com/zjrosen/electryonz/internal/ui/markdown"
)

func init() {
	// Query the terminal background before any program starts so the OSC 11
	// reply cannot land in a text input.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix     = "ELECTRYONZ"
	debugLogPath  = "debug.log"
	receiptWidth  = 60
	userConfigDir = "electryonz"
)

var version = "dev"

var rootCmd = newRootCmd()

// options is the state shared by the root command and its subcommands.
type options struct {
	v          *viper.Viper
	cfgFile    string
	cfg        config.Config
	configPath string
	closeLog   func()
}

func newRootCmd() *cobra.Command {
	o := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "electryonz",
		Short: "Register for the Electryonz'25 technical symposium",
		Long: `A terminal registration form for the Electryonz'25 technical symposium.

Fill in your details, pick your events and submit. On success the payment
QR code reference is shown; scan it to complete the payment.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return o.load() },
		RunE:              o.runApp,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.cfgFile, "config", "c", "",
		"config file (default: ~/.config/electryonz/config.yaml)")
	pf.String("endpoint", "", "registration service base URL")
	pf.String("mode", "", "pricing mode: catalog, fixed or solo_team (rev1, rev2, rev3)")
	pf.Bool("debug", false, "write "+debugLogPath+" and enable the log overlay (ctrl+x)")

	_ = o.v.BindPFlag("endpoint.base_url", pf.Lookup("endpoint"))
	_ = o.v.BindPFlag("pricing.mode", pf.Lookup("mode"))
	_ = o.v.BindPFlag("debug", pf.Lookup("debug"))

	root.AddCommand(newRegisterCmd(o), newCatalogCmd(o))
	return root
}

// load reads .env, opens the debug log when asked, then resolves the config.
func (o *options) load() error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	o.v.AutomaticEnv()

	if o.v.GetBool("debug") {
		cleanup, err := log.Init(debugLogPath)
		if err != nil {
			return err
		}
		o.closeLog = cleanup
	}

	cfg, path, err := loadConfig(o.v, o.cfgFile)
	if err != nil {
		o.close()
		return err
	}
	o.cfg = cfg
	o.configPath = path
	return nil
}

func (o *options) close() {
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("endpoint.base_url", d.Endpoint.BaseURL)
	v.SetDefault("endpoint.path", d.Endpoint.Path)
	v.SetDefault("endpoint.timeout", d.Endpoint.Timeout)

	v.SetDefault("pricing.mode", string(d.Pricing.Mode))
	v.SetDefault("pricing.discount.threshold", d.Pricing.Discount.Threshold)
	v.SetDefault("pricing.discount.percent", d.Pricing.Discount.Percent)
	v.SetDefault("pricing.fixed_amount", d.Pricing.FixedAmount)
	v.SetDefault("pricing.solo_price", d.Pricing.SoloPrice)
	v.SetDefault("pricing.team_price", d.Pricing.TeamPrice)

	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.toast_duration", d.UI.ToastDuration)
	v.SetDefault("ui.qr_size", d.UI.QRSize)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)

	for name, on := range flags.Defaults() {
		v.SetDefault("flags."+name, on)
	}
	v.SetDefault("debug", false)
}

// loadConfig resolves the configuration. Lookup order when cfgFile is empty:
//  1. .electryonz/config.yaml (current directory)
//  2. ~/.config/electryonz/config.yaml (user config)
//
// When neither exists a default file is written to the first location. The
// returned path is where catalog changes should be saved.
func loadConfig(v *viper.Viper, cfgFile string) (config.Config, string, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(config.DefaultPath); err == nil {
		v.SetConfigFile(config.DefaultPath)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", userConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		// If the write fails we carry on with defaults.
		if writeErr := config.WriteDefaultConfig(config.DefaultPath); writeErr == nil {
			v.SetConfigFile(config.DefaultPath)
			_ = v.ReadInConfig()
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	mode, err := registration.ParseMode(string(cfg.Pricing.Mode))
	if err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration: pricing: %w", err)
	}
	cfg.Pricing.Mode = mode
	config.FillDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}

	path := v.ConfigFileUsed()
	if path == "" {
		path = config.DefaultPath
	}
	log.Info(log.CatConfig, "config loaded", "path", path, "mode", cfg.Pricing.Mode)
	return cfg, path, nil
}

func (o *options) runApp(cmd *cobra.Command, _ []string) error {
	defer o.close()

	svc, err := buildServices(o.cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	receipts, err := markdown.New(receiptWidth, o.cfg.UI.MarkdownStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "receipt rendering disabled", err)
		receipts = nil
	}

	zone.NewGlobal()
	model := app.New(cmd.Context(), app.Services{
		Controller:    svc.ctrl,
		Flags:         svc.flags,
		QR:            qrpreview.New(o.cfg.UI.QRSize, qrpreview.WithTracer(svc.tracing.Tracer())),
		Receipts:      receipts,
		ToastDuration: o.cfg.UI.ToastDuration,
		Debug:         o.v.GetBool("debug"),
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
