package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/logger"
	"github.com/spigell/rh-pro/internal/presenter"
	"github.com/spigell/rh-pro/internal/staging"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "rh-pro"

	defaultTimeout      = 2 * time.Minute
	defaultMaxLogLength = 200
)

type Config struct {
	Service *ServiceConfig `mapstructure:"service" validate:"required"`
	Form    *FormConfig    `mapstructure:"form" validate:"required"`
}

type ServiceConfig struct {
	Endpoint     string        `mapstructure:"endpoint" validate:"required,url,startswith=http"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent    string        `mapstructure:"user-agent"`
	TokenFile    string        `mapstructure:"token-file"`
	MaxLogLength int           `mapstructure:"max-log-length" validate:"gte=0"`
}

type FormConfig struct {
	AcceptedExtensions []string `mapstructure:"accepted-extensions"`
	PlaceholderCount   int      `mapstructure:"placeholder-count" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "rh-pro ranks candidate résumés against a job description using a remote analysis service",
		// Failures are already reported through the logger.
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is rh-pro.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().String("log-output", logger.DefaultOutput, "where logs are written: stderr, stdout or a file path")
	rootCmd.PersistentFlags().String("endpoint", "", "analysis service endpoint (overrides service.endpoint)")

	bindConfig()
}

// bindConfig wires environment variables, defaults and persistent flags into viper.
func bindConfig() {
	if err := viper.BindEnv("service.endpoint", "RH_PRO_ENDPOINT"); err != nil {
		log.Fatalf("binding RH_PRO_ENDPOINT environment variable: %v", err)
	}
	if err := viper.BindEnv("service.token-file", "RH_PRO_TOKEN_FILE"); err != nil {
		log.Fatalf("binding RH_PRO_TOKEN_FILE environment variable: %v", err)
	}

	setDefaults()

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("log-output", rootCmd.PersistentFlags().Lookup("log-output"))
	viper.BindPFlag("service.endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
}

func setDefaults() {
	viper.SetDefault("service.endpoint", analysis.DefaultEndpoint)
	viper.SetDefault("service.timeout", defaultTimeout)
	viper.SetDefault("service.max-log-length", defaultMaxLogLength)
	viper.SetDefault("form.accepted-extensions", staging.DefaultExtensions)
	viper.SetDefault("form.placeholder-count", presenter.DefaultPlaceholderCount)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config the file is optional.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is required")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
