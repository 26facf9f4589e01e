package cmd

import (
	"os"
	"strings"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/logger"
	"github.com/spigell/rh-pro/internal/presenter"
	"github.com/spigell/rh-pro/internal/secrets"
	"github.com/spigell/rh-pro/internal/submission"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const tokenEnv = "RH_PRO_TOKEN"

// setup builds the logger and the validated config shared by all commands.
func setup() (*zap.Logger, *Config, error) {
	log, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: viper.GetString("log-output"),
	})
	if err != nil {
		return nil, nil, err
	}

	config, err := getConfig()
	if err != nil {
		return log, nil, err
	}

	log.Debug("starting with config",
		zap.String("endpoint", config.Service.Endpoint),
		zap.Duration("timeout", config.Service.Timeout),
		zap.Strings("accepted_extensions", config.Form.AcceptedExtensions),
	)

	return log, config, nil
}

func resolveToken(config *ServiceConfig) (string, error) {
	src := secrets.Source{
		Name: "analysis service token",
		File: strings.TrimSpace(config.TokenFile),
		Env:  tokenEnv,
	}

	// The token is optional.
	if src.File == "" && strings.TrimSpace(os.Getenv(tokenEnv)) == "" {
		return "", nil
	}

	return secrets.Load(src)
}

func newController(config *Config, log *zap.Logger) (*submission.Controller, error) {
	token, err := resolveToken(config.Service)
	if err != nil {
		return nil, err
	}

	client := analysis.New(log, config.Service.Endpoint, token)
	if ua := strings.TrimSpace(config.Service.UserAgent); ua != "" {
		client.UserAgent = ua
	}
	if config.Service.MaxLogLength > 0 {
		client.MaxLogLength = config.Service.MaxLogLength
	}

	return submission.New(client, log, config.Service.Timeout), nil
}

func newPresenter(config *Config) presenter.Presenter {
	return presenter.Presenter{PlaceholderCount: config.Form.PlaceholderCount}
}

// useColor reports whether f is a terminal and colours were not disabled.
func useColor(f *os.File) bool {
	if viper.GetBool("no-color") || f == nil {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
