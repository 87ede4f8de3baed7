package main

import (
	"io"
	"log/slog"

	walver "github.com/Walver-io/walver-sdk-go"
	"github.com/Walver-io/walver-sdk-go/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	viper      *viper.Viper
	configPath string
	config     Config
	logger     *slog.Logger
	logOutput  io.Writer
}

func (a *app) newClient() (*walver.Client, error) {
	return walver.New(a.config.clientConfig(a.logger))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{viper: newViper(), logOutput: stderr}

	rootCmd := &cobra.Command{
		Use:           "walver",
		Short:         "Create and manage Walver wallet verifications",
		Long:          `Command line client for the Walver API: create verifications, manage folders and API keys, and receive webhook deliveries.`,
		Version:       walver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(a.viper, a.configPath)
			if err != nil {
				return err
			}
			a.config = config
			a.logger = logging.New(logging.Options{
				Level:  config.LogLevel,
				Format: config.LogFormat,
				Output: a.logOutput,
			})
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (json, yaml or toml)")
	flags.String("api-key", "", "Walver API key (env WALVER_API_KEY)")
	flags.String("base-url", walver.DefaultBaseURL, "Walver API base URL (env WALVER_BASE_URL)")
	flags.Duration("timeout", walver.DefaultTimeout, "timeout of a single request (env WALVER_TIMEOUT)")
	flags.Int("rate-limit", 0, "maximum requests per minute, 0 disables")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")

	bind := map[string]string{
		"api_key":            "api-key",
		"base_url":           "base-url",
		"timeout":            "timeout",
		"rate_limit_per_min": "rate-limit",
		"log_level":          "log-level",
		"log_format":         "log-format",
	}
	for key, flag := range bind {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		newVerificationCmd(a),
		newFolderCmd(a),
		newAPIKeyCmd(a),
		newWebhookCmd(a),
	)
	return rootCmd
}
