package detect

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"detect/internal/appinfo"
	"detect/pkg/config"
	"detect/pkg/logger"
)

const (
	defaultLocalPath  = "detect.toml"
	defaultSystemPath = "/etc/detect/config.toml"
)

// NewCommand creates the root command wired to the local machine.
func NewCommand() *cobra.Command {
	return newCommand(HostDeps, logger.Init)
}

type depsFunc func(cfg *config.Config, log zerolog.Logger) (Deps, error)

func newCommand(buildDeps depsFunc, initLog func(level string) zerolog.Logger) *cobra.Command {
	var (
		configPath string
		flags      config.Config
	)

	cmd := &cobra.Command{
		Use:   appinfo.Name,
		Short: "Collect this machine's package inventory and optionally submit it",
		Long: `detect gathers a hardware fingerprint, OS identity and the list of
installed pacman packages. With --submit it posts them once to the
collection endpoint; nothing is cached or retried.`,
		Version:       appinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, &flags)
			if err != nil {
				return err
			}

			log := initLog(cfg.LogLevel)
			log.Debug().Str("api_url", cfg.APIURL).Bool("submit", cfg.Submit).Msg("Configuration loaded")

			deps, err := buildDeps(cfg, log)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cfg, deps, log)
		},
	}

	cmd.Flags().BoolVarP(&flags.Submit, "submit", "s", false, "Submit a list of your installed packages")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print every probe result")
	cmd.Flags().StringVarP(&flags.APIURL, "api-url", "a", "", fmt.Sprintf("Customize API endpoint URL (env %s)", config.EnvAPIURL))
	cmd.Flags().StringVarP(&configPath, "config", "c", "", fmt.Sprintf("Path to config file (default ./%s, then %s)", defaultLocalPath, defaultSystemPath))
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", `Write the assembled payload to a file ("-" for stdout)`)
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: json or msgpack")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, path string, flags *config.Config) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else if _, statErr := os.Stat(defaultLocalPath); statErr == nil {
		cfg, err = config.Load(defaultLocalPath)
	} else {
		cfg, err = config.LoadOptional(defaultSystemPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)

	f := cmd.Flags()
	cfg.Submit = flags.Submit
	cfg.Verbose = flags.Verbose
	if f.Changed("api-url") {
		cfg.APIURL = flags.APIURL
	}
	if f.Changed("output") {
		cfg.Output = flags.Output
	}
	if f.Changed("format") {
		cfg.Format = flags.Format
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
