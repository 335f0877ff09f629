package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/config"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/engine"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/logging"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/version"
)

// app holds the dependencies shared by every subcommand. Tests replace the
// constructors with fakes; production uses the real AWS SDK.
type app struct {
	loader      config.Loader
	newProvider func(cfg *config.Config) common.AWSClientProvider
	newClient   engine.ClientBuilder

	// set by the root PersistentPreRunE
	cfg      *config.Config
	logger   zerolog.Logger
	logClose io.Closer
}

// close releases the log output opened by the root command.
func (a *app) close() {
	if a.logClose != nil {
		a.logClose.Close()
		a.logClose = nil
	}
}

func newDefaultApp() *app {
	return &app{
		newProvider: func(cfg *config.Config) common.AWSClientProvider {
			return common.NewDefaultAWSClientProvider().WithMaxAttempts(cfg.AWS.MaxAttempts)
		},
		newClient: engine.NewS3Client,
	}
}

func newRootCmdWithApp(a *app) *cobra.Command {
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	root := &cobra.Command{
		Use:           "s3sentinel",
		Short:         "s3sentinel audits S3 bucket configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.loader == nil {
				a.loader = config.NewFileLoader(configPath)
			}
			cfg, err := a.loader.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			logger, closer, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			a.logClose = closer
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $S3SENTINEL_CONFIG or ~/.config/s3-sentinel/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")

	root.AddCommand(newScanCmd(a))
	root.AddCommand(newChecksCmd(a))
	root.AddCommand(newPolicyCmd())
	root.AddCommand(newExplainCmd())
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs neither config nor logging.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// useColor reports whether table output should be coloured. fatih/color
// already disables colour when stdout is not a terminal or NO_COLOR is set.
func useColor(noColor bool) bool {
	return !noColor && !color.NoColor
}
