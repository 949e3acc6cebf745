package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cell-monitor/internal/config"
)

var (
	logLevel   = "info"
	configPath = ""
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
	return nil
}

// loadConfig reads .env, the optional config file and the environment.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()
	if configPath == "" {
		configPath = os.Getenv("CELLMON_CONFIG")
	}
	return config.Load(configPath)
}

func main() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cellmon",
		Short: "cellmon records battery cells and reports their voltage, capacity and status",
		Long: `cellmon records a small set of battery cells (LFP or NMC), assigns each the
nominal voltage and bounds of its chemistry, samples an ambient temperature
and computes capacity from the current you enter.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (defaults to $CELLMON_CONFIG)")

	cmd.AddCommand(
		NewPromptCommand(),
		NewExportCommand(),
		NewDemoCommand(),
		NewChemistriesCommand(),
	)

	return cmd
}
