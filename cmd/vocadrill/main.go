package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/darkclainer/vocadrill/pkg/config"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

var (
	debugMode bool
	logger    = zap.NewNop()
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	conf.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return conf.Build()
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "vocadrill",
		Short:         "Parse vocabulary documents and drill their words",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(debugMode)
			if err != nil {
				return fmt.Errorf("can not instantiate logger: %w", err)
			}
			logger = l
			return nil
		},
	}
	config.Flags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(
		newParseCommand(),
		newMaskCommand(),
		newDrillCommand(),
	)
	return rootCommand
}

// loadConfig reads configuration pointed by the root --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	conf, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return conf, nil
}

func main() {
	err := newRootCommand().Execute()
	_ = logger.Sync()
	if err != nil {
		exitf(codeInternalError, "failed to execute a command: %s\n", err)
	}
}
