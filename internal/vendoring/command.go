package vendoring

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ronan22/obs-service-go-modules/internal/execshell"
	"github.com/ronan22/obs-service-go-modules/internal/ui"
	"github.com/ronan22/obs-service-go-modules/internal/utils"
)

const (
	commandUseConstant                      = "obs-service-go-modules"
	commandShortDescriptionConstant         = "Vendor the dependencies of a Go module source archive"
	commandLongDescriptionConstant          = "obs-service-go-modules extracts a compressed source archive, locates its go.mod manifest, runs the Go toolchain's download, verify, and vendor subcommands, and packages the populated vendor directory as vendor.tar.gz."
	commandExecutionErrorTemplateConstant   = "vendoring failed: %w"
	unexpectedArgumentsMessageConstant      = "obs-service-go-modules does not accept positional arguments"
	flagArchiveNameConstant                 = "archive"
	flagArchiveDescriptionConstant          = "Path to a compressed-tar source archive"
	flagOutputDirectoryNameConstant         = "outdir"
	flagOutputDirectoryDescription          = "Output and working directory for extraction and the vendor archive"
	flagStrategyNameConstant                = "strategy"
	flagStrategyDescriptionConstant         = "Dependency-handling mode; only \"vendor\" performs dependency orchestration"
	flagReportNameConstant                  = "report"
	flagReportDescriptionConstant           = "Write a YAML vendor report next to the vendor archive"
	configurationFileAppliedMessageConstant = "configuration file applied"
	logFieldConfigurationFileConstant       = "configuration_file"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the configured vendoring defaults.
type ConfigurationProvider func() Configuration

// HumanReadableLoggingProvider reports whether console-oriented command messages are enabled.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the Cobra command for the vendoring pipeline.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Executor                     GoToolExecutor
}

// Build constructs the vendoring command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagArchiveNameConstant, "", flagArchiveDescriptionConstant)
	command.Flags().String(flagOutputDirectoryNameConstant, "", flagOutputDirectoryDescription)
	command.Flags().String(flagStrategyNameConstant, StrategyVendor, flagStrategyDescriptionConstant)
	command.Flags().Bool(flagReportNameConstant, false, flagReportDescriptionConstant)

	if markError := command.MarkFlagRequired(flagArchiveNameConstant); markError != nil {
		return nil, markError
	}
	if markError := command.MarkFlagRequired(flagOutputDirectoryNameConstant); markError != nil {
		return nil, markError
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options := builder.parseOptions(command)

	logger := builder.resolveLogger()

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, configurationFileAvailable := contextAccessor.ConfigurationFilePath(command.Context()); configurationFileAvailable && len(configurationFilePath) > 0 {
		logger.Info(configurationFileAppliedMessageConstant, zap.String(logFieldConfigurationFileConstant, configurationFilePath))
	}
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(logger, executor)
	if serviceError != nil {
		return serviceError
	}

	runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) RunOptions {
	configuration := builder.resolveConfiguration()

	archivePathValue, _ := command.Flags().GetString(flagArchiveNameConstant)
	outputDirectoryValue, _ := command.Flags().GetString(flagOutputDirectoryNameConstant)

	strategyValue := configuration.Strategy
	if command.Flags().Changed(flagStrategyNameConstant) {
		strategyValue, _ = command.Flags().GetString(flagStrategyNameConstant)
	}

	reportValue := configuration.Report
	if command.Flags().Changed(flagReportNameConstant) {
		reportValue, _ = command.Flags().GetBool(flagReportNameConstant)
	}

	return RunOptions{
		ArchivePath:     archivePathValue,
		OutputDirectory: outputDirectoryValue,
		Strategy:        strategyValue,
		WriteReport:     reportValue,
	}
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{}.sanitize()
	}

	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (GoToolExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}

	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor.RegisterCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}

	return shellExecutor, nil
}
