package vendoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ronan22/obs-service-go-modules/internal/execshell"
)

const (
	orchestratorLoggerMissingMessageConstant   = "orchestrator requires a logger"
	orchestratorExecutorMissingMessageConstant = "orchestrator requires a command executor"
	goModSubcommandNameConstant                = "mod"
	goModDownloadArgumentConstant              = "download"
	goModVerifyArgumentConstant                = "verify"
	goModVendorArgumentConstant                = "vendor"
	downloadFailedErrorTemplateConstant        = "dependency download failed: %w"
	verifyFailedErrorTemplateConstant          = "dependency verification failed: %w"
	populateFailedErrorTemplateConstant        = "vendor directory population failed: %w"
	subcommandOutputMessageConstant            = "go subcommand produced output"
	logFieldSubcommandConstant                 = "subcommand"
	logFieldModuleRootConstant                 = "module_root"
	logFieldStandardOutputConstant             = "standard_output"
)

// Validation errors raised during orchestrator construction.
var (
	ErrOrchestratorLoggerMissing   = errors.New(orchestratorLoggerMissingMessageConstant)
	ErrOrchestratorExecutorMissing = errors.New(orchestratorExecutorMissingMessageConstant)
)

// GoToolExecutor represents the ability to run the Go toolchain.
type GoToolExecutor interface {
	ExecuteGo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Orchestrator drives the Go toolchain's module subcommands against a module root.
type Orchestrator struct {
	logger   *zap.Logger
	executor GoToolExecutor
}

// NewOrchestrator validates collaborators and assembles an Orchestrator.
func NewOrchestrator(logger *zap.Logger, executor GoToolExecutor) (*Orchestrator, error) {
	if logger == nil {
		return nil, ErrOrchestratorLoggerMissing
	}

	if executor == nil {
		return nil, ErrOrchestratorExecutorMissing
	}

	return &Orchestrator{logger: logger, executor: executor}, nil
}

// DownloadDependencies fetches the module's dependencies into the local cache.
func (orchestrator *Orchestrator) DownloadDependencies(executionContext context.Context, moduleRoot string) error {
	runError := orchestrator.runModuleSubcommand(executionContext, moduleRoot, goModDownloadArgumentConstant)
	if runError != nil {
		return fmt.Errorf(downloadFailedErrorTemplateConstant, runError)
	}
	return nil
}

// VerifyDependencies checks the downloaded dependencies against their recorded checksums.
func (orchestrator *Orchestrator) VerifyDependencies(executionContext context.Context, moduleRoot string) error {
	runError := orchestrator.runModuleSubcommand(executionContext, moduleRoot, goModVerifyArgumentConstant)
	if runError != nil {
		return fmt.Errorf(verifyFailedErrorTemplateConstant, runError)
	}
	return nil
}

// PopulateVendorDirectory materializes the module's dependency sources under the vendor directory.
func (orchestrator *Orchestrator) PopulateVendorDirectory(executionContext context.Context, moduleRoot string) error {
	runError := orchestrator.runModuleSubcommand(executionContext, moduleRoot, goModVendorArgumentConstant)
	if runError != nil {
		return fmt.Errorf(populateFailedErrorTemplateConstant, runError)
	}
	return nil
}

func (orchestrator *Orchestrator) runModuleSubcommand(executionContext context.Context, moduleRoot string, subcommandName string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{goModSubcommandNameConstant, subcommandName},
		WorkingDirectory: moduleRoot,
	}

	executionResult, executionError := orchestrator.executor.ExecuteGo(executionContext, commandDetails)
	if executionError != nil {
		return executionError
	}

	trimmedStandardOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedStandardOutput) > 0 {
		orchestrator.logger.Info(
			subcommandOutputMessageConstant,
			zap.String(logFieldSubcommandConstant, subcommandName),
			zap.String(logFieldModuleRootConstant, moduleRoot),
			zap.String(logFieldStandardOutputConstant, trimmedStandardOutput),
		)
	}

	return nil
}
