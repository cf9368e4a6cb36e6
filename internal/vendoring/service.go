package vendoring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ronan22/obs-service-go-modules/internal/archive"
	"github.com/ronan22/obs-service-go-modules/internal/manifest"
)

const (
	// VendorArchiveFileName is the fixed name of the produced vendor archive.
	VendorArchiveFileName = "vendor.tar.gz"
	// VendorReportFileName is the fixed name of the optional YAML vendor report.
	VendorReportFileName = "go-modules-report.yaml"

	vendorDirectoryNameConstant              = "vendor"
	serviceLoggerMissingMessageConstant      = "vendoring service requires a logger"
	serviceExecutorMissingMessageConstant    = "vendoring service requires a command executor"
	archivePathMissingMessageConstant        = "archive path is required"
	outputDirectoryMissingMessageConstant    = "output directory is required"
	outputDirectoryErrorTemplateConstant     = "unable to prepare output directory %s: %w"
	extractionFailedErrorTemplateConstant    = "source archive extraction failed: %w"
	packagingFailedErrorTemplateConstant     = "vendor archive packaging failed: %w"
	cleanupFailedErrorTemplateConstant       = "extracted source tree cleanup failed: %w"
	moduleListErrorTemplateConstant          = "vendored module summary failed: %w"
	reportWriteFailedErrorTemplateConstant   = "vendor report creation failed: %w"
	extractionStartedMessageConstant         = "extracting source archive"
	manifestLocatedMessageConstant           = "module manifest located"
	manifestNotFoundMessageConstant          = "no module manifest found, nothing to vendor"
	modulePathResolvedMessageConstant        = "module path resolved"
	modulePathUnknownMessageConstant         = "module manifest declares no module path"
	strategySkippedMessageConstant           = "strategy performs no dependency handling, stopping after manifest location"
	vendorModulesSummaryMessageConstant      = "vendor directory populated"
	vendorReportWrittenMessageConstant       = "vendor report written"
	vendorArchiveCreatedMessageConstant      = "vendor archive created"
	sourceTreeRemovedMessageConstant         = "extracted source tree removed"
	logFieldArchivePathConstant              = "archive_path"
	logFieldOutputDirectoryConstant          = "output_directory"
	logFieldManifestPathConstant             = "manifest_path"
	logFieldModulePathConstant               = "module_path"
	logFieldStrategyConstant                 = "strategy"
	logFieldVendoredModuleCountConstant      = "vendored_module_count"
	logFieldVendorArchivePathConstant        = "vendor_archive_path"
	logFieldReportPathConstant               = "report_path"
	logFieldSourceTreePathConstant           = "source_tree_path"
	outputDirectoryDefaultPermissionsValue   = 0o755
)

// Validation errors raised while preparing a pipeline run.
var (
	ErrServiceLoggerMissing    = errors.New(serviceLoggerMissingMessageConstant)
	ErrServiceExecutorMissing  = errors.New(serviceExecutorMissingMessageConstant)
	ErrArchivePathMissing      = errors.New(archivePathMissingMessageConstant)
	ErrOutputDirectoryMissing  = errors.New(outputDirectoryMissingMessageConstant)
)

// RunOptions carries the explicit configuration for a single pipeline run.
type RunOptions struct {
	ArchivePath     string
	OutputDirectory string
	Strategy        string
	WriteReport     bool
}

// Service sequences the vendoring pipeline: extract, locate, orchestrate, package, clean up.
type Service struct {
	logger       *zap.Logger
	extractor    *archive.Extractor
	locator      *manifest.Locator
	orchestrator *Orchestrator
	compressor   *archive.Compressor
}

// NewService validates collaborators and assembles the pipeline service.
func NewService(logger *zap.Logger, executor GoToolExecutor) (*Service, error) {
	if logger == nil {
		return nil, ErrServiceLoggerMissing
	}

	if executor == nil {
		return nil, ErrServiceExecutorMissing
	}

	orchestrator, orchestratorError := NewOrchestrator(logger, executor)
	if orchestratorError != nil {
		return nil, orchestratorError
	}

	return &Service{
		logger:       logger,
		extractor:    archive.NewExtractor(),
		locator:      manifest.NewLocator(),
		orchestrator: orchestrator,
		compressor:   archive.NewCompressor(),
	}, nil
}

// Run executes the pipeline for the provided options.
//
// A tree without a module manifest is treated as a benign no-op: the run logs
// the condition and returns nil without producing an artifact. Every other
// failure aborts the remaining steps and propagates to the caller.
func (service *Service) Run(executionContext context.Context, options RunOptions) error {
	validatedOptions, validationError := service.validateOptions(options)
	if validationError != nil {
		return validationError
	}

	if preparationError := os.MkdirAll(validatedOptions.OutputDirectory, outputDirectoryDefaultPermissionsValue); preparationError != nil {
		return fmt.Errorf(outputDirectoryErrorTemplateConstant, validatedOptions.OutputDirectory, preparationError)
	}

	service.logger.Info(
		extractionStartedMessageConstant,
		zap.String(logFieldArchivePathConstant, validatedOptions.ArchivePath),
		zap.String(logFieldOutputDirectoryConstant, validatedOptions.OutputDirectory),
	)

	if extractionError := service.extractor.Extract(validatedOptions.ArchivePath, validatedOptions.OutputDirectory); extractionError != nil {
		return fmt.Errorf(extractionFailedErrorTemplateConstant, extractionError)
	}

	manifestPath, locateError := service.locator.Locate(validatedOptions.OutputDirectory)
	if locateError != nil {
		if errors.Is(locateError, manifest.ErrManifestNotFound) {
			service.logger.Info(
				manifestNotFoundMessageConstant,
				zap.String(logFieldOutputDirectoryConstant, validatedOptions.OutputDirectory),
			)
			return nil
		}
		return locateError
	}

	service.logger.Info(
		manifestLocatedMessageConstant,
		zap.String(logFieldManifestPathConstant, manifestPath),
	)

	service.logModulePath(manifestPath)

	if validatedOptions.Strategy != StrategyVendor {
		service.logger.Info(
			strategySkippedMessageConstant,
			zap.String(logFieldStrategyConstant, validatedOptions.Strategy),
		)
		return nil
	}

	moduleRoot := manifest.ModuleRoot(manifestPath)

	if downloadError := service.orchestrator.DownloadDependencies(executionContext, moduleRoot); downloadError != nil {
		return downloadError
	}

	if verifyError := service.orchestrator.VerifyDependencies(executionContext, moduleRoot); verifyError != nil {
		return verifyError
	}

	if populateError := service.orchestrator.PopulateVendorDirectory(executionContext, moduleRoot); populateError != nil {
		return populateError
	}

	vendorDirectory := filepath.Join(moduleRoot, vendorDirectoryNameConstant)

	if summaryError := service.summarizeVendorDirectory(vendorDirectory, validatedOptions); summaryError != nil {
		return summaryError
	}

	vendorArchivePath := filepath.Join(validatedOptions.OutputDirectory, VendorArchiveFileName)
	if packagingError := service.compressor.Compress(vendorDirectory, vendorArchivePath, vendorDirectoryNameConstant); packagingError != nil {
		return fmt.Errorf(packagingFailedErrorTemplateConstant, packagingError)
	}

	service.logger.Info(
		vendorArchiveCreatedMessageConstant,
		zap.String(logFieldVendorArchivePathConstant, vendorArchivePath),
	)

	return service.removeExtractedSourceTree(validatedOptions)
}

func (service *Service) validateOptions(options RunOptions) (RunOptions, error) {
	validatedOptions := options
	validatedOptions.ArchivePath = strings.TrimSpace(options.ArchivePath)
	validatedOptions.OutputDirectory = strings.TrimSpace(options.OutputDirectory)
	validatedOptions.Strategy = strings.TrimSpace(options.Strategy)

	if len(validatedOptions.ArchivePath) == 0 {
		return RunOptions{}, ErrArchivePathMissing
	}

	if len(validatedOptions.OutputDirectory) == 0 {
		return RunOptions{}, ErrOutputDirectoryMissing
	}

	if len(validatedOptions.Strategy) == 0 {
		validatedOptions.Strategy = StrategyVendor
	}

	return validatedOptions, nil
}

func (service *Service) logModulePath(manifestPath string) {
	resolvedModulePath, parseError := manifest.ModulePath(manifestPath)
	if parseError != nil || len(resolvedModulePath) == 0 {
		service.logger.Warn(
			modulePathUnknownMessageConstant,
			zap.String(logFieldManifestPathConstant, manifestPath),
			zap.Error(parseError),
		)
		return
	}

	service.logger.Info(
		modulePathResolvedMessageConstant,
		zap.String(logFieldModulePathConstant, resolvedModulePath),
	)
}

func (service *Service) summarizeVendorDirectory(vendorDirectory string, options RunOptions) error {
	vendoredModules, parseError := ParseVendorModules(vendorDirectory)
	if parseError != nil {
		return fmt.Errorf(moduleListErrorTemplateConstant, parseError)
	}

	service.logger.Info(
		vendorModulesSummaryMessageConstant,
		zap.Int(logFieldVendoredModuleCountConstant, len(vendoredModules)),
	)

	if !options.WriteReport {
		return nil
	}

	reportPath := filepath.Join(options.OutputDirectory, VendorReportFileName)
	if reportError := WriteVendorReport(vendoredModules, reportPath); reportError != nil {
		return fmt.Errorf(reportWriteFailedErrorTemplateConstant, reportError)
	}

	service.logger.Info(
		vendorReportWrittenMessageConstant,
		zap.String(logFieldReportPathConstant, reportPath),
	)

	return nil
}

func (service *Service) removeExtractedSourceTree(options RunOptions) error {
	sourceTreePath := filepath.Join(options.OutputDirectory, archive.SourceTreeName(options.ArchivePath))
	if removalError := os.RemoveAll(sourceTreePath); removalError != nil {
		return fmt.Errorf(cleanupFailedErrorTemplateConstant, removalError)
	}

	service.logger.Info(
		sourceTreeRemovedMessageConstant,
		zap.String(logFieldSourceTreePathConstant, sourceTreePath),
	)

	return nil
}
