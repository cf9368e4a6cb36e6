package vendoring

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	vendorModulesFileNameConstant         = "modules.txt"
	moduleLinePrefixConstant              = "# "
	annotationLinePrefixConstant          = "##"
	modulesFileOpenErrorTemplateConstant  = "unable to read vendored module list %s: %w"
	modulesFileScanErrorTemplateConstant  = "unable to scan vendored module list %s: %w"
	reportMarshalErrorTemplateConstant    = "unable to encode vendor report: %w"
	reportWriteErrorTemplateConstant      = "unable to write vendor report %s: %w"
	reportFilePermissionsValue            = 0o644
)

// VendoredModule identifies a single module captured in the vendor directory.
type VendoredModule struct {
	Path    string `yaml:"path"`
	Version string `yaml:"version,omitempty"`
}

// VendorReport summarizes the vendor directory contents for downstream packaging systems.
type VendorReport struct {
	ModuleCount int              `yaml:"module_count"`
	Modules     []VendoredModule `yaml:"modules"`
}

// ParseVendorModules reads the module list the Go toolchain records in the
// vendor directory and returns one entry per vendored module.
func ParseVendorModules(vendorDirectory string) ([]VendoredModule, error) {
	modulesFilePath := filepath.Join(vendorDirectory, vendorModulesFileNameConstant)
	modulesFile, openError := os.Open(modulesFilePath)
	if openError != nil {
		return nil, fmt.Errorf(modulesFileOpenErrorTemplateConstant, modulesFilePath, openError)
	}
	defer modulesFile.Close()

	var vendoredModules []VendoredModule
	lineScanner := bufio.NewScanner(modulesFile)
	for lineScanner.Scan() {
		moduleLine := lineScanner.Text()
		if strings.HasPrefix(moduleLine, annotationLinePrefixConstant) || !strings.HasPrefix(moduleLine, moduleLinePrefixConstant) {
			continue
		}

		lineFields := strings.Fields(strings.TrimPrefix(moduleLine, moduleLinePrefixConstant))
		if len(lineFields) == 0 {
			continue
		}

		vendoredModule := VendoredModule{Path: lineFields[0]}
		if len(lineFields) > 1 {
			vendoredModule.Version = lineFields[1]
		}
		vendoredModules = append(vendoredModules, vendoredModule)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(modulesFileScanErrorTemplateConstant, modulesFilePath, scanError)
	}

	return vendoredModules, nil
}

// WriteVendorReport encodes the vendored module summary as YAML at reportPath.
func WriteVendorReport(vendoredModules []VendoredModule, reportPath string) error {
	vendorReport := VendorReport{
		ModuleCount: len(vendoredModules),
		Modules:     vendoredModules,
	}

	encodedReport, marshalError := yaml.Marshal(vendorReport)
	if marshalError != nil {
		return fmt.Errorf(reportMarshalErrorTemplateConstant, marshalError)
	}

	writeError := os.WriteFile(reportPath, encodedReport, reportFilePermissionsValue)
	if writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, writeError)
	}

	return nil
}
