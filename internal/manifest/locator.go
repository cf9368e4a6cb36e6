package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const (
	manifestFileNameConstant             = "go.mod"
	manifestNotFoundMessageConstant      = "no module manifest found"
	manifestReadErrorTemplateConstant    = "unable to read manifest %s: %w"
	manifestParseErrorTemplateConstant   = "unable to parse manifest %s: %w"
	manifestWalkErrorTemplateConstant    = "unable to walk directory %s: %w"
)

// ErrManifestNotFound reports directory trees that contain no module manifest.
var ErrManifestNotFound = errors.New(manifestNotFoundMessageConstant)

// Locator searches directory trees for a module manifest.
type Locator struct{}

// NewLocator constructs a Locator backed by filepath.WalkDir.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate walks the provided root and returns the path of the first file named
// go.mod. The walk visits entries in lexicographic order, so the result is
// deterministic even when several manifests exist in the tree. Trees without a
// manifest yield ErrManifestNotFound.
func (locator *Locator) Locate(rootDirectory string) (string, error) {
	foundManifestPath := ""

	walkError := filepath.WalkDir(rootDirectory, func(visitedPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return nil
		}

		if directoryEntry.IsDir() || directoryEntry.Name() != manifestFileNameConstant {
			return nil
		}

		foundManifestPath = visitedPath
		return fs.SkipAll
	})
	if walkError != nil {
		return "", fmt.Errorf(manifestWalkErrorTemplateConstant, rootDirectory, walkError)
	}

	if len(foundManifestPath) == 0 {
		return "", ErrManifestNotFound
	}

	return foundManifestPath, nil
}

// ModuleRoot returns the directory containing the provided manifest path.
func ModuleRoot(manifestPath string) string {
	return filepath.Dir(manifestPath)
}

// ModulePath parses the manifest and returns the module path it declares, or
// an empty string when the manifest carries no module directive.
func ModulePath(manifestPath string) (string, error) {
	manifestContent, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return "", fmt.Errorf(manifestReadErrorTemplateConstant, manifestPath, readError)
	}

	parsedManifest, parseError := modfile.ParseLax(manifestPath, manifestContent, nil)
	if parseError != nil {
		return "", fmt.Errorf(manifestParseErrorTemplateConstant, manifestPath, parseError)
	}

	if parsedManifest.Module == nil {
		return "", nil
	}

	return parsedManifest.Module.Mod.Path, nil
}
