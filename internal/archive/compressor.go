package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	missingVendorDirectoryMessageConstant    = "vendor directory is missing or empty"
	vendorDirectoryReadErrorTemplateConstant = "unable to read vendor directory %s: %w"
	archiveRemovalErrorTemplateConstant      = "unable to remove previous archive %s: %w"
	archiveCreationErrorTemplateConstant     = "unable to create archive %s: %w"
	archiveWalkErrorTemplateConstant         = "unable to walk vendor directory %s: %w"
	entryHeaderErrorTemplateConstant         = "unable to build archive header for %s: %w"
	entryWriteErrorTemplateConstant          = "unable to write archive entry for %s: %w"
	archiveFinalizeErrorTemplateConstant     = "unable to finalize archive %s: %w"
	missingVendorErrorTemplateConstant       = "%w: %s"
	symlinkReadErrorTemplateConstant         = "unable to read symlink %s: %w"
)

// ErrMissingVendorDirectory reports packaging attempts against an absent or empty vendor directory.
var ErrMissingVendorDirectory = errors.New(missingVendorDirectoryMessageConstant)

// Compressor packages a directory into a compressed tar archive under a fixed top-level name.
type Compressor struct{}

// NewCompressor constructs a Compressor instance.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress writes a tar.gz archive of sourceDirectory to archivePath with every
// entry placed under topLevelName, starting with the topLevelName directory
// entry itself. The walk order is lexicographic, so archive contents are
// deterministic across runs. A pre-existing archive at archivePath is replaced;
// an absent or empty source directory fails with ErrMissingVendorDirectory.
func (compressor *Compressor) Compress(sourceDirectory string, archivePath string, topLevelName string) error {
	directoryInfo, statError := os.Stat(sourceDirectory)
	if statError != nil || !directoryInfo.IsDir() {
		return fmt.Errorf(missingVendorErrorTemplateConstant, ErrMissingVendorDirectory, sourceDirectory)
	}

	directoryEntries, readError := os.ReadDir(sourceDirectory)
	if readError != nil {
		return fmt.Errorf(vendorDirectoryReadErrorTemplateConstant, sourceDirectory, readError)
	}
	if len(directoryEntries) == 0 {
		return fmt.Errorf(missingVendorErrorTemplateConstant, ErrMissingVendorDirectory, sourceDirectory)
	}

	if removalError := os.Remove(archivePath); removalError != nil && !os.IsNotExist(removalError) {
		return fmt.Errorf(archiveRemovalErrorTemplateConstant, archivePath, removalError)
	}

	archiveFile, creationError := os.Create(archivePath)
	if creationError != nil {
		return fmt.Errorf(archiveCreationErrorTemplateConstant, archivePath, creationError)
	}
	defer archiveFile.Close()

	compressedWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(compressedWriter)

	walkError := filepath.WalkDir(sourceDirectory, func(visitedPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return visitError
		}
		return compressor.addEntry(tarWriter, sourceDirectory, visitedPath, topLevelName)
	})
	if walkError != nil {
		return fmt.Errorf(archiveWalkErrorTemplateConstant, sourceDirectory, walkError)
	}

	if closeError := tarWriter.Close(); closeError != nil {
		return fmt.Errorf(archiveFinalizeErrorTemplateConstant, archivePath, closeError)
	}
	if closeError := compressedWriter.Close(); closeError != nil {
		return fmt.Errorf(archiveFinalizeErrorTemplateConstant, archivePath, closeError)
	}

	return nil
}

func (compressor *Compressor) addEntry(tarWriter *tar.Writer, sourceDirectory string, visitedPath string, topLevelName string) error {
	entryInfo, statError := os.Lstat(visitedPath)
	if statError != nil {
		return statError
	}

	symlinkTarget := ""
	if entryInfo.Mode()&os.ModeSymlink != 0 {
		resolvedTarget, readlinkError := os.Readlink(visitedPath)
		if readlinkError != nil {
			return fmt.Errorf(symlinkReadErrorTemplateConstant, visitedPath, readlinkError)
		}
		if filepath.IsAbs(resolvedTarget) {
			// Only relative symlink targets are archived.
			return nil
		}
		symlinkTarget = resolvedTarget
	}

	entryHeader, headerError := tar.FileInfoHeader(entryInfo, symlinkTarget)
	if headerError != nil {
		return fmt.Errorf(entryHeaderErrorTemplateConstant, visitedPath, headerError)
	}

	relativePath, relativeError := filepath.Rel(sourceDirectory, visitedPath)
	if relativeError != nil {
		return relativeError
	}
	entryHeader.Name = filepath.ToSlash(filepath.Join(topLevelName, relativePath))
	if entryInfo.IsDir() {
		entryHeader.Name += archiveEntryPathSeparatorConstant
	}

	if writeError := tarWriter.WriteHeader(entryHeader); writeError != nil {
		return fmt.Errorf(entryWriteErrorTemplateConstant, visitedPath, writeError)
	}

	if !entryInfo.Mode().IsRegular() {
		return nil
	}

	sourceFile, openError := os.Open(visitedPath)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	if _, copyError := io.Copy(tarWriter, sourceFile); copyError != nil {
		return fmt.Errorf(entryWriteErrorTemplateConstant, visitedPath, copyError)
	}

	return nil
}
