package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	supportedArchiveSuffixConstant            = ".tar.gz"
	unsupportedArchiveFormatMessageConstant   = "unsupported archive format"
	insecureArchivePathMessageConstant        = "archive entry escapes the output directory"
	archiveOpenErrorTemplateConstant          = "unable to open archive %s: %w"
	gzipReaderErrorTemplateConstant           = "unable to read compressed stream of %s: %w"
	tarEntryReadErrorTemplateConstant         = "unable to read archive entry from %s: %w"
	directoryCreationErrorTemplateConstant    = "unable to create directory %s: %w"
	fileCreationErrorTemplateConstant         = "unable to create file %s: %w"
	fileContentCopyErrorTemplateConstant      = "unable to write file %s: %w"
	symlinkCreationErrorTemplateConstant      = "unable to create symlink %s: %w"
	hardLinkCreationErrorTemplateConstant     = "unable to create hard link %s: %w"
	unsupportedFormatErrorTemplateConstant    = "%w: %s"
	insecureEntryErrorTemplateConstant        = "%w: %s"
	extractedDirectoryDefaultPermissionsValue = 0o755
	archiveEntryPathSeparatorConstant         = "/"
	parentDirectoryTraversalSegmentConstant   = ".."
)

// Sentinel errors surfaced by archive operations.
var (
	ErrUnsupportedArchiveFormat = errors.New(unsupportedArchiveFormatMessageConstant)
	ErrInsecureArchivePath      = errors.New(insecureArchivePathMessageConstant)
)

// Extractor unpacks compressed tar archives into an output directory.
type Extractor struct{}

// NewExtractor constructs an Extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// SupportedArchive reports whether the archive path carries the supported compressed-tar suffix.
func SupportedArchive(archivePath string) bool {
	return strings.HasSuffix(filepath.Base(archivePath), supportedArchiveSuffixConstant)
}

// SourceTreeName derives the extracted tree's directory name from the archive base name by stripping the compressed-tar suffix.
func SourceTreeName(archivePath string) string {
	return strings.TrimSuffix(filepath.Base(archivePath), supportedArchiveSuffixConstant)
}

// Extract unpacks every entry of the archive into the output directory, preserving internal paths.
//
// Archives whose names do not end in the supported compressed-tar suffix are
// rejected with ErrUnsupportedArchiveFormat. Entries that would escape the
// output directory are rejected with ErrInsecureArchivePath.
func (extractor *Extractor) Extract(archivePath string, outputDirectory string) error {
	if !SupportedArchive(archivePath) {
		return fmt.Errorf(unsupportedFormatErrorTemplateConstant, ErrUnsupportedArchiveFormat, archivePath)
	}

	archiveFile, openError := os.Open(archivePath)
	if openError != nil {
		return fmt.Errorf(archiveOpenErrorTemplateConstant, archivePath, openError)
	}
	defer archiveFile.Close()

	compressedReader, gzipError := gzip.NewReader(archiveFile)
	if gzipError != nil {
		return fmt.Errorf(gzipReaderErrorTemplateConstant, archivePath, gzipError)
	}
	defer compressedReader.Close()

	tarReader := tar.NewReader(compressedReader)
	for {
		entryHeader, entryError := tarReader.Next()
		if errors.Is(entryError, io.EOF) {
			return nil
		}
		if entryError != nil {
			return fmt.Errorf(tarEntryReadErrorTemplateConstant, archivePath, entryError)
		}

		extractionError := extractor.extractEntry(tarReader, entryHeader, outputDirectory)
		if extractionError != nil {
			return extractionError
		}
	}
}

func (extractor *Extractor) extractEntry(tarReader *tar.Reader, entryHeader *tar.Header, outputDirectory string) error {
	entryPath, entryPathError := secureEntryPath(outputDirectory, entryHeader.Name)
	if entryPathError != nil {
		return entryPathError
	}

	switch entryHeader.Typeflag {
	case tar.TypeDir:
		creationError := os.MkdirAll(entryPath, os.FileMode(entryHeader.Mode))
		if creationError != nil {
			return fmt.Errorf(directoryCreationErrorTemplateConstant, entryPath, creationError)
		}
		return nil
	case tar.TypeSymlink:
		if filepath.IsAbs(entryHeader.Linkname) {
			// Only relative symlink targets are recreated.
			return nil
		}
		if parentError := ensureParentDirectory(entryPath); parentError != nil {
			return parentError
		}
		if removalError := os.Remove(entryPath); removalError != nil && !os.IsNotExist(removalError) {
			return fmt.Errorf(symlinkCreationErrorTemplateConstant, entryPath, removalError)
		}
		symlinkError := os.Symlink(entryHeader.Linkname, entryPath)
		if symlinkError != nil {
			return fmt.Errorf(symlinkCreationErrorTemplateConstant, entryPath, symlinkError)
		}
		return nil
	case tar.TypeLink:
		linkTargetPath, linkTargetError := secureEntryPath(outputDirectory, entryHeader.Linkname)
		if linkTargetError != nil {
			return linkTargetError
		}
		if parentError := ensureParentDirectory(entryPath); parentError != nil {
			return parentError
		}
		if removalError := os.Remove(entryPath); removalError != nil && !os.IsNotExist(removalError) {
			return fmt.Errorf(hardLinkCreationErrorTemplateConstant, entryPath, removalError)
		}
		linkError := os.Link(linkTargetPath, entryPath)
		if linkError != nil {
			return fmt.Errorf(hardLinkCreationErrorTemplateConstant, entryPath, linkError)
		}
		return nil
	case tar.TypeReg:
		if parentError := ensureParentDirectory(entryPath); parentError != nil {
			return parentError
		}
		destinationFile, creationError := os.OpenFile(entryPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(entryHeader.Mode))
		if creationError != nil {
			return fmt.Errorf(fileCreationErrorTemplateConstant, entryPath, creationError)
		}
		_, copyError := io.Copy(destinationFile, tarReader)
		closeError := destinationFile.Close()
		if copyError != nil {
			return fmt.Errorf(fileContentCopyErrorTemplateConstant, entryPath, copyError)
		}
		if closeError != nil {
			return fmt.Errorf(fileContentCopyErrorTemplateConstant, entryPath, closeError)
		}
		return nil
	default:
		return nil
	}
}

func secureEntryPath(outputDirectory string, entryName string) (string, error) {
	cleanedEntryName := filepath.Clean(filepath.FromSlash(entryName))
	if filepath.IsAbs(cleanedEntryName) || startsWithParentTraversal(cleanedEntryName) {
		return "", fmt.Errorf(insecureEntryErrorTemplateConstant, ErrInsecureArchivePath, entryName)
	}
	return filepath.Join(outputDirectory, cleanedEntryName), nil
}

func startsWithParentTraversal(entryPath string) bool {
	pathSegments := strings.Split(filepath.ToSlash(entryPath), archiveEntryPathSeparatorConstant)
	return len(pathSegments) > 0 && pathSegments[0] == parentDirectoryTraversalSegmentConstant
}

func ensureParentDirectory(entryPath string) error {
	parentDirectory := filepath.Dir(entryPath)
	creationError := os.MkdirAll(parentDirectory, extractedDirectoryDefaultPermissionsValue)
	if creationError != nil {
		return fmt.Errorf(directoryCreationErrorTemplateConstant, parentDirectory, creationError)
	}
	return nil
}
