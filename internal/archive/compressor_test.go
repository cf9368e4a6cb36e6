package archive_test

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ronan22/obs-service-go-modules/internal/archive"
)

const (
	testVendorDirectoryNameConstant    = "vendor"
	testVendorArchiveNameConstant      = "vendor.tar.gz"
	testVendorTopLevelNameConstant     = "vendor"
	testVendoredModuleFilePathConstant = "example.com/dep/dep.go"
	testVendoredModuleContentConstant  = "package dep\n"
	testVendorModulesFileNameConstant  = "modules.txt"
	testVendorModulesContentConstant   = "# example.com/dep v1.2.3\n"
	testEmptyVendorCaseNameConstant    = "empty_vendor_directory"
	testMissingVendorCaseNameConstant  = "missing_vendor_directory"
)

func writeVendorFixture(testInstance *testing.T, vendorDirectory string) {
	testInstance.Helper()

	vendoredFilePath := filepath.Join(vendorDirectory, filepath.FromSlash(testVendoredModuleFilePathConstant))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(vendoredFilePath), testDirectoryPermissionsValue))
	require.NoError(testInstance, os.WriteFile(vendoredFilePath, []byte(testVendoredModuleContentConstant), testRegularFilePermissionsValue))

	modulesFilePath := filepath.Join(vendorDirectory, testVendorModulesFileNameConstant)
	require.NoError(testInstance, os.WriteFile(modulesFilePath, []byte(testVendorModulesContentConstant), testRegularFilePermissionsValue))
}

func readArchiveEntryNames(testInstance *testing.T, archivePath string) []string {
	testInstance.Helper()

	archiveFile, openError := os.Open(archivePath)
	require.NoError(testInstance, openError)
	defer func() { require.NoError(testInstance, archiveFile.Close()) }()

	compressedReader, gzipError := gzip.NewReader(archiveFile)
	require.NoError(testInstance, gzipError)

	var entryNames []string
	tarReader := tar.NewReader(compressedReader)
	for {
		entryHeader, entryError := tarReader.Next()
		if entryError == io.EOF {
			break
		}
		require.NoError(testInstance, entryError)
		entryNames = append(entryNames, entryHeader.Name)
	}

	sort.Strings(entryNames)
	return entryNames
}

func TestCompressorPackagesVendorDirectoryUnderTopLevelName(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	vendorDirectory := filepath.Join(temporaryDirectory, testVendorDirectoryNameConstant)
	writeVendorFixture(testInstance, vendorDirectory)

	archivePath := filepath.Join(temporaryDirectory, testVendorArchiveNameConstant)
	compressor := archive.NewCompressor()
	compressionError := compressor.Compress(vendorDirectory, archivePath, testVendorTopLevelNameConstant)
	require.NoError(testInstance, compressionError)

	entryNames := readArchiveEntryNames(testInstance, archivePath)
	require.Contains(testInstance, entryNames, testVendorTopLevelNameConstant+"/")
	require.Contains(testInstance, entryNames, testVendorTopLevelNameConstant+"/"+testVendoredModuleFilePathConstant)
	require.Contains(testInstance, entryNames, testVendorTopLevelNameConstant+"/"+testVendorModulesFileNameConstant)
	for _, entryName := range entryNames {
		require.True(testInstance, len(entryName) > len(testVendorTopLevelNameConstant) && entryName[:len(testVendorTopLevelNameConstant)] == testVendorTopLevelNameConstant)
	}
}

func TestCompressorProducesDeterministicEntryListsAcrossRuns(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	vendorDirectory := filepath.Join(temporaryDirectory, testVendorDirectoryNameConstant)
	writeVendorFixture(testInstance, vendorDirectory)

	firstArchivePath := filepath.Join(temporaryDirectory, "first-"+testVendorArchiveNameConstant)
	secondArchivePath := filepath.Join(temporaryDirectory, "second-"+testVendorArchiveNameConstant)

	compressor := archive.NewCompressor()
	require.NoError(testInstance, compressor.Compress(vendorDirectory, firstArchivePath, testVendorTopLevelNameConstant))
	require.NoError(testInstance, compressor.Compress(vendorDirectory, secondArchivePath, testVendorTopLevelNameConstant))

	require.Equal(testInstance, readArchiveEntryNames(testInstance, firstArchivePath), readArchiveEntryNames(testInstance, secondArchivePath))
}

func TestCompressorReplacesPreexistingArchive(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	vendorDirectory := filepath.Join(temporaryDirectory, testVendorDirectoryNameConstant)
	writeVendorFixture(testInstance, vendorDirectory)

	archivePath := filepath.Join(temporaryDirectory, testVendorArchiveNameConstant)
	require.NoError(testInstance, os.WriteFile(archivePath, []byte("stale"), testRegularFilePermissionsValue))

	compressor := archive.NewCompressor()
	require.NoError(testInstance, compressor.Compress(vendorDirectory, archivePath, testVendorTopLevelNameConstant))

	entryNames := readArchiveEntryNames(testInstance, archivePath)
	require.NotEmpty(testInstance, entryNames)
}

func TestCompressorRejectsMissingOrEmptyVendorDirectories(testInstance *testing.T) {
	testCases := []struct {
		name             string
		prepareDirectory func(testInstance *testing.T, vendorDirectory string)
	}{
		{
			name:             testMissingVendorCaseNameConstant,
			prepareDirectory: func(*testing.T, string) {},
		},
		{
			name: testEmptyVendorCaseNameConstant,
			prepareDirectory: func(testInstance *testing.T, vendorDirectory string) {
				require.NoError(testInstance, os.MkdirAll(vendorDirectory, testDirectoryPermissionsValue))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			vendorDirectory := filepath.Join(temporaryDirectory, testVendorDirectoryNameConstant)
			testCase.prepareDirectory(testInstance, vendorDirectory)

			compressor := archive.NewCompressor()
			compressionError := compressor.Compress(vendorDirectory, filepath.Join(temporaryDirectory, testVendorArchiveNameConstant), testVendorTopLevelNameConstant)
			require.Error(testInstance, compressionError)
			require.ErrorIs(testInstance, compressionError, archive.ErrMissingVendorDirectory)
		})
	}
}
