// Package vendoring implements the dependency vendoring pipeline: extracting
// a source archive, locating its module manifest, driving the Go toolchain's
// download, verify, and vendor subcommands, and packaging the populated
// vendor directory into the vendor.tar.gz artifact.
package vendoring
