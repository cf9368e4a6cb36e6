// Package archive implements the compressed-tar operations of the vendoring
// pipeline: extracting source archives into a working directory and packaging
// a populated vendor directory into the vendor.tar.gz artifact.
package archive
