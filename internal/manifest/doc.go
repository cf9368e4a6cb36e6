// Package manifest locates the Go module manifest inside an extracted source
// tree and reads the module path it declares.
package manifest
