// Package cli constructs the obs-service-go-modules command-line interface,
// wiring the Cobra command, configuration loader, and structured logging
// primitives. It exposes helpers to build reusable application instances and
// to execute the vendoring pipeline as a reusable library.
package cli
