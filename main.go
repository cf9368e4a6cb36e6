package main

import (
	"fmt"
	"os"

	"github.com/ronan22/obs-service-go-modules/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the obs-service-go-modules command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
