// ABOUTME: Entry point for the secuone admin console CLI
// ABOUTME: Terminal tool for managing SecuOne customers, notices, ads and push

package main

import (
	"fmt"
	"os"

	"github.com/polarisoffice/secuone-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
