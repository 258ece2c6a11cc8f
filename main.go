// =============================================================================
// EDI Order Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the ediconv CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   ediconv convert  - Convert an order file to another format
//   ediconv list     - List the orders in a file
//   ediconv version  - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Codecs, selection, validation and the conversion driver
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/Disha-1203/EDI-parser/cmd"
)

func main() {
	cmd.Execute()
}
