// ABOUTME: File-backed debug logging, gated behind debugf until SetupDebugLog runs
// ABOUTME: Operational messages use the standard logger; this channel is opt-in only

package cliapp

import (
	"fmt"
	"log"
	"os"
)

var debugLog *log.Logger

// SetupDebugLog initializes debug logging to filename and announces it on
// stdout when attached to a terminal.
func SetupDebugLog(filename string) error {
	if err := initDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	fileInfo, _ := os.Stdout.Stat()
	if (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}
	return nil
}

func initDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}
	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)
	return nil
}

// debugf is a no-op until SetupDebugLog has been called.
func debugf(format string, args ...any) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}
