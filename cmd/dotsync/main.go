package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes, distinguished so callers can decide whether to alert:
// 0 clean success, 1 configuration or fatal error, 2 partial success
// with per-file failures or conflicts.
func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errPartial) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
