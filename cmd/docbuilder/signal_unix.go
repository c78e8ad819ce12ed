//go:build !windows

package main

import (
	"os"
	"syscall"
)

// Container runtimes stop the serve process with SIGTERM.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
