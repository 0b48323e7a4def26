//go:build windows

package main

import "os"

// Windows has no user signals; suspend and resume are unavailable.
func notifyControl(chan<- os.Signal) {}

func isSuspend(os.Signal) bool { return false }
func isResume(os.Signal) bool  { return false }
