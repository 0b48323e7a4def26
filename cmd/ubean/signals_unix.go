//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

func notifyControl(ch chan<- os.Signal) {
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)
}

func isSuspend(sig os.Signal) bool { return sig == syscall.SIGUSR1 }
func isResume(sig os.Signal) bool  { return sig == syscall.SIGUSR2 }
