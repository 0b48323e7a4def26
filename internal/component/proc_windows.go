//go:build windows

package component

import "os/exec"

// Windows has no process groups here; cancellation kills the shell only and
// WaitDelay bounds the wait on its children.
func setProcessGroup(*exec.Cmd) {}
