//go:build windows

package runner

import "os/exec"

// setProcessGroup is a no-op here; the default cancel kills the direct
// child and WaitDelay unblocks the pipes.
func setProcessGroup(*exec.Cmd) {}
