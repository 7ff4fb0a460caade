//go:build windows

package process

import "os/exec"

func shellArgv(line string) (string, []string) {
	return "cmd", []string{"/C", line}
}

func configureProcess(cmd *exec.Cmd) {
	cmd.WaitDelay = waitDelay
}
