//go:build windows

package ffmpeg

import (
	"os"
	"os/exec"
	"syscall"
)

const createNoWindow = 0x08000000

// configureProcess keeps ffmpeg from flashing a console window over the GUI
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
}

// Windows has no SIGINT for child processes
func interrupt(p *os.Process) error {
	return p.Kill()
}
