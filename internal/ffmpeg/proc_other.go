//go:build !windows

package ffmpeg

import (
	"os"
	"os/exec"
)

func configureProcess(cmd *exec.Cmd) {}

// interrupt asks ffmpeg to stop; it finalizes the container before exiting
func interrupt(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
