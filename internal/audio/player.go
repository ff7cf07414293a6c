package audio

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Player plays one clip, blocking until it finishes.
// The device is exclusive: callers must not overlap plays.
type Player interface {
	Play(clipPath string, volume float64) error
}

// ExecPlayer shells out to a command-line audio player.
type ExecPlayer struct {
	command string
}

func NewExecPlayer(command string) *ExecPlayer {
	return &ExecPlayer{command: command}
}

// Play runs the player synchronously. The process is never killed
// mid-clip; a shutdown waits for the clip to finish.
func (p *ExecPlayer) Play(clipPath string, volume float64) error {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	cmd := exec.Command(p.command, playerArgs(p.command, clipPath, volume)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := bytes.TrimSpace(stderr.Bytes())
		if len(detail) > 0 {
			return fmt.Errorf("%s: %w: %s", p.command, err, detail)
		}
		return fmt.Errorf("%s: %w", p.command, err)
	}
	return nil
}

// playerArgs maps the 0.0–1.0 volume onto the flags of the players we
// know about; anything else just gets the file path.
func playerArgs(command, clipPath string, volume float64) []string {
	switch filepath.Base(command) {
	case "mpg123":
		return []string{"-q", "-f", strconv.Itoa(int(volume * 32768)), clipPath}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "error",
			"-volume", strconv.Itoa(int(volume * 100)), clipPath}
	default:
		return []string{clipPath}
	}
}
