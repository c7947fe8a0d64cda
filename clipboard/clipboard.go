// Package clipboard provides clipboard operations via platform-specific commands.
package clipboard

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/fwojciec/skillreview"
)

// Ensure System implements the Clipboard interface.
var _ skillreview.Clipboard = (*System)(nil)

// commands are tried in order; the first one present on PATH wins. Covers
// macOS (pbcopy), Wayland (wl-copy), and X11 (xclip).
var commands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
}

// System implements Clipboard by piping content to the platform's
// clipboard command.
type System struct{}

// NewSystem returns a new System clipboard.
func NewSystem() *System {
	return &System{}
}

// Copy writes content to the system clipboard.
func (s *System) Copy(content string) error {
	for _, argv := range commands {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(content)
		return cmd.Run()
	}
	return errors.New("no clipboard command available")
}
