// Package clipboard provides platform-specific clipboard operations.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CopyText attempts to copy plain text to the system clipboard.
func CopyText(content string) error {
	switch runtime.GOOS {
	case "linux":
		return copyTextLinux(content)
	case "darwin":
		return copyTextMacOS(content)
	case "windows":
		return copyTextWindows(content)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func copyTextLinux(content string) error {
	// Try different clipboard tools in order of preference
	tools := [][]string{
		{"wl-copy"},                          // Wayland
		{"xclip", "-selection", "clipboard"}, // X11
		{"xsel", "--clipboard", "--input"},   // X11 alternative
	}

	for _, tool := range tools {
		if isCommandAvailable(tool[0]) {
			cmd := exec.Command(tool[0], tool[1:]...)
			cmd.Stdin = strings.NewReader(content)
			if err := cmd.Run(); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("no suitable clipboard tool found (tried: wl-copy, xclip, xsel)")
}

func copyTextMacOS(content string) error {
	cmd := exec.Command("pbcopy")
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}

func copyTextWindows(content string) error {
	cmd := exec.Command("clip")
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
