// Package cli provides shared formatting helpers for the evpngen CLI tools.
package cli

import (
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// NO_COLOR per no-color.org; fatih/color also disables itself on non-TTY output.
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Green renders s in green.
func Green(s string) string { return green(s) }

// Yellow renders s in yellow.
func Yellow(s string) string { return yellow(s) }

// Red renders s in red.
func Red(s string) string { return red(s) }

// Bold renders s in bold.
func Bold(s string) string { return bold(s) }

// Dim renders s dimmed.
func Dim(s string) string { return dim(s) }

// DotPad pads name with dots to the given width.
// Example: DotPad("FABRIC-VRF", 30) → "FABRIC-VRF ..................."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}

// Status returns a colored one-word outcome for a rendered template.
func Status(failed bool) string {
	if failed {
		return Red("FAILED")
	}
	return Green("ok")
}
