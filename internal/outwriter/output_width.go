package outwriter

import (
	"os"

	"github.com/huangsam/cigate/internal/contract"
	"golang.org/x/term"
)

// getMaxTablePathWidth calculates the maximum width for artifact paths in table output
// based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for CI logs
		} else {
			termWidth = detectedWidth
		}
	}

	// Kind + Message columns with borders/padding
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
