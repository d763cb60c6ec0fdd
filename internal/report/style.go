package report

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"ideprojects/internal/config"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

const (
	ruleWidth   = 80
	fieldIndent = "    "
	absentValue = "n/a"
	existsGlyph = "✓"
	missingMark = "✗"
)

// ShouldColorize resolves a colour policy against the destination writer.
func ShouldColorize(mode string, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func rule() string {
	return strings.Repeat("=", ruleWidth)
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}
