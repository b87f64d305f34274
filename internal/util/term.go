package util

import (
	"os"

	"github.com/fatih/color"
)

// IsTTY returns true if stdout is a terminal.
func IsTTY() bool {
	return isCharDevice(os.Stdout)
}

func isCharDevice(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// InitColor disables color when asked to by flag, by NO_COLOR, by a dumb
// terminal, or when stdout is not a terminal.
func InitColor(noColor bool) {
	if ColorDisabled(noColor, os.Getenv("NO_COLOR"), os.Getenv("TERM")) || !IsTTY() {
		color.NoColor = true
	}
}

// ColorDisabled reports whether the flag or environment turns color off.
func ColorDisabled(flag bool, noColorEnv, term string) bool {
	return flag || noColorEnv != "" || term == "dumb"
}
