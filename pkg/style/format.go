package style

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsPlain reports whether output to f should carry no styling: NO_COLOR is
// set, f is not a terminal, or the terminal has no color support.
func IsPlain(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return true
	}
	return termenv.NewOutput(f).ColorProfile() == termenv.Ascii
}
