package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

// writerWidth returns the terminal width of w, or 0 when w is not a terminal.
func writerWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}
