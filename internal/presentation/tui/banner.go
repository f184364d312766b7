package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"   __ _                                               ", "#818cf8"},
	{"  / _| | _____      _____ __ _ _ ____   ____ _ ___    ", "#a78bfa"},
	{" | |_| |/ _ \\ \\ /\\ / / __/ _` | '_ \\ \\ / / _` / __|   ", "#c084fc"},
	{" |  _| | (_) \\ V  V / (_| (_| | | | \\ V / (_| \\__ \\   ", "#e879f9"},
	{" |_| |_|\\___/ \\_/\\_/ \\___\\__,_|_| |_|\\_/ \\__,_|___/   ", "#f472b6"},
}

// PrintBanner writes the flowcanvas banner, shaded per line when the
// terminal supports color.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
