package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"

	"github.com/blackwell-systems/cardctl/internal/catalog"
)

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// fail prints a red error line. Commands return an error afterwards so the
// process exits non-zero.
func fail(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString("✗"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

// column describes one table column. Width 0 means no truncation.
type column struct {
	title string
	width int
}

// printTable writes rows under a header, truncating wide cells by display
// width so multi-byte names keep columns aligned.
func printTable(w io.Writer, cols []column, rows [][]string) {
	line := func(cells []string, paint func(string, ...interface{}) string) {
		parts := make([]string, len(cols))
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = fit(cell, c.width)
		}
		fmt.Fprintln(w, paint(strings.TrimRight(strings.Join(parts, "  "), " ")))
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	line(titles, color.New(color.Bold).Sprintf)
	for _, r := range rows {
		line(r, fmt.Sprintf)
	}
}

// fit truncates s to width display cells and pads it to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// printFormatted writes v as yaml or json.
func printFormatted(w io.Writer, v any, format string) error {
	data, err := catalog.Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func intOrDash(p *int32) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
