package render

import (
	"fmt"
	"io"
	"strings"
)

// Terminal печатает поиск в консоль.
type Terminal struct {
	w io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) ShowLoading() {
	fmt.Fprintln(t.w, "Loading...")
}

func (t *Terminal) ShowError() {
	fmt.Fprintln(t.w, "Could not find weather for that destination. Please try another name.")
}

func (t *Terminal) ShowResults(v View) {
	header := fmt.Sprintf("Destination: %s", v.Location)
	fmt.Fprintln(t.w, header)
	fmt.Fprintln(t.w, strings.Repeat("-", len([]rune(header))))
	fmt.Fprintf(t.w, "Temperature: %s\n", v.Temperature)
	fmt.Fprintf(t.w, "Conditions:  %s\n", v.Description)

	if v.Gallery.Placeholder != "" {
		fmt.Fprintln(t.w, v.Gallery.Placeholder)
		return
	}
	fmt.Fprintln(t.w, "Photos:")
	for i, c := range v.Gallery.Cells {
		fmt.Fprintf(t.w, "  %d. %s\n", i+1, c.URL)
	}
}
