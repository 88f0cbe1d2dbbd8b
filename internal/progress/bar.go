package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Bar is a single-line terminal progress bar. Increment is safe to call
// from several goroutines.
type Bar struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	current int
	width   int
	prefix  string
}

// New creates a bar writing to out.
func New(out io.Writer, total int, prefix string) *Bar {
	return &Bar{
		out:    out,
		total:  total,
		width:  40,
		prefix: prefix,
	}
}

// Interactive reports whether f is a terminal, i.e. whether redrawing a bar
// on it makes sense.
func Interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current++
	b.render()
}

// Complete clears the bar and prints message.
func (b *Bar) Complete(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.total
	fmt.Fprintf(b.out, "\r%s\r  ✓ %s\n", strings.Repeat(" ", b.width+len(b.prefix)+20), message)
}

// Current returns the number of completed steps.
func (b *Bar) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total)
	filled := int(percent * float64(b.width))
	if filled > b.width {
		filled = b.width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.width-filled)
	fmt.Fprintf(b.out, "\r  %s [%s] %3.0f%% (%d/%d)", b.prefix, bar, percent*100, b.current, b.total)
}
