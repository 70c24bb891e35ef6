package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"mediaup/internal/upload"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// progressPrinter renders poll progress. On a terminal it rewrites a single
// line in place; otherwise each update gets its own line.
type progressPrinter struct {
	out      io.Writer
	tty      bool
	rendered bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, tty: writerIsTerminal(out)}
}

func (p *progressPrinter) ObserveProgress(event upload.ProgressEvent) {
	line := fmt.Sprintf("[%3d%%] %-10s %s", event.Percent, event.State, event.Message)
	if p.tty {
		if color := stateColor(event.State); color != "" {
			line = color + line + ansiReset
		}
		fmt.Fprintf(p.out, "\r\x1b[2K%s", line)
		p.rendered = true
		return
	}
	fmt.Fprintln(p.out, line)
}

// Finish terminates the in-place line so later output starts fresh.
func (p *progressPrinter) Finish() {
	if p.tty && p.rendered {
		fmt.Fprintln(p.out)
	}
}

func stateColor(state upload.State) string {
	switch state {
	case upload.StateCompleted:
		return ansiGreen
	case upload.StateProcessing:
		return ansiBlue
	case upload.StatePending:
		return ansiYellow
	default:
		return ""
	}
}

func writerIsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
