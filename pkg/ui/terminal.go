package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Banner is printed once at the start of a run
const Banner = `
  ┌─┐┌─┐┌┬┐┌─┐┌─┐┌─┐
  ││ │ ┬ │ ├─┤│ ┬└─┐   hashtag exporter
  ┴└─┘└─┘ ┴ ┴ ┴└─┘└─┘
`

var (
	mu    sync.Mutex
	out   io.Writer = os.Stdout
	color bool      = term.IsTerminal(int(os.Stdout.Fd()))
	quiet bool
)

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
	Dim    = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes when
// colour output is enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		enabled := color
		mu.Unlock()
		if !enabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects all console output
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetColor forces colour output on or off
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	color = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// IsQuietMode reports whether non-error output is suppressed
func IsQuietMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

func writeLine(s string, always bool) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && !always {
		return
	}
	fmt.Fprintln(out, s)
}

// PrintBanner prints the banner in cyan
func PrintBanner() {
	writeLine(Cyan(Banner), false)
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		writeLine(Red(msg+": "+fmt.Sprintf("%v", args[0])), true)
	} else {
		writeLine(Red(msg), true)
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	writeLine(Green(msg), false)
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	writeLine(fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)), false)
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		writeLine(Yellow(msg+": "+fmt.Sprintf("%v", args[0])), false)
	} else {
		writeLine(Yellow(msg), false)
	}
}

// PrintStatus prints a plain progress line
func PrintStatus(msg string) {
	writeLine(Dim(msg), false)
}
