// Package term centralizes the console output used across the pipeline:
// step and detail lines, warnings, timing trailers and download progress
// bars. Output is colored; progress bars only render on a terminal.
package term

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Step logs a top level pipeline step.
func Step(text string) {
	fmt.Println(
		color.BlueString(" •"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// Detail logs a nested detail line under the current step.
func Detail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// Warn logs a recoverable condition; processing continues after these.
func Warn(text string) {
	fmt.Println(
		color.YellowString(" !"),
		color.YellowString(text),
	)
}

// Timed returns a func to be deferred that prints an ✔/✘ trailer with the
// elapsed time, depending on whether *err is set at return time.
func Timed(err *error) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil && *err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}
}

// Progress wraps an io.Reader to display a progress bar when running in a
// terminal. Returns the wrapped reader and a function to finalize the
// progress display.
func Progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{string . "prefix"}}{{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }} {{string . "suffix"}}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}
