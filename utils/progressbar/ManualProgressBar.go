// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
	suffix          string
}

// NewManualProgressBar returns a new ManualProgressBar printing to out
// that is width characters wide and full after max calls to Increment
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	if max < 1 {
		max = 1
	}
	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// SetSuffix sets text printed after the bar on the next Display
func (p *ManualProgressBar) SetSuffix(s string) {
	p.suffix = s
}

// String returns the current bar without terminal control codes
func (p *ManualProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]",
		p.currentProgress/p.maxProgress*100,
		time.Since(p.startTime).Truncate(time.Second))
	if p.suffix != "" {
		p.bar.WriteString(" ")
		p.bar.WriteString(p.suffix)
	}
	return p.bar.String()
}

// Display redraws the progress bar over the current terminal line
func (p *ManualProgressBar) Display() error {
	_, err := fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
	return err
}

// Close moves the cursor past the progress bar
func (p *ManualProgressBar) Close() error {
	_, err := fmt.Fprintln(p.out)
	return err
}
