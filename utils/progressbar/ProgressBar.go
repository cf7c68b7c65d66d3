// Package progressbar prints a live progress bar for long-running
// rollouts to the terminal
package progressbar

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ProgressBar displays the fraction of completed steps together with
// the elapsed wall-clock time. Increment may be called from any
// goroutine; rendering happens on a background goroutine started by
// Display.
type ProgressBar struct {
	width int
	max   int64

	// progress counts Increment calls and is read and written
	// atomically, since Increment callers race the render goroutine
	progress int64

	refresh chan struct{}
	quit    chan struct{}
	closed  bool

	updateEvery       time.Duration
	updateAtIncrement bool
}

// NewProgressBar returns a progress bar that is width characters wide
// and reaches 100% after max calls to Increment. The bar redraws every
// updateEvery; with updateAtIncrement it additionally redraws on every
// Increment call.
func NewProgressBar(width, max int, updateEvery time.Duration,
	updateAtIncrement bool) *ProgressBar {
	if width < 1 || max < 1 {
		panic(fmt.Sprintf("newProgressBar: width and max must be positive, "+
			"got (%v, %v)", width, max))
	}

	return &ProgressBar{
		width:             width,
		max:               int64(max),
		refresh:           make(chan struct{}, 1),
		quit:              make(chan struct{}),
		updateEvery:       updateEvery,
		updateAtIncrement: updateAtIncrement,
	}
}

// Increment records one completed step. Calls beyond max are ignored.
func (p *ProgressBar) Increment() {
	for {
		current := atomic.LoadInt64(&p.progress)
		if current >= p.max {
			return
		}
		if atomic.CompareAndSwapInt64(&p.progress, current, current+1) {
			break
		}
	}

	if p.updateAtIncrement {
		// Coalesce into the single buffered slot so Increment never
		// blocks on a busy renderer
		select {
		case p.refresh <- struct{}{}:
		default:
		}
	}
}

// Progress returns the number of steps recorded so far
func (p *ProgressBar) Progress() int {
	return int(atomic.LoadInt64(&p.progress))
}

// Display starts drawing the bar to the terminal. It should only be
// called once.
func (p *ProgressBar) Display() {
	go func() {
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		start := time.Now()
		for {
			select {
			case <-p.refresh:
			case <-tick.C:
			case <-p.quit:
				return
			}

			fmt.Printf("\n\033[1A\033[K%v",
				p.render(time.Since(start).Round(time.Second)))
		}
	}()
}

// render builds the bar string for the current progress
func (p *ProgressBar) render(elapsed time.Duration) string {
	progress := atomic.LoadInt64(&p.progress)
	filled := int(float64(p.width) * float64(progress) / float64(p.max))

	var bar strings.Builder
	bar.WriteString("|")
	for i := 0; i < filled; i++ {
		bar.WriteString("█")
	}
	for i := filled; i < p.width; i++ {
		bar.WriteString(" ")
	}
	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]",
		float64(progress)/float64(p.max)*100.0, elapsed)

	return bar.String()
}

// Close stops the bar from drawing and releases its resources. Closing
// a closed bar panics.
func (p *ProgressBar) Close() {
	if p.closed {
		panic("close: close on closed progress bar")
	}
	p.closed = true
	close(p.quit)
	fmt.Println() // Jump to the line below the printed bar
}
