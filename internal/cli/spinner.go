package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a message on w until stopped or until its context ends.
type spinner struct {
	w       io.Writer
	out     *printer
	message string
	ctx     context.Context
	cancel  context.CancelFunc

	once    sync.Once
	stopped chan struct{}
}

// spin starts a spinner on the CLI's stderr. The returned spinner must be
// stopped.
func (c *CLI) spin(ctx context.Context, message string) *spinner {
	s := newSpinner(ctx, c.errw, c.out, message)
	s.start()
	return s
}

func newSpinner(ctx context.Context, w io.Writer, out *printer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		out:     out,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
}

// stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// fail stops the spinner and reports message as a failure.
func (s *spinner) fail(message string) {
	s.stop()
	s.out.failure("%s", message)
}
