package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner provides a simple progress indicator with context cancellation support.
// It stays silent when stderr is not a terminal.
type Spinner struct {
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  spinner.Spinner
	w       io.Writer
	quiet   bool
	start   sync.Once
	stop    sync.Once
	mu      sync.Mutex
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  spinner.MiniDot,
		w:       os.Stderr,
		quiet:   !isTerminal(os.Stderr),
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.start.Do(func() { go s.run() })
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-s.done:
			return
		case <-ticker.C:
			if s.quiet {
				continue
			}
			frame := s.frames.Frames[i%len(s.frames.Frames)]
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// Stop stops the spinner and clears the line. It is safe to call more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.start.Do(func() { close(s.stopped) })
		close(s.done)
		<-s.stopped
		s.cancel()
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	if s.quiet {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner's parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
