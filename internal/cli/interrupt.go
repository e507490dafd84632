package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels long-running commands on SIGINT/SIGTERM and tells
// the user what was kept.
type InterruptHandler struct {
	writer      io.Writer
	done        chan struct{}
	operation   string
	savedNote   string
	interrupted bool
	stopOnce    sync.Once
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler. operation names the
// work in the interrupt message, e.g. "Import".
func NewInterruptHandler(writer io.Writer, operation string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	if operation == "" {
		operation = "Operation"
	}
	return &InterruptHandler{
		writer:    writer,
		operation: operation,
		done:      make(chan struct{}),
	}
}

// HandleInterrupts returns a context that is canceled when the process is
// signaled or ctx ends. savedNote, when non-empty, is shown after the interrupt
// message.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, savedNote string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.savedNote = savedNote

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
		case <-ctx.Done():
			if h.stopped() {
				return
			}
		case <-h.done:
			cancel()
			return
		}

		h.mu.Lock()
		if !h.interrupted {
			h.interrupted = true
			h.showInterruptMessage()
		}
		h.mu.Unlock()
		cancel()
	}()

	return ctx
}

// Stop detaches the handler once the work finished normally.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *InterruptHandler) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.savedNote != "" {
		msg += "\n" + FormatInfo(h.savedNote)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
