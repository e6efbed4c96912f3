package utils

import (
	"bytes"
	"io"
	"sync"
)

// HoldWriter writes through to an underlying writer except while held, when
// writes are buffered in memory until Release. Safe for concurrent use.
type HoldWriter struct {
	mu   sync.Mutex
	w    io.Writer
	buf  bytes.Buffer
	held bool
}

func NewHoldWriter(w io.Writer) *HoldWriter {
	return &HoldWriter{w: w}
}

// Write forwards p, or buffers it while the writer is held.
func (h *HoldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.held {
		return h.buf.Write(p)
	}
	return h.w.Write(p)
}

// Hold starts buffering writes.
func (h *HoldWriter) Hold() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.held = true
}

// Held reports whether writes are being buffered.
func (h *HoldWriter) Held() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.held
}

// Release writes everything buffered since Hold and resumes writing through.
func (h *HoldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.held = false
	if h.buf.Len() == 0 {
		return nil
	}

	_, err := h.buf.WriteTo(h.w)
	return err
}
