package bancho

import (
	"sync"
	"time"
)

// pacedWriter serializa y espacia los envíos al IRC: bancho corta la
// conexión si le escribís más rápido que un mensaje cada ~600ms.
type pacedWriter struct {
	mu   sync.Mutex
	next time.Time
	gap  time.Duration
	send func(line string) error
}

func newPacedWriter(gap time.Duration, send func(line string) error) *pacedWriter {
	return &pacedWriter{gap: gap, send: send}
}

func (w *pacedWriter) Write(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if wait := time.Until(w.next); wait > 0 {
		time.Sleep(wait)
	}
	w.next = time.Now().Add(w.gap)
	return w.send(line)
}
