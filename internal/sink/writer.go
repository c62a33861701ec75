package sink

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Writer copies artifacts to an io.Writer, ignoring the key
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
