package util

import (
	"bytes"
	"sync"
)

// LocalBuffer is a bytes.Buffer that is safe for concurrent use, so a
// child process can write to it while another goroutine reads.
type LocalBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// NewLocalBuffer returns an empty buffer.
func NewLocalBuffer() *LocalBuffer { return &LocalBuffer{} }

func (b *LocalBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *LocalBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}
