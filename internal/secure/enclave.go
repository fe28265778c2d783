// Package secure provides memory-safe storage for the control-endpoint
// password. The value lives in an encrypted memguard enclave and is only
// decrypted for the instant an rclone invocation is being assembled.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer wraps memguard.Enclave to keep a secret encrypted at rest in
// memory and protected from swapping via mlock.
type Buffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy() calls and prevents use after
	// destroy
	destroyed bool
}

// NewBuffer creates a protected buffer from secret bytes. The input is
// copied into the enclave; the caller should zero its own copy.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// Open decrypts and returns the protected data in a locked buffer.
// The caller MUST call Destroy() on the returned LockedBuffer when done.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return b.enclave.Open()
}

// Destroy marks the buffer as destroyed and prevents further use. It is
// idempotent; after Destroy, Open returns an empty buffer. For complete
// cleanup of all memguard data at exit, call memguard.Purge() in main.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
