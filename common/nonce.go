package common

import (
	"sync"
	"time"
)

var (
	lastNonce int64

	mut sync.Mutex
)

// Nonce returns a strictly monotonic millisecond timestamp. When called more
// than once within the same millisecond it increments past the previous value
// so a retried request never reuses a nonce.
func Nonce() int64 {
	mut.Lock()
	defer mut.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastNonce {
		lastNonce++
	} else {
		lastNonce = now
	}
	return lastNonce
}
