package utils

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/rand"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))), 0)
)

// NewID returns a lexicographically sortable ULID string.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}
