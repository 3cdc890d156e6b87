package service

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
)

const defaultStripes = 32

// stripedLock serializes work per key using a fixed set of mutexes. Keys are
// mapped to stripes with the same fnv hashing used to shard work, so two
// operations on one key never interleave while unrelated keys rarely contend.
type stripedLock struct {
	stripes []sync.Mutex
}

func newStripedLock(n int) *stripedLock {
	if n <= 0 {
		n = defaultStripes
	}
	return &stripedLock{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe for key and returns its unlock function.
func (l *stripedLock) Lock(key int64) func() {
	m := &l.stripes[l.index(key)]
	m.Lock()
	return m.Unlock
}

func (l *stripedLock) index(key int64) int {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(key))
	h := fnv.New32a()
	_, _ = h.Write(b[:])
	return int(h.Sum32() % uint32(len(l.stripes)))
}
