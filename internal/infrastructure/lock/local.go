package lock

import (
	"context"
	"hash/fnv"
)

const defaultStripes = 256

// LocalLocker guards keys with a fixed set of channel semaphores. Two keys
// may share a stripe; that only costs throughput, never correctness.
type LocalLocker struct {
	stripes []chan struct{}
}

func NewLocalLocker(stripes int) *LocalLocker {
	if stripes <= 0 {
		stripes = defaultStripes
	}
	l := &LocalLocker{stripes: make([]chan struct{}, stripes)}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

func (l *LocalLocker) stripe(key string) chan struct{} {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return l.stripes[h.Sum32()%uint32(len(l.stripes))]
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	sem := l.stripe(key)
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ErrLockTimeout
	}
}
