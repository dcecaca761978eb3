package rest

import (
	"context"
	"sync"
)

type bucketLock struct {
	ch   chan struct{}
	refs int
}

// BucketSerializer runs at most one function per key at a time. Keys are
// created on first use and dropped once no caller holds or waits on them.
type BucketSerializer struct {
	mu      sync.Mutex
	buckets map[string]*bucketLock
	metrics *Metrics
}

// NewBucketSerializer creates an empty serializer.
func NewBucketSerializer() *BucketSerializer {
	return &BucketSerializer{buckets: make(map[string]*bucketLock)}
}

// Do waits for the key's lock, runs fn and releases the lock whatever fn
// returns. If ctx ends before the lock is acquired, fn does not run and
// ctx.Err() is returned.
func (s *BucketSerializer) Do(ctx context.Context, key string, fn func() error) error {
	lock := s.acquireRef(key)
	defer s.releaseRef(key, lock)

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-lock.ch }()

	return fn()
}

// Len reports the number of live keys.
func (s *BucketSerializer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *BucketSerializer) acquireRef(key string) *bucketLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.buckets[key]
	if !ok {
		lock = &bucketLock{ch: make(chan struct{}, 1)}
		s.buckets[key] = lock
	}
	lock.refs++
	s.report()
	return lock
}

func (s *BucketSerializer) releaseRef(key string, lock *bucketLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.buckets, key)
	}
	s.report()
}

// report updates the bucket gauge. Caller holds mu.
func (s *BucketSerializer) report() {
	if s.metrics != nil {
		s.metrics.Buckets.Set(float64(len(s.buckets)))
	}
}
