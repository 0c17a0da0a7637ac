package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// BufferCache fetches and decodes samples, keeping each decoded buffer for
// the lifetime of its context. Concurrent requests for one URL share a
// single fetch and decode.
type BufferCache struct {
	fetcher Fetcher
	decoder Decoder

	mu      sync.RWMutex
	buffers map[string]Buffer
	group   singleflight.Group
	decodes atomic.Int64
}

// NewBufferCache returns an empty cache that loads through fetcher and
// decodes with decoder.
func NewBufferCache(fetcher Fetcher, decoder Decoder) *BufferCache {
	return &BufferCache{
		fetcher: fetcher,
		decoder: decoder,
		buffers: make(map[string]Buffer),
	}
}

// Get returns the decoded buffer for url. Failures are not cached, so a
// later call retries.
func (c *BufferCache) Get(ctx context.Context, url string) (Buffer, error) {
	if buf, ok := c.lookup(url); ok {
		return buf, nil
	}
	ch := c.group.DoChan(url, func() (interface{}, error) {
		if buf, ok := c.lookup(url); ok {
			return buf, nil
		}
		if c.fetcher == nil {
			return nil, fmt.Errorf("%w: no fetcher configured for %s", ErrLoadFailed, url)
		}
		// The shared load outlives any single caller's cancellation.
		data, err := c.fetcher.Fetch(context.Background(), url)
		if err != nil {
			if !errors.Is(err, ErrLoadFailed) {
				err = fmt.Errorf("%w: %s: %v", ErrLoadFailed, url, err)
			}
			return nil, err
		}
		c.decodes.Add(1)
		buf, err := c.decoder.DecodeAudioData(data)
		if err != nil {
			if !errors.Is(err, ErrDecodeFailed) {
				err = fmt.Errorf("%w: %s: %v", ErrDecodeFailed, url, err)
			}
			return nil, err
		}
		c.mu.Lock()
		c.buffers[url] = buf
		c.mu.Unlock()
		return buf, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Buffer), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *BufferCache) lookup(url string) (Buffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buf, ok := c.buffers[url]
	return buf, ok
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// Decodes returns how many decode attempts the cache has made.
func (c *BufferCache) Decodes() int {
	return int(c.decodes.Load())
}
