package core

import "sync"

// OpCounter tracks the number of simulated operations currently in flight.
// The boolean Loading() signal drives the global loading indicator; subscribers
// are notified on every transition between idle and loading.
type OpCounter struct {
	mu    sync.Mutex
	count int
	subs  []func(loading bool)
}

func NewOpCounter() *OpCounter {
	return &OpCounter{}
}

func (c *OpCounter) Start() {
	c.mu.Lock()
	c.count++
	notify := c.count == 1
	subs := c.subs
	c.mu.Unlock()

	if notify {
		for _, fn := range subs {
			fn(true)
		}
	}
}

// Stop decrements the counter, clamping at zero to guard against mismatched
// Start/Stop pairs.
func (c *OpCounter) Stop() {
	c.mu.Lock()
	notify := c.count == 1
	if c.count > 0 {
		c.count--
	}
	subs := c.subs
	c.mu.Unlock()

	if notify {
		for _, fn := range subs {
			fn(false)
		}
	}
}

func (c *OpCounter) Reset() {
	c.mu.Lock()
	notify := c.count > 0
	c.count = 0
	subs := c.subs
	c.mu.Unlock()

	if notify {
		for _, fn := range subs {
			fn(false)
		}
	}
}

func (c *OpCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *OpCounter) Loading() bool {
	return c.Count() > 0
}

// Subscribe registers fn to be called with the new loading state whenever it flips.
func (c *OpCounter) Subscribe(fn func(loading bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}
