package core

import (
	"context"
	"time"
)

// Delayer simulates network latency in front of in-memory operations.
// Tests inject NopDelayer to keep timing deterministic.
type Delayer interface {
	Delay(ctx context.Context) error
}

// NopDelayer returns immediately; the default for tests.
var NopDelayer Delayer = nopDelayer{}

type nopDelayer struct{}

func (nopDelayer) Delay(ctx context.Context) error { return ctx.Err() }

type fixedDelayer time.Duration

// FixedDelayer sleeps for d on every call, bailing early if ctx is canceled.
func FixedDelayer(d time.Duration) Delayer {
	if d <= 0 {
		return NopDelayer
	}
	return fixedDelayer(d)
}

func (d fixedDelayer) Delay(ctx context.Context) error {
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
