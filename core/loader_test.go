package core

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestOpCounter_clampsAtZero(t *testing.T) {
	c := NewOpCounter()

	c.Stop()
	c.Stop()
	if got := c.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}

	c.Start()
	c.Stop()
	c.Stop()
	if got := c.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
	if c.Loading() {
		t.Error("Loading() = true, want false")
	}
}

func TestOpCounter_notifiesOnTransitions(t *testing.T) {
	c := NewOpCounter()

	var got []bool
	c.Subscribe(func(loading bool) { got = append(got, loading) })

	c.Start() // idle -> loading
	c.Start() // no transition
	c.Stop()  // no transition
	c.Stop()  // loading -> idle
	c.Stop()  // already idle, clamped
	c.Start() // idle -> loading
	c.Reset() // loading -> idle
	c.Reset() // already idle

	want := []bool{true, false, true, false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestOpCounter_overlappingOps(t *testing.T) {
	c := NewOpCounter()

	c.Start()
	c.Start()
	c.Start()
	if got := c.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
	if !c.Loading() {
		t.Error("Loading() = false, want true")
	}

	c.Stop()
	if !c.Loading() {
		t.Error("Loading() = false, want true")
	}

	c.Reset()
	if c.Loading() {
		t.Error("Loading() = true, want false")
	}
}

func TestDelayer(t *testing.T) {
	if err := NopDelayer.Delay(context.Background()); err != nil {
		t.Errorf("NopDelayer.Delay() error = %v, want nil", err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NopDelayer.Delay(canceled); err != context.Canceled {
		t.Errorf("NopDelayer.Delay() error = %v, want %v", err, context.Canceled)
	}

	// non-positive durations degrade to NopDelayer
	if d := FixedDelayer(0); d != NopDelayer {
		t.Errorf("FixedDelayer(0) = %v, want NopDelayer", d)
	}

	if err := FixedDelayer(time.Millisecond).Delay(context.Background()); err != nil {
		t.Errorf("FixedDelayer.Delay() error = %v, want nil", err)
	}
	if err := FixedDelayer(time.Minute).Delay(canceled); err != context.Canceled {
		t.Errorf("FixedDelayer.Delay() error = %v, want %v", err, context.Canceled)
	}
}
