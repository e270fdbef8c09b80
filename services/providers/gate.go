package providers

import "context"

// Gate serializes blocking backend calls for a single provider
// instance. Each provider owns one gate with a single slot, so at most
// one subprocess or network call is in flight per instance; later
// calls queue behind it until the slot frees or their context ends.
type Gate chan struct{}

// NewGate creates a single-slot gate.
func NewGate() Gate {
	return make(Gate, 1)
}

// Acquire takes the slot, waiting until it is free or ctx is done.
func (g Gate) Acquire(ctx context.Context) error {
	select {
	case g <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the slot. Must follow a successful Acquire.
func (g Gate) Release() {
	<-g
}
