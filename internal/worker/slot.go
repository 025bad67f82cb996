package worker

import "context"

// Slot is an execution slot a long cooperative wait can vacate and retake.
// Pool implements it; waits find the caller's slot through SlotFrom.
type Slot interface {
	Detach()
	Reattach()
}

type slotKey struct{}

// WithSlot tags ctx with the slot the caller's goroutine occupies.
func WithSlot(ctx context.Context, s Slot) context.Context {
	return context.WithValue(ctx, slotKey{}, s)
}

// SlotFrom returns the slot attached to ctx, nil when the caller does not
// run on a pool.
func SlotFrom(ctx context.Context) Slot {
	s, _ := ctx.Value(slotKey{}).(Slot)
	return s
}
