package realtime

import (
	"context"

	"pratorinaldo/pkg/logger"
)

// Enrich completes a partial insert row with denormalized fields the
// change event does not carry (sender display name, avatar) via a
// follow-up point lookup.
type Enrich func(ctx context.Context, item Item) (Item, error)

// Binder consumes a filtered change-event stream into a ListState.
// The owner cancels ctx when the subscribing view goes away; that is
// the only teardown path, so a binder must never outlive its context.
// There is no reconnect loop: a dropped stream is re-bound by whoever
// re-attaches the subscriber.
type Binder struct {
	State  *ListState
	Enrich Enrich

	// OnApplied fires after an event actually changed the list, with the
	// (possibly enriched) event that was applied.
	OnApplied func(ev ChangeEvent)
}

// Run blocks until ctx is cancelled or the event channel closes.
func (b *Binder) Run(ctx context.Context, events <-chan ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.apply(ctx, ev)
		}
	}
}

func (b *Binder) apply(ctx context.Context, ev ChangeEvent) {
	if ev.Type == EventInsert && b.Enrich != nil && ev.Item != nil {
		enriched, err := b.Enrich(ctx, ev.Item)
		if err != nil {
			logger.Warn("realtime: enrich failed for %s/%s: %v", ev.Table, ev.Item.ItemID(), err)
		} else if enriched != nil {
			ev.Item = enriched
		}
	}

	if b.State.Apply(ev) && b.OnApplied != nil {
		b.OnApplied(ev)
	}
}
