package share

import (
	"github.com/wisdomgarden/openwith-go/types"
)

// Merge folds a new event into the pending bundle. A nil bundle is seeded
// from the event; an event whose id has already been folded is a no-op.
// Action and exit always take the newest event's values, items append in
// arrival order up to the cap, and receivedCounts accumulates every event's
// raw count so truncation stays visible to the consumer.
func Merge(bundle *types.PendingShareBundle, ev types.ShareEvent, maxCount int) *types.PendingShareBundle {
	if bundle == nil {
		items := make([]types.ShareItem, 0, len(ev.Items))
		items = append(items, ev.Items...)
		if len(items) > maxCount {
			items = items[:maxCount]
		}
		return &types.PendingShareBundle{
			Action:             ev.Action,
			Exit:               ev.ExitOnSent,
			Items:              items,
			ReceivedCounts:     ev.RawItemCount,
			MaxAttachmentCount: maxCount,
			MergedEventIDs:     []string{ev.ID},
		}
	}

	if bundle.HasMerged(ev.ID) {
		return bundle
	}

	for _, item := range ev.Items {
		if len(bundle.Items) >= maxCount {
			break
		}
		bundle.Items = append(bundle.Items, item)
	}
	bundle.Action = ev.Action
	bundle.Exit = ev.ExitOnSent
	bundle.ReceivedCounts += ev.RawItemCount
	bundle.MaxAttachmentCount = maxCount
	bundle.MergedEventIDs = append(bundle.MergedEventIDs, ev.ID)
	return bundle
}
