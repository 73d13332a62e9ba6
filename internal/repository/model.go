package repository

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/bassista/tzcache/internal/timezone"
)

// Metadata holds versioning info for reload decisions.
type Metadata struct {
	LastUpdate int64 `json:"lastUpdate" validate:"gte=0"` // Unix timestamp in milliseconds
}

// SnapshotDocument is the persisted form of the timezone cache.
// Items is kept as raw JSON: its shape is only trusted once the cache has
// validated it on restore.
type SnapshotDocument struct {
	Metadata Metadata        `json:"metadata"`
	Items    json.RawMessage `json:"items" validate:"required"`
}

// NewSnapshotDocument encodes items into a document stamped with lastUpdate.
func NewSnapshotDocument(items timezone.CacheState, lastUpdate int64) (SnapshotDocument, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return SnapshotDocument{}, fmt.Errorf("marshal items: %w", err)
	}
	return SnapshotDocument{
		Metadata: Metadata{LastUpdate: lastUpdate},
		Items:    payload,
	}, nil
}

// AreSnapshotsEqual compares the items of two documents ignoring Metadata.
// Payloads are decoded to generic values so key order and formatting do not count.
func AreSnapshotsEqual(a, b *SnapshotDocument) bool {
	if a == nil || b == nil {
		return a == b
	}

	var aItems, bItems any
	if err := json.Unmarshal(a.Items, &aItems); err != nil {
		return false
	}
	if err := json.Unmarshal(b.Items, &bItems); err != nil {
		return false
	}
	return reflect.DeepEqual(aItems, bItems)
}
