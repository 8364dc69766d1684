package canopy

// BatchKey groups draw operations that can be submitted in a single draw
// call. What makes two elements compatible is the caller's business (style
// class, clip region); the batcher only compares keys for equality.
type BatchKey struct {
	Style uint16
	Clip  uint16
}

// Batch is a run of consecutive visible elements sharing a compatibility
// key, in canonical paint order.
type Batch struct {
	Key BatchKey
	// IDs aliases a window of the visible-set slice passed to Batch; it is
	// valid until the next batching call and MUST NOT be retained.
	IDs []ElementID
}

// Batcher groups an ordered visible set into draw batches.
type Batcher struct {
	// Enabled toggles batching. When false every element gets its own
	// single-element batch; the rendered output is identical.
	Enabled bool
}

// NewBatcher creates a Batcher, enabled.
func NewBatcher() *Batcher {
	return &Batcher{Enabled: true}
}

// Batch walks ids once in order, starting a new batch whenever the
// compatibility key changes from the previous element. Paint order is never
// altered. The concatenation of all emitted batches is exactly ids, and
// output is deterministic for identical inputs.
func (b *Batcher) Batch(ids []ElementID, keyOf func(ElementID) BatchKey, out []Batch) []Batch {
	if len(ids) == 0 {
		return out
	}

	if !b.Enabled {
		for i := range ids {
			out = append(out, Batch{Key: keyOf(ids[i]), IDs: ids[i : i+1]})
		}
		return out
	}

	start := 0
	current := keyOf(ids[0])
	for i := 1; i < len(ids); i++ {
		key := keyOf(ids[i])
		if key != current {
			out = append(out, Batch{Key: current, IDs: ids[start:i]})
			start = i
			current = key
		}
	}
	return append(out, Batch{Key: current, IDs: ids[start:]})
}
