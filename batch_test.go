package canopy

import "testing"

func keyFromMap(keys map[ElementID]BatchKey) func(ElementID) BatchKey {
	return func(id ElementID) BatchKey { return keys[id] }
}

func flatten(batches []Batch) []ElementID {
	var out []ElementID
	for _, b := range batches {
		out = append(out, b.IDs...)
	}
	return out
}

func TestBatchEmpty(t *testing.T) {
	b := NewBatcher()
	if got := b.Batch(nil, nil, nil); len(got) != 0 {
		t.Errorf("Batch(nil) = %v, want empty", got)
	}
}

func TestBatchSingleKey(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{1, 2, 3}
	keys := map[ElementID]BatchKey{1: {Style: 1}, 2: {Style: 1}, 3: {Style: 1}}

	got := b.Batch(ids, keyFromMap(keys), nil)
	if len(got) != 1 {
		t.Fatalf("batches = %d, want 1", len(got))
	}
	if len(got[0].IDs) != 3 {
		t.Errorf("batch size = %d, want 3", len(got[0].IDs))
	}
}

func TestBatchSplitsOnKeyChange(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{1, 2, 3, 4}
	keys := map[ElementID]BatchKey{
		1: {Style: 1}, 2: {Style: 1},
		3: {Style: 2}, 4: {Style: 1},
	}

	got := b.Batch(ids, keyFromMap(keys), nil)
	if len(got) != 3 {
		t.Fatalf("batches = %d, want 3 (run, split, run)", len(got))
	}
	if got[0].Key != (BatchKey{Style: 1}) || got[1].Key != (BatchKey{Style: 2}) || got[2].Key != (BatchKey{Style: 1}) {
		t.Errorf("batch keys = %v %v %v", got[0].Key, got[1].Key, got[2].Key)
	}
}

func TestBatchSplitsOnClipChange(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{1, 2}
	keys := map[ElementID]BatchKey{
		1: {Style: 1, Clip: 0},
		2: {Style: 1, Clip: 7},
	}
	got := b.Batch(ids, keyFromMap(keys), nil)
	if len(got) != 2 {
		t.Errorf("batches = %d, want 2 (clip change splits)", len(got))
	}
}

func TestBatchCompletenessAndOrder(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{9, 4, 7, 1, 3, 8, 2}
	keys := map[ElementID]BatchKey{
		9: {Style: 1}, 4: {Style: 1}, 7: {Style: 2},
		1: {Style: 2}, 3: {Style: 1}, 8: {Style: 3}, 2: {Style: 3},
	}

	got := flatten(b.Batch(ids, keyFromMap(keys), nil))
	if len(got) != len(ids) {
		t.Fatalf("flattened %d ids, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("concatenated batches = %v, want input order %v", got, ids)
		}
	}
}

func TestBatchDeterministic(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{1, 2, 3, 4, 5}
	keys := map[ElementID]BatchKey{1: {Style: 1}, 2: {Style: 2}, 3: {Style: 2}, 4: {Style: 1}, 5: {Style: 1}}

	first := b.Batch(ids, keyFromMap(keys), nil)
	second := b.Batch(ids, keyFromMap(keys), nil)
	if len(first) != len(second) {
		t.Fatalf("batch counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || len(first[i].IDs) != len(second[i].IDs) {
			t.Fatalf("batch %d differs between identical runs", i)
		}
	}
}

func TestBatchDisabledOnePerElement(t *testing.T) {
	b := NewBatcher()
	b.Enabled = false
	ids := []ElementID{1, 2, 3}
	keys := map[ElementID]BatchKey{1: {Style: 1}, 2: {Style: 1}, 3: {Style: 1}}

	got := b.Batch(ids, keyFromMap(keys), nil)
	if len(got) != 3 {
		t.Fatalf("disabled batcher made %d batches, want 3", len(got))
	}
	flat := flatten(got)
	for i := range ids {
		if flat[i] != ids[i] {
			t.Fatalf("disabled batcher order = %v, want %v", flat, ids)
		}
	}
}

func TestBatchBufferReuse(t *testing.T) {
	b := NewBatcher()
	ids := []ElementID{1, 2}
	keys := map[ElementID]BatchKey{1: {Style: 1}, 2: {Style: 2}}

	buf := make([]Batch, 0, 8)
	got := b.Batch(ids, keyFromMap(keys), buf[:0])
	if len(got) != 2 {
		t.Fatalf("batches = %d, want 2", len(got))
	}
	got2 := b.Batch(ids, keyFromMap(keys), got[:0])
	if len(got2) != 2 {
		t.Errorf("reused buffer batches = %d, want 2", len(got2))
	}
}
